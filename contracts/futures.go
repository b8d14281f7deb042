package contracts

// Futures is the built-in catalog. The first entry is the default selection.
var Futures = MustNew(
	// Micro indices
	Spec{Symbol: "MNQ", Name: "Micro E-mini Nasdaq-100", TickSize: 0.25, TickValue: 0.50, Commission: 1.90, Group: "Indices"},

	// Micro metals
	Spec{Symbol: "MGC", Name: "Micro Gold", TickSize: 0.10, TickValue: 1.00, Commission: 2.12, Group: "Metals"},
	Spec{Symbol: "SIL", Name: "Micro Silver", TickSize: 0.005, TickValue: 5.00, Commission: 3.20, Group: "Metals"},
)
