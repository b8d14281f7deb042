package ui

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/settings"
)

// Readout is everything a display surface shows, already formatted.
type Readout struct {
	Contracts       string `json:"contracts"`
	RiskPerContract string `json:"risk_per_contract"`
	TotalRisk       string `json:"total_risk"`
	TotalFees       string `json:"total_fees"`
	NetLoss         string `json:"net_loss"`

	TickValue string `json:"tick_value"`
	TickSize  string `json:"tick_size"`

	// HasValue is set when at least one contract was sized.
	HasValue bool `json:"has_value"`

	// Seq increases with every render of a session; 0 for stateless readouts.
	Seq uint64 `json:"seq,omitempty"`

	Symbol string         `json:"symbol"`
	Label  string         `json:"label"`
	Theme  settings.Theme `json:"theme"`

	// Raw field text, so a form can be refilled exactly.
	Risk string `json:"risk"`
	Stop string `json:"stop"`
	Comm string `json:"comm"`

	Result risk.Result `json:"-"`
}

// Currency formats v as dollars with two decimals, rounding the exact binary
// value of v: 1.005 is stored as 1.00499... and shows as $1.00.
func Currency(v float64) string {
	return "$" + decimal.NewFromFloatWithExponent(v, -2).StringFixed(2)
}

// Plain formats v as the shortest decimal that round-trips, with no forced
// precision.
func Plain(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// NewReadout formats a sizing result for spec and the current field state.
func NewReadout(spec contracts.Spec, st settings.Settings, r risk.Result) Readout {
	return Readout{
		Contracts:       strconv.Itoa(r.Contracts),
		RiskPerContract: Currency(r.RiskPerContract),
		TotalRisk:       Currency(r.TotalRisk),
		TotalFees:       Currency(r.TotalFees),
		NetLoss:         Currency(r.NetLoss),
		TickValue:       Currency(spec.TickValue),
		TickSize:        Plain(spec.TickSize),
		HasValue:        !r.IsZero(),
		Symbol:          spec.Symbol,
		Label:           spec.Label(),
		Theme:           st.Theme,
		Risk:            st.Risk,
		Stop:            st.Stop,
		Comm:            st.Comm,
		Result:          r,
	}
}
