package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sizer/contracts"
	"github.com/rustyeddy/sizer/risk"
	"github.com/rustyeddy/sizer/session"
	"github.com/rustyeddy/sizer/settings"
)

type recorder struct {
	got []Readout
}

func (r *recorder) Render(ro Readout) error {
	r.got = append(r.got, ro)
	return nil
}

func (r *recorder) last() Readout {
	return r.got[len(r.got)-1]
}

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAdapter(t *testing.T, st settings.Store) (*Adapter, *recorder) {
	t.Helper()
	rec := &recorder{}
	ctrl := session.New(contracts.Futures, st, session.WithLogger(quietLog()))
	return NewAdapter(ctrl, rec, quietLog()), rec
}

func send(t *testing.T, a *Adapter, evs ...Event) Readout {
	t.Helper()
	var r Readout
	for _, ev := range evs {
		var err error
		r, err = a.Handle(context.Background(), ev)
		require.NoError(t, err)
	}
	return r
}

func TestCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$0.00", Currency(0))
	assert.Equal(t, "$10.00", Currency(10))
	assert.Equal(t, "$0.50", Currency(0.5))
	assert.Equal(t, "$1160.00", Currency(1160))
	assert.Equal(t, "$38.00", Currency(20*1.9))
	assert.Equal(t, "$2.12", Currency(2.12))
	// Halves that are not exact in binary round the way the stored value lies.
	assert.Equal(t, "$1.00", Currency(1.005))
	assert.Equal(t, "$2.67", Currency(2.675))
	assert.Equal(t, "$0.30", Currency(0.1+0.2))
}

func TestPlain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.25", Plain(0.25))
	assert.Equal(t, "0.1", Plain(0.10))
	assert.Equal(t, "0.005", Plain(0.005))
}

func TestNewReadout(t *testing.T) {
	t.Parallel()

	sil, _ := contracts.Futures.Lookup("SIL")
	st := settings.Settings{Contract: "SIL", Risk: "1000", Stop: "4", Comm: "3.2", Theme: settings.ThemeLight}
	res := risk.Calculate(risk.Inputs{RiskBudget: 1000, StopTicks: 4, Contract: sil, Commission: 3.2})

	r := NewReadout(sil, st, res)
	assert.Equal(t, "50", r.Contracts)
	assert.Equal(t, "$20.00", r.RiskPerContract)
	assert.Equal(t, "$1000.00", r.TotalRisk)
	assert.Equal(t, "$160.00", r.TotalFees)
	assert.Equal(t, "$1160.00", r.NetLoss)
	assert.Equal(t, "$5.00", r.TickValue)
	assert.Equal(t, "0.005", r.TickSize)
	assert.True(t, r.HasValue)
	assert.Equal(t, "SIL - Micro Silver", r.Label)
	assert.Equal(t, settings.ThemeLight, r.Theme)
	assert.Equal(t, "1000", r.Risk)
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind, value string
		want        Event
	}{
		{"contract", " mgc ", SelectContract{Symbol: "MGC"}},
		{"risk", " 150", EditRisk{Text: " 150"}},
		{"STOP", "20", EditStop{Text: "20"}},
		{"comm", "", EditCommission{Text: ""}},
		{"commission", "1.5", EditCommission{Text: "1.5"}},
		{"theme", "ignored", ToggleTheme{}},
	}
	for _, tt := range tests {
		got, err := ParseEvent(tt.kind, tt.value)
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseEvent("order", "buy")
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestAdapterStartRendersDefaults(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t, settings.NewMemoryStore())
	r, err := a.Start(context.Background())
	require.NoError(t, err)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "MNQ", r.Symbol)
	assert.Equal(t, "0", r.Contracts)
	assert.Equal(t, "$0.00", r.NetLoss)
	assert.Equal(t, "$0.50", r.TickValue)
	assert.Equal(t, "0.25", r.TickSize)
	assert.False(t, r.HasValue)
	assert.Equal(t, settings.ThemeDark, r.Theme)
	assert.Equal(t, uint64(1), r.Seq)
	assert.Equal(t, r, a.Current())
}

func TestAdapterScenarios(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t, settings.NewMemoryStore())
	_, err := a.Start(context.Background())
	require.NoError(t, err)

	// MNQ, risk under the floor; commission left empty.
	r := send(t, a, EditRisk{"150"}, EditStop{"20"})
	assert.Equal(t, "20", r.Contracts)
	assert.Equal(t, "$10.00", r.RiskPerContract)
	assert.Equal(t, "$200.00", r.TotalRisk)
	assert.Equal(t, "$0.00", r.TotalFees)

	// Selecting MGC fills in its commission.
	r = send(t, a, SelectContract{"MGC"}, EditRisk{"500"}, EditStop{"15"})
	assert.Equal(t, "34", r.Contracts)
	assert.Equal(t, "$510.00", r.TotalRisk)
	assert.Equal(t, "2.12", r.Comm)
	assert.Equal(t, "$72.08", r.TotalFees)
	assert.Equal(t, "$582.08", r.NetLoss)

	r = send(t, a, SelectContract{"SIL"}, EditRisk{"1000"}, EditStop{"4"})
	assert.Equal(t, "50", r.Contracts)
	assert.Equal(t, "$160.00", r.TotalFees)
	assert.Equal(t, "$1160.00", r.NetLoss)

	r = send(t, a, EditRisk{""})
	assert.Equal(t, "0", r.Contracts)
	assert.False(t, r.HasValue)

	r = send(t, a, EditRisk{"100"}, EditStop{"0"})
	assert.Equal(t, "0", r.Contracts)
	assert.Equal(t, "$0.00", r.TotalRisk)

	// One render per handled event plus the initial one.
	assert.Len(t, rec.got, 1+2+3+3+1+2)
}

func TestAdapterManualCommission(t *testing.T) {
	t.Parallel()

	a, _ := newAdapter(t, settings.NewMemoryStore())
	_, err := a.Start(context.Background())
	require.NoError(t, err)

	r := send(t, a, SelectContract{"SIL"}, EditRisk{"1000"}, EditStop{"4"}, EditCommission{"1"})
	assert.Equal(t, "$50.00", r.TotalFees)

	// A new selection overwrites the manual value.
	r = send(t, a, SelectContract{"SIL"})
	assert.Equal(t, "3.2", r.Comm)
	assert.Equal(t, "$160.00", r.TotalFees)
}

func TestAdapterUnknownContractIgnored(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t, settings.NewMemoryStore())
	_, err := a.Start(context.Background())
	require.NoError(t, err)
	before := send(t, a, EditRisk{"300"}, EditStop{"10"})
	renders := len(rec.got)

	r, err := a.Handle(context.Background(), SelectContract{"ES"})
	assert.ErrorIs(t, err, session.ErrUnknownContract)
	assert.Equal(t, before, r)
	assert.Len(t, rec.got, renders)
}

func TestAdapterToggleTheme(t *testing.T) {
	t.Parallel()

	a, _ := newAdapter(t, settings.NewMemoryStore())
	_, err := a.Start(context.Background())
	require.NoError(t, err)
	before := send(t, a, EditRisk{"300"}, EditStop{"10"})

	r := send(t, a, ToggleTheme{})
	assert.Equal(t, settings.ThemeLight, r.Theme)
	assert.Equal(t, before.Seq+1, r.Seq)
	r.Theme = before.Theme
	r.Seq = before.Seq
	assert.Equal(t, before, r)
}

func TestAdapterRestoresAcrossRuns(t *testing.T) {
	t.Parallel()

	st := settings.NewMemoryStore()
	a, _ := newAdapter(t, st)
	_, err := a.Start(context.Background())
	require.NoError(t, err)
	send(t, a, SelectContract{"MGC"}, EditRisk{"500"}, EditStop{"15"}, ToggleTheme{})

	b, _ := newAdapter(t, st)
	r, err := b.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MGC", r.Symbol)
	assert.Equal(t, "34", r.Contracts)
	assert.Equal(t, settings.ThemeLight, r.Theme)
}

type brokenStore struct{ settings.MemoryStore }

func (*brokenStore) Put(context.Context, string, []byte) error {
	return errors.New("read-only")
}

func TestAdapterSaveFailureStillRenders(t *testing.T) {
	t.Parallel()

	a, rec := newAdapter(t, &brokenStore{})
	_, err := a.Start(context.Background())
	require.NoError(t, err)

	r, err := a.Handle(context.Background(), EditRisk{"500"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
	assert.Equal(t, "500", r.Risk)
	assert.Len(t, rec.got, 2)
}

func TestTextDisplay(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	mnq, _ := contracts.Futures.Lookup("MNQ")
	res := risk.Calculate(risk.Inputs{RiskBudget: 150, StopTicks: 20, Contract: mnq, Commission: 1.9})

	require.NoError(t, TextDisplay{W: &buf}.Render(NewReadout(mnq, settings.Defaults("MNQ"), res)))

	out := buf.String()
	assert.Contains(t, out, "MNQ - Micro E-mini Nasdaq-100  [dark]")
	assert.Contains(t, out, "contracts       20")
	assert.Contains(t, out, "total risk      $200.00")
	assert.Contains(t, out, "fees            $38.00")
	assert.Contains(t, out, "net loss        $238.00")
}

func TestMultiDisplay(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	failing := DisplayFunc(func(Readout) error { return errors.New("gone") })

	err := MultiDisplay{a, failing, b}.Render(Readout{Contracts: "1"})
	assert.EqualError(t, err, "gone")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
