package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sizer/contracts"
)

func contract(t *testing.T, symbol string) contracts.Spec {
	t.Helper()
	c, ok := contracts.Futures.Lookup(symbol)
	require.True(t, ok, "missing %s", symbol)
	return c
}

func TestCalculate_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		symbol     string
		risk       float64
		stop       float64
		commission float64
		want       Result
	}{
		{
			name:   "MNQ budget under floor",
			symbol: "MNQ", risk: 150, stop: 20,
			want: Result{Contracts: 20, RiskPerContract: 10, TotalRisk: 200},
		},
		{
			name:   "MGC rounds up",
			symbol: "MGC", risk: 500, stop: 15,
			want: Result{Contracts: 34, RiskPerContract: 15, TotalRisk: 510},
		},
		{
			name:   "SIL with fees",
			symbol: "SIL", risk: 1000, stop: 4, commission: 3.20,
			want: Result{Contracts: 50, RiskPerContract: 20, TotalRisk: 1000, TotalFees: 160, NetLoss: 1160},
		},
		{
			name:   "zero risk",
			symbol: "MNQ", risk: 0, stop: 10, commission: 1.90,
			want: Result{},
		},
		{
			name:   "zero stop",
			symbol: "MNQ", risk: 100, stop: 0, commission: 1.90,
			want: Result{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Calculate(Inputs{
				RiskBudget: tt.risk,
				StopTicks:  tt.stop,
				Contract:   contract(t, tt.symbol),
				Commission: tt.commission,
			})

			assert.Equal(t, tt.want.Contracts, got.Contracts)
			assert.InDelta(t, tt.want.RiskPerContract, got.RiskPerContract, 1e-9)
			assert.InDelta(t, tt.want.TotalRisk, got.TotalRisk, 1e-9)
			assert.InDelta(t, tt.want.TotalFees, got.TotalFees, 1e-9)
			if tt.want.NetLoss == 0 {
				assert.InDelta(t, got.TotalRisk+got.TotalFees, got.NetLoss, 1e-9)
			} else {
				assert.InDelta(t, tt.want.NetLoss, got.NetLoss, 1e-9)
			}
		})
	}
}

func TestCalculate_GuardReturnsZero(t *testing.T) {
	t.Parallel()

	inputs := []struct{ risk, stop float64 }{
		{0, 0},
		{-1, 10},
		{500, -3},
		{-500, -3},
		{0, 25},
		{1000, 0},
		{math.NaN(), 10},
		{500, math.Inf(1)},
		{1e19, 1},
		{math.MaxFloat64, 0.01},
	}

	for _, c := range contracts.Futures.All() {
		for _, in := range inputs {
			got := Calculate(Inputs{RiskBudget: in.risk, StopTicks: in.stop, Contract: c, Commission: 99})
			assert.True(t, got.IsZero(), "%s risk=%v stop=%v", c.Symbol, in.risk, in.stop)
		}
	}
}

func TestCalculate_FloorGuarantee(t *testing.T) {
	t.Parallel()

	budgets := []float64{1, 50, 199.99, 200, 200.01, 333, 500, 1234.56, 10000}
	stops := []float64{0.5, 1, 3, 4, 7, 15, 20, 33.3, 100}

	for _, c := range contracts.Futures.All() {
		for _, b := range budgets {
			for _, s := range stops {
				got := Calculate(Inputs{RiskBudget: b, StopTicks: s, Contract: c, Commission: c.Commission})

				perContract := s * c.TickValue
				effective := math.Max(b, MinRiskFloor)
				want := int(math.Ceil(effective/perContract - 1e-9))

				assert.Equal(t, want, got.Contracts, "%s budget=%v stop=%v", c.Symbol, b, s)
				assert.GreaterOrEqual(t, float64(got.Contracts)*perContract, effective-1e-9)
				assert.Less(t, float64(got.Contracts-1)*perContract, effective)
				assert.InDelta(t, float64(got.Contracts)*perContract, got.TotalRisk, 1e-9)
				assert.InDelta(t, got.TotalRisk+float64(got.Contracts)*c.Commission, got.NetLoss, 1e-9)
			}
		}
	}
}

func TestCalculate_CommissionOverride(t *testing.T) {
	t.Parallel()

	mgc := contract(t, "MGC")
	got := Calculate(Inputs{RiskBudget: 300, StopTicks: 10, Contract: mgc, Commission: 0})

	assert.Equal(t, 30, got.Contracts)
	assert.Zero(t, got.TotalFees)
	assert.InDelta(t, 300.0, got.NetLoss, 1e-9)
}

func TestCalculate_Idempotent(t *testing.T) {
	t.Parallel()

	in := Inputs{RiskBudget: 777, StopTicks: 13, Contract: contract(t, "SIL"), Commission: 3.2}
	assert.Equal(t, Calculate(in), Calculate(in))
}

func TestContractsFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 20, contractsFor(200, 10))
	assert.Equal(t, 34, contractsFor(500, 15))
	assert.Equal(t, 1, contractsFor(200, 500))
	// quotients that are not exact in float64
	assert.Equal(t, 3, contractsFor(0.3, 0.1))
	assert.Equal(t, 7, contractsFor(0.7, 0.1))
}

func TestCalculate_LargeBudget(t *testing.T) {
	t.Parallel()

	mnq := contract(t, "MNQ")

	got := Calculate(Inputs{RiskBudget: 1e19, StopTicks: 1, Contract: mnq, Commission: 1.9})
	assert.True(t, got.IsZero())

	// The largest representable count still sizes.
	got = Calculate(Inputs{RiskBudget: MaxContracts * 0.5, StopTicks: 1, Contract: mnq})
	assert.Equal(t, MaxContracts, got.Contracts)
	assert.Positive(t, got.TotalRisk)
}

func TestCalculate_QuotientJustAboveInteger(t *testing.T) {
	t.Parallel()

	// 261 / (8.7 * 0.5) is 60.00000000000001 in float64, yet 60 contracts
	// already cover the budget exactly.
	got := Calculate(Inputs{RiskBudget: 261, StopTicks: 8.7, Contract: contract(t, "MNQ")})
	assert.Equal(t, 60, got.Contracts)
	assert.GreaterOrEqual(t, got.TotalRisk, 261.0)
}
