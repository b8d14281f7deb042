package risk

import (
	"math"

	"github.com/rustyeddy/sizer/contracts"
)

// MinRiskFloor is the smallest budget, in account currency, a position is sized
// for. Budgets under the floor are raised to it.
const MinRiskFloor = 200.0

// MaxContracts is the largest count Calculate reports. Above it float64 can no
// longer represent every count, so such positions size to zero.
const MaxContracts = 1 << 53

type Inputs struct {
	RiskBudget float64 // max dollar loss the trader accepts
	StopTicks  float64 // stop distance in ticks
	Contract   contracts.Spec
	Commission float64 // round trip per contract, may differ from Contract.Commission
}

type Result struct {
	Contracts       int
	RiskPerContract float64
	TotalRisk       float64
	TotalFees       float64
	NetLoss         float64
}

// IsZero reports whether r is the "nothing to size" result.
func (r Result) IsZero() bool {
	return r == Result{}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Calculate sizes a position. A non-positive budget or stop, or one needing more
// than MaxContracts, yields the zero Result. Otherwise the contract count is
// rounded up so that the position risks at least max(RiskBudget, MinRiskFloor).
func Calculate(in Inputs) Result {
	if !finite(in.RiskBudget) || !finite(in.StopTicks) {
		return Result{}
	}
	if in.RiskBudget <= 0 || in.StopTicks <= 0 {
		return Result{}
	}

	perContract := in.StopTicks * in.Contract.TickValue
	if !finite(perContract) || perContract <= 0 {
		return Result{}
	}

	budget := math.Max(in.RiskBudget, MinRiskFloor)
	if budget/perContract > MaxContracts {
		return Result{}
	}
	n := contractsFor(budget, perContract)

	commission := in.Commission
	if !finite(commission) {
		commission = 0
	}

	totalRisk := float64(n) * perContract
	fees := float64(n) * commission

	return Result{
		Contracts:       n,
		RiskPerContract: perContract,
		TotalRisk:       totalRisk,
		TotalFees:       fees,
		NetLoss:         totalRisk + fees,
	}
}

// contractsFor returns the smallest n with n*perContract >= budget.
func contractsFor(budget, perContract float64) int {
	n := math.Ceil(budget / perContract)
	// budget/perContract can land just above an integer in floating point.
	if n > 1 && (n-1)*perContract >= budget {
		n--
	}
	return int(n)
}
