package manager

// Verdict is the outcome of a single admission check. Verdicts are never
// cached: host memory moves between checks.
type Verdict struct {
	Allowed bool
	Reason  DenyReason
}

// BudgetStrategy selects how RecommendedBudget sizes its advisory ceiling.
type BudgetStrategy string

const (
	StrategyConservative BudgetStrategy = "conservative"
	StrategyBalanced     BudgetStrategy = "balanced"
	StrategyPerformance  BudgetStrategy = "performance"
	StrategyDynamic      BudgetStrategy = "dynamic"
)

// Defaults applied when corresponding AdmissionController fields are unset.
const (
	defaultSafetyFactor   = 1.2
	defaultUsageThreshold = 0.85
)

// AdmissionController decides whether a load may proceed given an estimated
// cost and current host stats. It reasons about one resource at a time; the
// manager's load gate is the system-wide backstop.
type AdmissionController struct {
	// SafetyFactor is the headroom multiplier applied to the estimate:
	// a load is admitted only when available >= estimate * SafetyFactor.
	SafetyFactor float64
	// UsageThreshold caps projected usage: (used + estimate) / total must
	// stay at or below it.
	UsageThreshold float64
	// Strategy tunes RecommendedBudget.
	Strategy BudgetStrategy
}

// NewAdmissionController returns a controller with the default safety factor
// and usage threshold for the given strategy.
func NewAdmissionController(strategy BudgetStrategy) *AdmissionController {
	if strategy == "" {
		strategy = StrategyBalanced
	}
	return &AdmissionController{
		SafetyFactor:   defaultSafetyFactor,
		UsageThreshold: defaultUsageThreshold,
		Strategy:       strategy,
	}
}

// ShouldAdmit admits only when the estimate plus headroom fits in available
// memory and projected usage stays at or below the threshold. A zero-total
// snapshot (stats query failed) always denies.
func (a *AdmissionController) ShouldAdmit(name string, estCostBytes int64, st Stats) Verdict {
	if float64(st.AvailableBytes) < float64(estCostBytes)*a.SafetyFactor {
		return Verdict{Reason: DenyInsufficientHeadroom}
	}
	if st.TotalBytes == 0 {
		return Verdict{Reason: DenyThresholdExceeded}
	}
	projected := (float64(st.UsedBytes) + float64(estCostBytes)) / float64(st.TotalBytes)
	if projected > a.UsageThreshold {
		return Verdict{Reason: DenyThresholdExceeded}
	}
	return Verdict{Allowed: true}
}

// RecommendedBudget derives an advisory byte ceiling a single load may
// consume, as a strategy-dependent fraction of available memory. It is
// informational only; nothing in the manager enforces it.
func (a *AdmissionController) RecommendedBudget(st Stats) int64 {
	var frac float64
	switch a.Strategy {
	case StrategyConservative:
		frac = 0.5
	case StrategyPerformance:
		frac = 0.9
	case StrategyDynamic:
		// Back off as pressure rises.
		switch {
		case st.UsedFraction >= 0.75:
			frac = 0.4
		case st.UsedFraction >= 0.5:
			frac = 0.6
		default:
			frac = 0.8
		}
	default: // balanced
		frac = 0.7
	}
	return int64(float64(st.AvailableBytes) * frac)
}
