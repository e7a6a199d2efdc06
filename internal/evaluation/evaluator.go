package evaluation

import "github.com/ignite/measure-agent/internal/domain"

// AboveTargetThreshold is the relative variance past which a metric that
// meets its MIN/MAX target is reported as ABOVE_TARGET.
const AboveTargetThreshold = 0.03

const (
	noteNoTarget      = "No active target in period"
	noteMissingValue  = "Target value missing"
	noteMissingBounds = "Range bounds missing"
)

// Evaluate classifies actual against def. A nil def, or one that cannot be
// evaluated, yields NO_TARGET.
func Evaluate(name string, actual float64, def *domain.TargetDefinition) domain.MetricEvaluation {
	if def == nil {
		return domain.MetricEvaluation{
			Name:   name,
			Actual: actual,
			Status: domain.StatusNoTarget,
			Notes:  ptr(noteNoTarget),
		}
	}

	switch def.Type {
	case domain.TargetMin, domain.TargetMax:
		return evaluateThreshold(name, actual, def)
	case domain.TargetRange:
		return evaluateRange(name, actual, def.Lower, def.Upper)
	}
	return domain.MetricEvaluation{Name: name, Actual: actual, Status: domain.StatusNoTarget}
}

func evaluateThreshold(name string, actual float64, def *domain.TargetDefinition) domain.MetricEvaluation {
	if def.Value == nil {
		return domain.MetricEvaluation{
			Name:   name,
			Actual: actual,
			Status: domain.StatusNoTarget,
			Notes:  ptr(noteMissingValue),
		}
	}
	target := *def.Value
	varianceAbs := actual - target
	variancePct := ratio(varianceAbs, target)

	var status domain.MetricStatus
	if def.Type == domain.TargetMin {
		status = domain.StatusBelowTarget
		if actual >= target {
			status = domain.StatusMeetsTarget
		}
		if variancePct != nil && *variancePct > AboveTargetThreshold {
			status = domain.StatusAboveTarget
		}
	} else {
		status = domain.StatusBelowTarget
		if actual <= target {
			status = domain.StatusMeetsTarget
		}
		// Well under a ceiling is the favorable direction for MAX.
		if variancePct != nil && *variancePct < -AboveTargetThreshold {
			status = domain.StatusAboveTarget
		}
	}

	return domain.MetricEvaluation{
		Name:        name,
		Actual:      actual,
		Target:      ptr(target),
		VarianceAbs: ptr(varianceAbs),
		VariancePct: variancePct,
		Status:      status,
	}
}

func evaluateRange(name string, actual float64, lower, upper *float64) domain.MetricEvaluation {
	if lower != nil && upper != nil && *lower <= actual && actual <= *upper {
		return domain.MetricEvaluation{
			Name:        name,
			Actual:      actual,
			VarianceAbs: ptr(0.0),
			VariancePct: ptr(0.0),
			Status:      domain.StatusMeetsTarget,
		}
	}

	out := domain.MetricEvaluation{Name: name, Actual: actual, Status: domain.StatusBelowTarget}
	nearest := nearestBound(actual, lower, upper)
	if nearest == nil {
		out.Notes = ptr(noteMissingBounds)
		return out
	}
	varianceAbs := actual - *nearest
	out.VarianceAbs = ptr(varianceAbs)
	out.VariancePct = ratio(varianceAbs, *nearest)
	return out
}

// nearestBound picks lower when actual is below it, otherwise upper. With a
// bound missing the other one is used.
func nearestBound(actual float64, lower, upper *float64) *float64 {
	switch {
	case lower != nil && upper != nil:
		if actual < *lower {
			return lower
		}
		return upper
	case lower != nil:
		return lower
	default:
		return upper
	}
}

// ratio returns num/den, or nil when den is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	return ptr(num / den)
}

func ptr[T any](v T) *T { return &v }
