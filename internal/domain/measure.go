package domain

import "strconv"

// MetricStatus classifies one metric's actual against its target.
type MetricStatus string

const (
	StatusAboveTarget MetricStatus = "ABOVE_TARGET"
	StatusMeetsTarget MetricStatus = "MEETS_TARGET"
	StatusBelowTarget MetricStatus = "BELOW_TARGET"
	StatusNoTarget    MetricStatus = "NO_TARGET"
)

// OverallStatus summarizes all evaluations of a request.
// FAILING and NO_TARGETS are part of the response schema but are not
// produced by the summarizer.
type OverallStatus string

const (
	OverallMeetingTargets OverallStatus = "MEETING_TARGETS"
	OverallAtRisk         OverallStatus = "AT_RISK"
	OverallFailing        OverallStatus = "FAILING"
	OverallNoTargets      OverallStatus = "NO_TARGETS"
)

// Importance ranks an insight.
type Importance string

const (
	ImportanceHigh   Importance = "HIGH"
	ImportanceMedium Importance = "MEDIUM"
	ImportanceLow    Importance = "LOW"
)

// MetricEvaluation is the result of evaluating one metric. Absent optionals
// are serialized as null.
type MetricEvaluation struct {
	Name        string       `json:"name"`
	Actual      float64      `json:"actual"`
	Target      *float64     `json:"target"`
	VarianceAbs *float64     `json:"variance_abs"`
	VariancePct *float64     `json:"variance_pct"`
	Status      MetricStatus `json:"status"`
	Notes       *string      `json:"notes"`
}

// Insight is a ranked, human-readable observation.
type Insight struct {
	Message    string     `json:"message"`
	Importance Importance `json:"importance"`
}

// MeasureRequest asks for an evaluation of metrics for a client and period.
type MeasureRequest struct {
	ClientID    string   `json:"client_id"`
	PeriodStart Date     `json:"period_start"`
	PeriodEnd   Date     `json:"period_end"`
	Metrics     []string `json:"metrics"`
}

// MeasureResponse is the wire contract of the measure endpoint.
type MeasureResponse struct {
	OverallStatus    OverallStatus      `json:"overall_status"`
	PerformanceScore Score              `json:"performance_score"`
	Evaluations      []MetricEvaluation `json:"evaluations"`
	KeyInsights      []Insight          `json:"key_insights"`
	ExecutiveSummary string             `json:"executive_summary"`
	SlackMessage     string             `json:"slack_message"`
}

// Score is a performance score. It is a float on the wire and keeps a
// trailing ".0" when integral, so 80 encodes as 80.0.
type Score float64

func (s Score) MarshalJSON() ([]byte, error) {
	b := strconv.AppendFloat(nil, float64(s), 'f', -1, 64)
	for _, c := range b {
		if c == '.' {
			return b, nil
		}
	}
	return append(b, '.', '0'), nil
}

// Metrics the warehouse can compute.
const (
	MetricCost    = "cost"
	MetricRevenue = "revenue"
	MetricROAS    = "roas"
)
