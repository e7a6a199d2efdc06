package domain

// TargetType enumerates how an actual is compared with its target.
type TargetType string

const (
	TargetMin   TargetType = "MIN"
	TargetMax   TargetType = "MAX"
	TargetRange TargetType = "RANGE"
)

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	switch t {
	case TargetMin, TargetMax, TargetRange:
		return true
	}
	return false
}

// TargetDefinition is the active target for one metric in a period.
// Value is used by MIN/MAX, Lower and Upper by RANGE.
type TargetDefinition struct {
	Type     TargetType `json:"target_type"`
	Value    *float64   `json:"target_value"`
	Lower    *float64   `json:"lower_bound"`
	Upper    *float64   `json:"upper_bound"`
	Currency *string    `json:"currency"`
}

// TargetStatus is the lifecycle flag on a stored target row.
type TargetStatus string

const (
	TargetActive   TargetStatus = "ACTIVE"
	TargetInactive TargetStatus = "INACTIVE"
)

// Target is a stored target row, as written during client onboarding.
type Target struct {
	ID          string       `json:"id" db:"id"`
	ClientID    string       `json:"client_id" db:"client_id"`
	MetricName  string       `json:"metric_name" db:"metric_name"`
	PeriodStart Date         `json:"period_start" db:"period_start"`
	PeriodEnd   Date         `json:"period_end" db:"period_end"`
	Status      TargetStatus `json:"status" db:"status"`
	TargetDefinition
}
