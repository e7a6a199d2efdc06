package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreMarshalJSON(t *testing.T) {
	tests := []struct {
		score Score
		want  string
	}{
		{100, "100.0"},
		{80, "80.0"},
		{0, "0.0"},
		{72.5, "72.5"},
	}
	for _, tt := range tests {
		b, err := json.Marshal(tt.score)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b))
	}
}

func TestMetricEvaluationEmitsNulls(t *testing.T) {
	e := MetricEvaluation{Name: "roas", Actual: 2.5, Status: StatusNoTarget}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"roas","actual":2.5,"target":null,"variance_abs":null,"variance_pct":null,"status":"NO_TARGET","notes":null}`,
		string(b))
}

func TestDateJSON(t *testing.T) {
	var req MeasureRequest
	err := json.Unmarshal([]byte(`{"client_id":"acme","period_start":"2025-01-01","period_end":"2025-01-31","metrics":["cost"]}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", req.PeriodStart.String())
	assert.Equal(t, "2025-01-31", req.PeriodEnd.String())

	b, err := json.Marshal(req.PeriodEnd)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-31"`, string(b))
}

func TestDateRejectsBadFormat(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/31/2025"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250131`), &d))
}

func TestTargetTypeValid(t *testing.T) {
	assert.True(t, TargetMin.Valid())
	assert.True(t, TargetMax.Valid())
	assert.True(t, TargetRange.Valid())
	assert.False(t, TargetType("BETWEEN").Valid())
}
