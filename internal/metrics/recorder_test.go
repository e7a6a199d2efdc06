package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/measure-agent/internal/domain"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Request(OutcomeOK)
	r.Request(OutcomeOK)
	r.Request(OutcomeNotFound)
	r.Evaluation("roas", domain.StatusBelowTarget)
	r.Score(80)
	r.Step("actuals", time.Now().Add(-50*time.Millisecond))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("roas", "BELOW_TARGET")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "dmaic_measure_performance_score")
	assert.Contains(t, names, "dmaic_measure_step_duration_seconds")
}

func TestEvaluationLabelsUnknownMetricsAsOther(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	for i := 0; i < 50; i++ {
		r.Evaluation(fmt.Sprintf("junk_%d", i), domain.StatusNoTarget)
	}
	r.Evaluation("cost", domain.StatusMeetsTarget)

	assert.Equal(t, 2, testutil.CollectAndCount(r.evaluations))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.evaluations.WithLabelValues("other", "NO_TARGET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("cost", "MEETS_TARGET")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Request(OutcomeError)
		r.Evaluation("cost", domain.StatusNoTarget)
		r.Score(100)
		r.Step("targets", time.Now())
	})
}
