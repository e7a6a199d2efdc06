package measure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/evaluation"
	"github.com/ignite/measure-agent/internal/metrics"
	"github.com/ignite/measure-agent/internal/pkg/logger"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
)

// Service evaluates client metrics against their targets. It is safe for
// concurrent use.
type Service struct {
	clients  ClientConfigStore
	targets  TargetStore
	actuals  ActualsSource
	recorder *metrics.Recorder
}

// NewService wires the service to its collaborators.
func NewService(clients ClientConfigStore, targets TargetStore, actuals ActualsSource) *Service {
	return &Service{clients: clients, targets: targets, actuals: actuals}
}

// SetRecorder enables Prometheus instrumentation.
func (s *Service) SetRecorder(r *metrics.Recorder) { s.recorder = r }

// Evaluate runs one measure request end to end.
func (s *Service) Evaluate(ctx context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error) {
	started := time.Now()

	resp, err := s.evaluate(ctx, req)
	s.recorder.Request(outcome(err))
	if err != nil {
		logger.Warn("measure request failed",
			"client_id", req.ClientID,
			"error", err,
			"duration_ms", time.Since(started).Milliseconds())
		return nil, err
	}

	logger.Info("measure request evaluated",
		"client_id", req.ClientID,
		"period_start", req.PeriodStart.String(),
		"period_end", req.PeriodEnd.String(),
		"metrics", len(resp.Evaluations),
		"score", int(resp.PerformanceScore),
		"overall_status", string(resp.OverallStatus),
		"duration_ms", time.Since(started).Milliseconds())
	return resp, nil
}

func (s *Service) evaluate(ctx context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error) {
	metricNames, err := validate(req)
	if err != nil {
		return nil, err
	}

	step := time.Now()
	loc, err := s.clients.FetchWarehouseLocation(ctx, req.ClientID)
	s.recorder.Step("client_config", step)
	if err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}

	step = time.Now()
	actuals, err := s.actuals.FetchActuals(ctx, loc, req.PeriodStart, req.PeriodEnd, metricNames)
	s.recorder.Step("actuals", step)
	if err != nil {
		return nil, fmt.Errorf("actuals: %w", err)
	}

	step = time.Now()
	targets, err := s.targets.FetchTargets(ctx, req.ClientID, req.PeriodStart, req.PeriodEnd, metricNames)
	s.recorder.Step("targets", step)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}

	evals := make([]domain.MetricEvaluation, 0, len(metricNames))
	for _, name := range metricNames {
		var def *domain.TargetDefinition
		if t, ok := targets[name]; ok {
			def = &t
		}
		e := evaluation.Evaluate(name, actuals[name], def)
		s.recorder.Evaluation(name, e.Status)
		evals = append(evals, e)
	}

	summary := evaluation.Summarize(evals)
	s.recorder.Score(summary.Score)

	return &domain.MeasureResponse{
		OverallStatus:    summary.Overall,
		PerformanceScore: domain.Score(summary.Score),
		Evaluations:      evals,
		KeyInsights:      summary.Insights,
		ExecutiveSummary: summary.ExecutiveSummary,
		SlackMessage:     summary.SlackMessage,
	}, nil
}

// validate checks the request and returns the trimmed metric names in order.
func validate(req domain.MeasureRequest) ([]string, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidRequest)
	}
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
		return nil, fmt.Errorf("%w: period_start and period_end are required", ErrInvalidRequest)
	}
	if req.PeriodEnd.Before(req.PeriodStart.Time) {
		return nil, fmt.Errorf("%w: period_end %s is before period_start %s",
			ErrInvalidRequest, req.PeriodEnd, req.PeriodStart)
	}

	names := make([]string, 0, len(req.Metrics))
	for i, m := range req.Metrics {
		m = strings.TrimSpace(m)
		if m == "" {
			return nil, fmt.Errorf("%w: metrics[%d] is empty", ErrInvalidRequest, i)
		}
		names = append(names, m)
	}
	return names, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrInvalidRequest):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrClientNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrTablePrefixMissing), errors.Is(err, sqlident.ErrInvalidIdentifier):
		return metrics.OutcomeMisconfigured
	default:
		return metrics.OutcomeError
	}
}
