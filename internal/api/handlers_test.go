package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/metrics"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
	"github.com/ignite/measure-agent/internal/service/measure"
	"github.com/ignite/measure-agent/internal/service/onboarding"
)

// MockEvaluator returns a canned response or error.
type MockEvaluator struct {
	resp *domain.MeasureResponse
	err  error
	got  domain.MeasureRequest
}

func (m *MockEvaluator) Evaluate(_ context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error) {
	m.got = req
	return m.resp, m.err
}

// MockOnboarder records writes in memory.
type MockOnboarder struct {
	clients  map[string]*domain.ClientConfig
	inserted bool
	err      error
}

func (m *MockOnboarder) GetClient(_ context.Context, clientID string) (*domain.ClientConfig, error) {
	if c, ok := m.clients[clientID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrClientNotFound, clientID)
}

func (m *MockOnboarder) UpsertClient(_ context.Context, c *domain.ClientConfig) error {
	if m.err != nil {
		return m.err
	}
	m.clients[c.ClientID] = c
	return nil
}

func (m *MockOnboarder) UpsertTarget(_ context.Context, t *domain.Target) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.inserted, nil
}

func setupTestRouter(t *testing.T) (http.Handler, *MockEvaluator, *MockOnboarder) {
	t.Helper()
	eval := &MockEvaluator{}
	onb := &MockOnboarder{clients: map[string]*domain.ClientConfig{}}
	h := NewHandlers(eval, onb)
	hc := NewHealthChecker(nil, nil, nil)
	return SetupRoutes(h, hc, RouteOptions{AllowedOrigins: []string{"*"}}), eval, onb
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleRoot(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := do(t, router, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"dmaic-measure-agent","status":"ok","health":"/health","docs":"/docs"}`, rec.Body.String())
}

func TestHandleEvaluate_Success(t *testing.T) {
	router, eval, _ := setupTestRouter(t)
	eval.resp = &domain.MeasureResponse{
		OverallStatus:    domain.OverallMeetingTargets,
		PerformanceScore: 100,
		Evaluations:      []domain.MetricEvaluation{},
		KeyInsights:      []domain.Insight{{Message: "Stable performance across tracked metrics", Importance: domain.ImportanceLow}},
		ExecutiveSummary: "Performance on track. Score 100. Stable performance across tracked metrics",
		SlackMessage:     "DMAIC • Performance on track • Score 100.",
	}

	rec := do(t, router, http.MethodPost, "/measure/evaluate",
		`{"client_id":"acme","period_start":"2025-01-01","period_end":"2025-01-31","metrics":["roas"],"extra":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"performance_score":100.0`)
	assert.Equal(t, "acme", eval.got.ClientID)
	assert.Equal(t, "2025-01-31", eval.got.PeriodEnd.String())
	assert.Equal(t, []string{"roas"}, eval.got.Metrics)
}

func TestHandleEvaluate_BadBody(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	rec := do(t, router, http.MethodPost, "/measure/evaluate", `{"client_id":"acme","period_start":"01/02/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/measure/evaluate", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEvaluate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid", fmt.Errorf("%w: client_id is required", measure.ErrInvalidRequest), http.StatusBadRequest, "client_id is required"},
		{"unknown client", fmt.Errorf("client config: %w: ghost", domain.ErrClientNotFound), http.StatusNotFound, "client not found"},
		{"no prefix", fmt.Errorf("client config: %w: acme", domain.ErrTablePrefixMissing), http.StatusUnprocessableEntity, "table_prefix"},
		{"bad identifier", fmt.Errorf("actuals: %w: \"a-b\"", sqlident.ErrInvalidIdentifier), http.StatusUnprocessableEntity, "invalid SQL identifier"},
		{"warehouse down", errors.New("actuals: snowflake query failed for acme (ANALYTICS.RAW): 390100 (08004): Incorrect username or password"), http.StatusInternalServerError, "A warehouse error occurred"},
		{"db down", errors.New("targets: fetch targets: dial tcp 10.0.0.5:5432: connection refused"), http.StatusInternalServerError, "Service temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, eval, _ := setupTestRouter(t)
			eval.err = tt.err

			rec := do(t, router, http.MethodPost, "/measure/evaluate",
				`{"client_id":"acme","period_start":"2025-01-01","period_end":"2025-01-31","metrics":["roas"]}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			msg, _ := decodeBody(t, rec)["error"].(string)
			assert.Contains(t, msg, tt.wantMsg)
			if tt.wantStatus >= 500 {
				assert.NotContains(t, msg, "10.0.0.5")
				assert.NotContains(t, msg, "password")
			}
		})
	}
}

func TestClientRoutes(t *testing.T) {
	router, _, onb := setupTestRouter(t)

	rec := do(t, router, http.MethodGet, "/clients/acme", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPut, "/clients/acme",
		`{"client_name":"Acme","database":"ANALYTICS","schema":"DATASLAYER","table_prefix":"acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, onb.clients, "acme")
	assert.Equal(t, "acme", onb.clients["acme"].TablePrefix)

	rec = do(t, router, http.MethodGet, "/clients/acme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ANALYTICS", body["database"])
	assert.Equal(t, "Acme", body["client_name"])

	rec = do(t, router, http.MethodPut, "/clients/acme", `{"table_prefx":"acme"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpsertTarget(t *testing.T) {
	router, _, onb := setupTestRouter(t)
	body := `{"metric_name":"cost","target_type":"RANGE","lower_bound":100,"upper_bound":250,
		"period_start":"2025-01-01","period_end":"2025-01-31"}`

	onb.inserted = true
	rec := do(t, router, http.MethodPost, "/clients/acme/targets", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, true, out["inserted"])
	target := out["target"].(map[string]any)
	assert.Equal(t, "acme", target["client_id"])
	assert.Equal(t, "RANGE", target["target_type"])
	assert.Equal(t, 250.0, target["upper_bound"])

	onb.inserted = false
	rec = do(t, router, http.MethodPost, "/clients/acme/targets", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	onb.err = fmt.Errorf("%w: RANGE needs lower_bound and upper_bound", onboarding.ErrInvalidTarget)
	rec = do(t, router, http.MethodPost, "/clients/acme/targets", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	mock.ExpectPing()
	hc := NewHealthChecker(db, pingFunc(func(context.Context) error { return nil }), rdb)
	router := SetupRoutes(NewHandlers(&MockEvaluator{}, &MockOnboarder{}), hc, RouteOptions{})

	rec := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["database"].Status)
	assert.Equal(t, "up", status.Checks["warehouse"].Status)
	assert.Equal(t, "up", status.Checks["redis"].Status)

	rec = do(t, router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_WarehouseDown(t *testing.T) {
	hc := NewHealthChecker(nil, pingFunc(func(context.Context) error { return errors.New("warehouse suspended") }), nil)
	router := SetupRoutes(NewHandlers(&MockEvaluator{}, &MockOnboarder{}), hc, RouteOptions{})

	rec := do(t, router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["ready"])
}

func TestDetermineOverallStatus(t *testing.T) {
	assert.Equal(t, "healthy", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "up"}, "warehouse": {Status: "up"}, "redis": {Status: "down", Message: notConfigured},
	}))
	assert.Equal(t, "degraded", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "up"}, "warehouse": {Status: "degraded"},
	}))
	assert.Equal(t, "unhealthy", determineOverallStatus(map[string]ComponentCheck{
		"database": {Status: "down", Message: notConfigured}, "warehouse": {Status: "up"},
	}))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg).Request(metrics.OutcomeOK)

	router := SetupRoutes(NewHandlers(&MockEvaluator{}, &MockOnboarder{}), NewHealthChecker(nil, nil, nil),
		RouteOptions{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dmaic_measure_requests_total{outcome="ok"} 1`)
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5s", formatUptime(5_000_000_000))
	assert.Equal(t, "1m 5s", formatUptime(65_000_000_000))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
