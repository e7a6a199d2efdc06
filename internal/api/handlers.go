package api

import (
	"context"
	"net/http"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/httputil"
)

// MeasureEvaluator runs a measure request.
type MeasureEvaluator interface {
	Evaluate(ctx context.Context, req domain.MeasureRequest) (*domain.MeasureResponse, error)
}

// ClientOnboarder manages clients and their targets.
type ClientOnboarder interface {
	GetClient(ctx context.Context, clientID string) (*domain.ClientConfig, error)
	UpsertClient(ctx context.Context, c *domain.ClientConfig) error
	UpsertTarget(ctx context.Context, t *domain.Target) (bool, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	measure    MeasureEvaluator
	onboarding ClientOnboarder
}

// NewHandlers creates a new Handlers instance
func NewHandlers(measure MeasureEvaluator, onboarding ClientOnboarder) *Handlers {
	return &Handlers{measure: measure, onboarding: onboarding}
}

type rootResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Health  string `json:"health"`
	Docs    string `json:"docs"`
}

// HandleRoot identifies the service.
//
//	GET /
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, rootResponse{
		Service: "dmaic-measure-agent",
		Status:  "ok",
		Health:  "/health",
		Docs:    "/docs",
	})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	httputil.JSON(w, status, data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	httputil.Error(w, status, message)
}
