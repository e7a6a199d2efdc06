package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/httputil"
)

type upsertClientRequest struct {
	ClientName  *string `json:"client_name"`
	Database    string  `json:"database"`
	Schema      string  `json:"schema"`
	TablePrefix string  `json:"table_prefix"`
}

type upsertTargetRequest struct {
	MetricName  string              `json:"metric_name"`
	PeriodStart domain.Date         `json:"period_start"`
	PeriodEnd   domain.Date         `json:"period_end"`
	Status      domain.TargetStatus `json:"status"`
	domain.TargetDefinition
}

type upsertTargetResponse struct {
	Inserted bool           `json:"inserted"`
	Target   *domain.Target `json:"target"`
}

// HandleGetClient returns a client's warehouse config.
//
//	GET /clients/{clientID}
func (h *Handlers) HandleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.onboarding.GetClient(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// HandleUpsertClient creates or replaces a client's warehouse config.
//
//	PUT /clients/{clientID}
func (h *Handlers) HandleUpsertClient(w http.ResponseWriter, r *http.Request) {
	var req upsertClientRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	c := &domain.ClientConfig{
		ClientID:   chi.URLParam(r, "clientID"),
		ClientName: req.ClientName,
		WarehouseLocation: domain.WarehouseLocation{
			Database:    req.Database,
			Schema:      req.Schema,
			TablePrefix: req.TablePrefix,
		},
	}
	if err := h.onboarding.UpsertClient(r.Context(), c); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// HandleUpsertTarget adds a target for the client. Repeating the same
// metric and period leaves the stored row in place and returns 200.
//
//	POST /clients/{clientID}/targets
func (h *Handlers) HandleUpsertTarget(w http.ResponseWriter, r *http.Request) {
	var req upsertTargetRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	t := &domain.Target{
		ClientID:         chi.URLParam(r, "clientID"),
		MetricName:       req.MetricName,
		PeriodStart:      req.PeriodStart,
		PeriodEnd:        req.PeriodEnd,
		Status:           req.Status,
		TargetDefinition: req.TargetDefinition,
	}
	inserted, err := h.onboarding.UpsertTarget(r.Context(), t)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	respondJSON(w, status, upsertTargetResponse{Inserted: inserted, Target: t})
}
