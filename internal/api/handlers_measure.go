package api

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/measure-agent/internal/domain"
)

// HandleEvaluate evaluates the requested metrics for a client and period.
// Unknown body fields are ignored.
//
//	POST /measure/evaluate
func (h *Handlers) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.MeasureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.measure.Evaluate(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
