package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ignite/measure-agent/internal/domain"
	"github.com/ignite/measure-agent/internal/pkg/logger"
	"github.com/ignite/measure-agent/internal/pkg/sqlident"
	"github.com/ignite/measure-agent/internal/service/measure"
	"github.com/ignite/measure-agent/internal/service/onboarding"
)

// =============================================================================
// ERROR SANITIZER
// Internal errors (SQL text, warehouse object names, hostnames) never reach
// API consumers. 5xx responses carry a generic message while the full error
// is logged server-side.
// =============================================================================

// statusForError maps service sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, measure.ErrInvalidRequest),
		errors.Is(err, onboarding.ErrInvalidClient),
		errors.Is(err, onboarding.ErrInvalidTarget):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTablePrefixMissing),
		errors.Is(err, sqlident.ErrInvalidIdentifier):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status its sentinel maps to.
func respondServiceError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	respondSafeError(w, code, err, safeErrorMessage(code, err))
}

// respondSafeError logs the internal error and sends publicMsg.
func respondSafeError(w http.ResponseWriter, code int, internalErr error, publicMsg string) {
	if internalErr != nil {
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", "status", code, "error", internalErr)
		} else {
			logger.Warn("request rejected", "status", code, "error", internalErr)
		}
	}
	respondError(w, code, publicMsg)
}

// safeErrorMessage returns the error text for 4xx codes, which describe the
// caller's input, and a generic message keyed on the failure class for 5xx.
func safeErrorMessage(code int, internalErr error) string {
	if code < 500 {
		if internalErr != nil {
			return internalErr.Error()
		}
		return "Bad request"
	}

	if internalErr == nil {
		return "An internal error occurred"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	case strings.Contains(errStr, "snowflake") ||
		strings.Contains(errStr, "actuals:"):
		return "A warehouse error occurred"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "query") ||
		strings.Contains(errStr, "scan") ||
		strings.Contains(errStr, "database"):
		return "A database error occurred"

	default:
		return "An internal error occurred"
	}
}
