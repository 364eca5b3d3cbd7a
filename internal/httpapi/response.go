package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Error     string `json:"error"`
	Rule      string `json:"rule,omitempty"`
	Field     string `json:"field,omitempty"`
	Current   string `json:"current,omitempty"`
	Requested string `json:"requested,omitempty"`
}

// StatusCode maps an engine error to its HTTP status.
func StatusCode(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsDuplicate(err):
		return http.StatusConflict
	case apperr.IsRuleViolation(err):
		return http.StatusUnprocessableEntity
	case apperr.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "request body is required", Rule: "validation"})
			return false
		}
		h.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON in request body", Rule: "validation"})
		return false
	}
	return true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	resp := ErrorResponse{Error: err.Error(), Rule: apperr.RuleName(err)}

	var ruleErr *apperr.RuleError
	if errors.As(err, &ruleErr) {
		resp.Error = ruleErr.Rule.Error()
		resp.Current = ruleErr.Current
		resp.Requested = ruleErr.Requested
	}
	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
		resp.Error = "internal error"
	}

	h.respondJSON(w, status, resp)
}
