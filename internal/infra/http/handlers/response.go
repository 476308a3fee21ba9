package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

const (
	codeInvalidJSON     = "INVALID_JSON"
	codeInternalError   = "INTERNAL_ERROR"
	codeTooManyRequests = "TOO_MANY_REQUESTS"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps usecase errors to responses. Technical causes are logged, never returned.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, domainStatus(de.Code), ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}
	log.Error("request failed", zap.String("code", usecase.ErrorCode(err)), zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, codeInternalError, "Internal server error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusUnprocessableEntity
	case usecase.CodeDuplicateEmail:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case usecase.CodeOutreachUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// intQuery reads an optional integer query parameter; def is returned when it is absent.
func intQuery(r *http.Request, name string, def int) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, usecase.NewValidationError([]usecase.ValidationError{{Field: name, Message: "must be an integer"}})
	}
	return n, true, nil
}
