package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"quotedesk/internal/middleware"
	"quotedesk/internal/model"
	"quotedesk/internal/quote"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes a structured error response with the given status code.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.CorrelationID(r.Context()),
	})
}

// writeDomainError maps a service error onto an HTTP response. notFoundStatus
// controls how lookup misses are reported: a GET on a missing entity is a 404,
// while a create referencing a missing entity is a 400.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, notFoundStatus int, logger zerolog.Logger) {
	var vErr *quote.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, vErr.Reason, logger)
		return
	}

	var dErr *model.DomainError
	if errors.As(err, &dErr) {
		status := http.StatusBadRequest
		switch dErr.Code {
		case model.ErrCodeProductNotFound, model.ErrCodeCustomerNotFound, model.ErrCodeQuoteNotFound:
			status = notFoundStatus
		case model.ErrCodeDuplicateID:
			status = http.StatusConflict
		case model.ErrCodeInsufficientStock:
			status = http.StatusConflict
		}
		writeError(w, r, status, dErr.Code, dErr.Message, logger)
		return
	}

	if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "is nil") {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), logger)
		return
	}

	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// pathSuffix returns the path segment after prefix with any surrounding
// slashes stripped, or an empty string when the prefix does not match.
func pathSuffix(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}

// parsePagination extracts the limit and offset query parameters, writing a
// 400 response and returning ok=false when either is malformed.
func parsePagination(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	limit = 10
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid limit parameter", logger)
			return 0, 0, false
		}
		limit = v
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid offset parameter", logger)
			return 0, 0, false
		}
		offset = v
	}

	return limit, offset, true
}
