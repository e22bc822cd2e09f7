package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quotedesk/internal/model"
	"quotedesk/internal/service"

	"github.com/rs/zerolog"
)

// QuoteHandler handles quote-related HTTP requests.
type QuoteHandler struct {
	service service.QuoteService
	logger  zerolog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service service.QuoteService, logger zerolog.Logger) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		logger:  logger.With().Str("handler", "quote").Logger(),
	}
}

// Create handles POST /api/quotes requests.
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	// A create referencing a missing product or customer is a bad request,
	// not a 404: the quote itself has no address yet.
	q, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, http.StatusBadRequest, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, q)
}

// GetAll handles GET /api/quotes requests, optionally filtered by the
// customerId query parameter.
func (h *QuoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}

	var (
		quotes []model.Quote
		err    error
	)
	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		quotes, err = h.service.GetByCustomer(r.Context(), customerID, limit, offset)
	} else {
		quotes, err = h.service.GetAll(r.Context(), limit, offset)
	}
	if err != nil {
		writeDomainError(w, r, err, http.StatusNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quotes)
}

// GetByID handles GET /api/quotes/{id} requests.
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := pathSuffix(r.URL.Path, "/api/quotes/")
	if idStr == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "quote ID is required", h.logger)
		return
	}

	quoteID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid quote ID format", h.logger)
		return
	}

	q, err := h.service.GetByID(r.Context(), quoteID)
	if err != nil {
		writeDomainError(w, r, err, http.StatusNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, q)
}
