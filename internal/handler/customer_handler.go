package handler

import (
	"encoding/json"
	"net/http"

	"quotedesk/internal/model"
	"quotedesk/internal/service"

	"github.com/rs/zerolog"
)

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	service service.CustomerService
	logger  zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger.With().Str("handler", "customer").Logger(),
	}
}

// GetAll handles GET /api/customers requests with pagination.
func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := parsePagination(w, r, h.logger)
	if !ok {
		return
	}

	customers, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve customers", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

// GetByID handles GET /api/customers/{id} requests.
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	customerID := pathSuffix(r.URL.Path, "/api/customers/")
	if customerID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "customer ID is required", h.logger)
		return
	}

	customer, err := h.service.GetByID(r.Context(), customerID)
	if err != nil {
		writeDomainError(w, r, err, http.StatusNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// Create handles POST /api/customers requests.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var customer model.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), &customer)
	if err != nil {
		writeDomainError(w, r, err, http.StatusBadRequest, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/customers/{id} requests.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID := pathSuffix(r.URL.Path, "/api/customers/")
	if customerID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "customer ID is required", h.logger)
		return
	}

	var customer model.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	customer.ID = customerID

	updated, err := h.service.Update(r.Context(), &customer)
	if err != nil {
		writeDomainError(w, r, err, http.StatusNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/customers/{id} requests.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID := pathSuffix(r.URL.Path, "/api/customers/")
	if customerID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "customer ID is required", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), customerID); err != nil {
		writeDomainError(w, r, err, http.StatusNotFound, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
