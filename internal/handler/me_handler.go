package handler

import (
	"net/http"

	"quotedesk/internal/middleware"
	"quotedesk/internal/model"

	"github.com/rs/zerolog"
)

// MeResponse describes the caller's resolved identity.
type MeResponse struct {
	Role string `json:"role"`
}

// MeHandler reports the role resolved from the caller's API key.
type MeHandler struct {
	logger zerolog.Logger
}

// NewMeHandler creates a new identity handler.
func NewMeHandler(logger zerolog.Logger) *MeHandler {
	return &MeHandler{logger: logger.With().Str("handler", "me").Logger()}
}

// Get handles GET /api/me requests.
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "no authenticated role", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{Role: string(role)})
}
