package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// FavoritesHandler handles hearted dishes
type FavoritesHandler struct {
	service *service.FavoritesService
	logger  *slog.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(service *service.FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.List(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// Add handles PUT /api/favorites/{dishId}
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := dishIDParam(r, "dishId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}
	if err := h.service.Add(r.Context(), id); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/favorites/{dishId}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := dishIDParam(r, "dishId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}
	h.service.Remove(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/favorites
func (h *FavoritesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
