package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// CatalogHandler handles dish and menu HTTP requests
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListDishes handles GET /api/dishes?type=
func (h *CatalogHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.ListDishes(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, dishes, h.logger)
}

// GetDish handles GET /api/dishes/{dishId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Dish not found
func (h *CatalogHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseDishID(chi.URLParam(r, "dishId"))
	if err != nil {
		h.logger.Warn("invalid dish ID format", "dishId", chi.URLParam(r, "dishId"))
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	dish, err := h.service.GetDish(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, dish, h.logger)
}

// DayMenu handles GET /api/menu/{tier}/{day}?week=
func (h *CatalogHandler) DayMenu(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	day, err := dayParam(r, "day")
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	week, err := weekQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	view, err := h.service.DayMenu(r.Context(), tier, day, week)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// Stats handles GET /api/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.Stats(), h.logger)
}

// InvalidateCache handles DELETE /api/catalog/cache
// - 204: cache dropped, the next read refetches
// - 501: the catalog source keeps no cache
func (h *CatalogHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if !h.service.InvalidateCache() {
		WriteError(w, http.StatusNotImplemented, "Catalog cache not supported", h.logger)
		return
	}
	h.logger.Info("catalog cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}
