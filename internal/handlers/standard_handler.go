package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// StandardHandler handles the fixed weekly menus
type StandardHandler struct {
	service *service.StandardService
	logger  *slog.Logger
}

// NewStandardHandler creates a new standard menu handler
func NewStandardHandler(service *service.StandardService, logger *slog.Logger) *StandardHandler {
	return &StandardHandler{
		service: service,
		logger:  logger,
	}
}

type chooseRequest struct {
	Tier   int           `json:"tier"`
	Week   *int          `json:"week,omitempty"`
	DishID models.DishID `json:"dishId"`
}

type includedRequest struct {
	Included bool `json:"included"`
}

// Day handles GET /api/standard/{tier}/{day}?week=
func (h *StandardHandler) Day(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.service.Day(r.Context(), tier, day, week)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// Choose handles PUT /api/standard/{day}/slots/{slot}
func (h *StandardHandler) Choose(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r, "day")
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	var req chooseRequest
	if err := decodeJSON(r, &req, false); err != nil || req.Tier <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.Choose(r.Context(), req.Tier, day, req.Week, chi.URLParam(r, "slot"), req.DishID); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetIncluded handles PUT /api/standard/{day}/dishes/{dishId}
func (h *StandardHandler) SetIncluded(w http.ResponseWriter, r *http.Request) {
	day, id, ok := dayDishParams(w, r, h.logger)
	if !ok {
		return
	}
	var req includedRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	h.service.SetIncluded(day, id, req.Included)
	w.WriteHeader(http.StatusNoContent)
}

// Confirm handles POST /api/standard/{tier}/confirm?week=
func (h *StandardHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	tier, err := tierParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	week, err := weekQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	orderID, err := h.service.Confirm(r.Context(), tier, week)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusCreated, OrderCreatedResponse{OrderID: orderID}, h.logger)
}
