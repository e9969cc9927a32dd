package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// ConstructorHandler handles the build-your-own menu page
type ConstructorHandler struct {
	service *service.ConstructorService
	logger  *slog.Logger
}

// NewConstructorHandler creates a new constructor handler
func NewConstructorHandler(service *service.ConstructorService, logger *slog.Logger) *ConstructorHandler {
	return &ConstructorHandler{
		service: service,
		logger:  logger,
	}
}

type activeRequest struct {
	Active bool `json:"active"`
}

// OrderCreatedResponse is returned by every confirm
type OrderCreatedResponse struct {
	OrderID string `json:"orderId"`
}

// View handles GET /api/constructor?day=&type=
func (h *ConstructorHandler) View(w http.ResponseWriter, r *http.Request) {
	day := models.Monday
	if raw := strings.TrimSpace(r.URL.Query().Get("day")); raw != "" {
		parsed, err := models.ParseDay(raw)
		if err != nil {
			WriteServiceError(w, err, h.logger)
			return
		}
		day = parsed
	}

	view, err := h.service.View(r.Context(), day, r.URL.Query().Get("type"))
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// Set handles PUT /api/constructor/{day}/{dishId}
func (h *ConstructorHandler) Set(w http.ResponseWriter, r *http.Request) {
	day, id, ok := dayDishParams(w, r, h.logger)
	if !ok {
		return
	}
	var req activeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.Set(r.Context(), day, id, req.Active); err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, activeRequest{Active: req.Active}, h.logger)
}

// Toggle handles POST /api/constructor/{day}/{dishId}/toggle
func (h *ConstructorHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	day, id, ok := dayDishParams(w, r, h.logger)
	if !ok {
		return
	}
	active, err := h.service.Toggle(r.Context(), day, id)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, activeRequest{Active: active}, h.logger)
}

// Confirm handles POST /api/constructor/confirm
func (h *ConstructorHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	orderID, err := h.service.Confirm(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusCreated, OrderCreatedResponse{OrderID: orderID}, h.logger)
}

// Reset handles DELETE /api/constructor
func (h *ConstructorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset()
	w.WriteHeader(http.StatusNoContent)
}
