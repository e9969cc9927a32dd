package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// CartHandler handles cart page requests. Mutations answer with the
// updated cart; misses are no-ops, not errors.
type CartHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.OrderService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

type addItemRequest struct {
	DishID models.DishID `json:"dishId"`
	Day    string        `json:"day"`
}

type lineUpdateRequest struct {
	Quantity json.RawMessage `json:"quantity,omitempty"`
	Delta    int             `json:"delta,omitempty"`
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.View(), h.logger)
}

// Pull handles POST /api/cart/pull
func (h *CartHandler) Pull(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.Pull(r.Context()), h.logger)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	day, err := models.ParseDay(req.Day)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}

	orderID, err := h.service.AddItem(r.Context(), req.DishID, day)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	h.logger.Info("dish added to cart", "order_id", orderID, "dish_id", req.DishID, "day", day)
	WriteJSON(w, http.StatusCreated, h.service.View(), h.logger)
}

// UpdateLine handles PUT /api/cart/orders/{orderId}/lines/{dishId}/{day}.
// The body carries either a typed quantity or a +/- delta.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	day, id, ok := dayDishParams(w, r, h.logger)
	if !ok {
		return
	}
	var req lineUpdateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	orderID := chi.URLParam(r, "orderId")
	switch {
	case len(req.Quantity) > 0:
		h.service.SetQuantity(orderID, id, day, quantityString(req.Quantity))
	case req.Delta != 0:
		h.service.ChangeQuantity(orderID, id, day, req.Delta)
	default:
		WriteError(w, http.StatusBadRequest, "quantity or delta is required", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, h.service.View(), h.logger)
}

// RemoveLine handles DELETE /api/cart/orders/{orderId}/lines/{dishId}/{day}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	day, id, ok := dayDishParams(w, r, h.logger)
	if !ok {
		return
	}
	h.service.RemoveDish(chi.URLParam(r, "orderId"), id, day)
	WriteJSON(w, http.StatusOK, h.service.View(), h.logger)
}

// RemoveOrder handles DELETE /api/cart/orders/{orderId}
func (h *CartHandler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	h.service.RemoveOrder(chi.URLParam(r, "orderId"))
	WriteJSON(w, http.StatusOK, h.service.View(), h.logger)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear()
	WriteJSON(w, http.StatusOK, h.service.View(), h.logger)
}
