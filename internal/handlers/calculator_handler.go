package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// CalculatorHandler handles the calorie calculator and its personal menu
type CalculatorHandler struct {
	service *service.CalculatorService
	logger  *slog.Logger
}

// NewCalculatorHandler creates a new calculator handler
func NewCalculatorHandler(service *service.CalculatorService, logger *slog.Logger) *CalculatorHandler {
	return &CalculatorHandler{
		service: service,
		logger:  logger,
	}
}

// Calculate handles POST /api/calculator
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input service.CalculatorInput
	if err := decodeJSON(r, &input, false); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	result, err := h.service.Calculate(input)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, result, h.logger)
}

// Result handles GET /api/calculator
func (h *CalculatorHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Result()
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, result, h.logger)
}

// Menu handles GET /api/calculator/menu/{day}
func (h *CalculatorHandler) Menu(w http.ResponseWriter, r *http.Request) {
	day, err := dayParam(r, "day")
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	view, err := h.service.Menu(r.Context(), day)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, view, h.logger)
}

// SetIncluded handles PUT /api/calculator/{day}/dishes/{dishId}
func (h *CalculatorHandler) SetIncluded(w http.ResponseWriter, r *http.Request) {
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

// Confirm handles POST /api/calculator/confirm
func (h *CalculatorHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	orderID, err := h.service.Confirm(r.Context())
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusCreated, OrderCreatedResponse{OrderID: orderID}, h.logger)
}
