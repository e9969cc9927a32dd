package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/diet-storefront/internal/checkout"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
)

// CheckoutHandler handles the order form
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(service *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// Form handles GET /api/checkout/form
func (h *CheckoutHandler) Form(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.Form(), h.logger)
}

// Submit handles POST /api/checkout
// - 200: payment redirect or order accepted
// - 400: empty cart or unknown payment method
// - 422: form fields missing or invalid
// - 502: the backend did not accept the order
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.Error("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	outcome, err := h.service.Submit(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err, h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, outcome, h.logger)
}
