package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/checkout"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/selection"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string                `json:"error"`
	Fields []checkout.FieldError `json:"fields,omitempty"`
	Failed []string              `json:"failed,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, logger)
}

// WriteServiceError maps a service error to its status code and writes it
func WriteServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
	WriteJSON(w, status, body, logger)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		minDays    *selection.MinDaysError
		validation *checkout.ValidationError
		partial    *service.ProfileUpdateError
		apiErr     *backend.APIError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: validation.Error(), Fields: validation.Fields}
	case errors.As(err, &minDays):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: minDays.Error()}
	case errors.Is(err, repository.ErrDishNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Dish not found"}
	case errors.Is(err, service.ErrNoCalculation):
		return http.StatusNotFound, ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrTooManyRequests):
		return http.StatusTooManyRequests, ErrorResponse{Error: "Please wait before confirming again"}
	case errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "Please sign in"}
	case errors.Is(err, selection.ErrEmptySelection),
		errors.Is(err, selection.ErrInvalidChoice),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, checkout.ErrUnknownPaymentMethod),
		errors.Is(err, models.ErrInvalidDay),
		errors.Is(err, models.ErrInvalidDishID):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.As(err, &partial):
		return http.StatusBadGateway, ErrorResponse{Error: "Some profile changes were not saved", Failed: partial.Failed}
	case errors.Is(err, checkout.ErrNoPaymentURL):
		return http.StatusBadGateway, ErrorResponse{Error: "Payment is unavailable, please try again later"}
	case errors.Is(err, checkout.ErrSubmitFailed):
		return http.StatusBadGateway, ErrorResponse{Error: "Failed to submit order, please try again later"}
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode, ErrorResponse{Error: apiErr.Message}
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, ErrorResponse{Error: "Service is unavailable, please try again later"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"}
	}
}
