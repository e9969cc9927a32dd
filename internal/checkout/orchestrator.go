// Package checkout turns the cart into either a payment redirect or an order
// notification. The cart is cleared only after the backend accepts the request.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

var (
	ErrNoPaymentURL         = errors.New("payment provider did not return a payment link")
	ErrSubmitFailed         = errors.New("failed to submit order")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// Payment methods
const (
	MethodOnline = "online"
	MethodCash   = "cash"
)

// SuccessMessage is shown after an order notification is accepted
const SuccessMessage = "Your order has been placed!"

// Gateway is the backend part checkout needs
type Gateway interface {
	CreateInvoice(ctx context.Context, req backend.InvoiceRequest) (*backend.Invoice, error)
	NotifyOrder(ctx context.Context, n backend.OrderNotification) error
}

// Cart is the aggregator part checkout needs
type Cart interface {
	Orders() []models.Order
	TotalPrice() int
	Clear()
}

// Request is a submitted order form
type Request struct {
	Customer      models.Customer `json:"customer"`
	PaymentMethod string          `json:"paymentMethod"`
	UserID        string          `json:"-"`
}

// Outcome tells the caller where to go next
type Outcome struct {
	Mode          string `json:"mode"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
	Message       string `json:"message,omitempty"`
	NavigateTo    string `json:"navigateTo,omitempty"`
	NavigateAfter int64  `json:"navigateAfterMs,omitempty"`
	InvoiceID     string `json:"invoiceId,omitempty"`
	Reference     string `json:"reference,omitempty"`
}

// Orchestrator runs checkout
type Orchestrator struct {
	gateway      Gateway
	cart         Cart
	returnURL    string
	homeURL      string
	successDelay time.Duration
	logger       *slog.Logger
	newReference func() string
}

// NewOrchestrator creates an orchestrator. returnURL is where the payment
// provider sends the user back; homeURL is shown after a notified order.
func NewOrchestrator(gateway Gateway, cart Cart, returnURL, homeURL string, successDelay time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:      gateway,
		cart:         cart,
		returnURL:    returnURL,
		homeURL:      homeURL,
		successDelay: successDelay,
		logger:       logger,
		newReference: uuid.NewString,
	}
}

// Checkout validates the form and submits the order. It assumes the cart is
// not empty. On any error the cart is left as it was.
func (o *Orchestrator) Checkout(ctx context.Context, req Request) (*Outcome, error) {
	if err := Validate(req.Customer); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(req.PaymentMethod)) {
	case MethodOnline:
		return o.payOnline(ctx, req)
	case MethodCash, "":
		return o.notify(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, req.PaymentMethod)
	}
}

func (o *Orchestrator) payOnline(ctx context.Context, req Request) (*Outcome, error) {
	reference := o.newReference()
	amount := int64(o.cart.TotalPrice()) * 100

	invoice, err := o.gateway.CreateInvoice(ctx, backend.InvoiceRequest{
		Amount:    amount,
		Reference: reference,
		ReturnURL: o.returnURL,
		UserID:    req.UserID,
	})
	if err != nil {
		o.logger.Error("invoice request failed", "reference", reference, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoPaymentURL, err)
	}
	if invoice == nil || strings.TrimSpace(invoice.PageURL) == "" {
		o.logger.Error("invoice has no payment link", "reference", reference)
		return nil, ErrNoPaymentURL
	}

	o.cart.Clear()
	o.logger.Info("redirecting to payment", "reference", reference, "amount", amount)
	return &Outcome{
		Mode:        MethodOnline,
		RedirectURL: invoice.PageURL,
		InvoiceID:   string(invoice.InvoiceID),
		Reference:   reference,
	}, nil
}

func (o *Orchestrator) notify(ctx context.Context, req Request) (*Outcome, error) {
	err := o.gateway.NotifyOrder(ctx, backend.OrderNotification{
		Customer:      req.Customer,
		Orders:        o.cart.Orders(),
		TotalPrice:    o.cart.TotalPrice(),
		PaymentMethod: MethodCash,
		UserID:        req.UserID,
	})
	if err != nil {
		o.logger.Error("order notification failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	o.cart.Clear()
	o.logger.Info("order submitted", "user_id", req.UserID)
	return &Outcome{
		Mode:          MethodCash,
		Message:       SuccessMessage,
		NavigateTo:    o.homeURL,
		NavigateAfter: o.successDelay.Milliseconds(),
	}, nil
}
