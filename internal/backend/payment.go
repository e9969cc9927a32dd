package backend

import (
	"context"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

// InvoiceRequest asks the payment provider for a hosted payment page.
// Amount is in minor currency units.
type InvoiceRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	ReturnURL string `json:"redirectUrl"`
	UserID    string `json:"userId,omitempty"`
}

// Invoice is the provider's answer
type Invoice struct {
	PageURL   string     `json:"pageUrl"`
	InvoiceID flexString `json:"invoiceId"`
}

// OrderNotification submits an order paid on delivery
type OrderNotification struct {
	Customer      models.Customer `json:"customer"`
	Orders        []models.Order  `json:"orders"`
	TotalPrice    int             `json:"totalPrice"`
	PaymentMethod string          `json:"paymentMethod"`
	UserID        string          `json:"userId,omitempty"`
}

// CreateInvoice requests a payment link
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	var invoice Invoice
	if err := c.post(ctx, "/payment/invoice", req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NotifyOrder submits an order notification
func (c *Client) NotifyOrder(ctx context.Context, n OrderNotification) error {
	return c.post(ctx, "/order/notify", n, nil)
}
