package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

type fakeGateway struct {
	invoice      *backend.Invoice
	invoiceErr   error
	notifyErr    error
	invoiceReqs  []backend.InvoiceRequest
	notification *backend.OrderNotification
}

func (f *fakeGateway) CreateInvoice(ctx context.Context, req backend.InvoiceRequest) (*backend.Invoice, error) {
	f.invoiceReqs = append(f.invoiceReqs, req)
	return f.invoice, f.invoiceErr
}

func (f *fakeGateway) NotifyOrder(ctx context.Context, n backend.OrderNotification) error {
	f.notification = &n
	return f.notifyErr
}

type fakeCart struct {
	orders  []models.Order
	cleared bool
}

func (f *fakeCart) Orders() []models.Order { return f.orders }
func (f *fakeCart) Clear()                 { f.cleared = true }

func (f *fakeCart) TotalPrice() int {
	total := 0
	for _, o := range f.orders {
		total += o.Price
	}
	return total
}

func validCustomer() models.Customer {
	return models.Customer{
		FirstName: "Anna", LastName: "Shevchenko", Phone: "+380501112233",
		Email: "anna@example.com", Street: "Khreshchatyk", House: "22",
		Floor: "3", Apartment: "5",
	}
}

func newTestOrchestrator(gw *fakeGateway, cart *fakeCart) *Orchestrator {
	o := NewOrchestrator(gw, cart, "http://localhost:8080/cart", "/", 1500*time.Millisecond,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.newReference = func() string { return "ref-1" }
	return o
}

func testCart() *fakeCart {
	return &fakeCart{orders: []models.Order{
		{ID: "a", Name: "Standard menu 1200 kcal", Price: 420, Lines: []models.OrderLine{models.NewOrderLine(models.Dish{ID: 1}, models.Monday)}},
		{ID: "b", Name: "Single dish", Price: 0, Lines: []models.OrderLine{models.NewOrderLine(models.Dish{ID: 2}, models.Friday)}},
	}}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validCustomer()))

	t.Run("lists every blank field", func(t *testing.T) {
		c := validCustomer()
		c.FirstName = "  "
		c.Floor = ""
		c.Apartment = ""

		var vErr *ValidationError
		require.ErrorAs(t, Validate(c), &vErr)
		var fields []string
		for _, f := range vErr.Fields {
			fields = append(fields, f.Field)
		}
		assert.Equal(t, []string{"firstName", "floor", "apartment"}, fields)
	})

	t.Run("optional fields", func(t *testing.T) {
		c := validCustomer()
		c.Social = ""
		c.Comment = ""
		assert.NoError(t, Validate(c))
	})

	t.Run("malformed email", func(t *testing.T) {
		c := validCustomer()
		c.Email = "anna@example"
		var vErr *ValidationError
		require.ErrorAs(t, Validate(c), &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "email", vErr.Fields[0].Field)
	})

	t.Run("empty form", func(t *testing.T) {
		var vErr *ValidationError
		require.ErrorAs(t, Validate(models.Customer{}), &vErr)
		assert.Len(t, vErr.Fields, 8)
	})
}

func TestCheckout_Online(t *testing.T) {
	gw := &fakeGateway{invoice: &backend.Invoice{PageURL: "https://pay.example.com/p/1", InvoiceID: "inv-9"}}
	cart := testCart()

	out, err := newTestOrchestrator(gw, cart).Checkout(context.Background(), Request{
		Customer: validCustomer(), PaymentMethod: "online", UserID: "42",
	})
	require.NoError(t, err)

	assert.Equal(t, MethodOnline, out.Mode)
	assert.Equal(t, "https://pay.example.com/p/1", out.RedirectURL)
	assert.True(t, cart.cleared, "cart is cleared before redirect")

	require.Len(t, gw.invoiceReqs, 1)
	req := gw.invoiceReqs[0]
	assert.Equal(t, int64(42000), req.Amount, "minor units")
	assert.Equal(t, "ref-1", req.Reference)
	assert.Equal(t, "http://localhost:8080/cart", req.ReturnURL)
	assert.Equal(t, "42", req.UserID)
}

func TestCheckout_OnlineFailures(t *testing.T) {
	tests := []struct {
		name string
		gw   *fakeGateway
	}{
		{"empty url", &fakeGateway{invoice: &backend.Invoice{}}},
		{"nil invoice", &fakeGateway{}},
		{"backend error", &fakeGateway{invoiceErr: &backend.APIError{StatusCode: 502, Message: "gateway down"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := testCart()
			_, err := newTestOrchestrator(tt.gw, cart).Checkout(context.Background(), Request{
				Customer: validCustomer(), PaymentMethod: MethodOnline,
			})
			assert.ErrorIs(t, err, ErrNoPaymentURL)
			assert.False(t, cart.cleared, "cart stays intact")
		})
	}
}

func TestCheckout_Cash(t *testing.T) {
	gw := &fakeGateway{}
	cart := testCart()

	out, err := newTestOrchestrator(gw, cart).Checkout(context.Background(), Request{
		Customer: validCustomer(), PaymentMethod: "cash", UserID: "42",
	})
	require.NoError(t, err)

	assert.Equal(t, MethodCash, out.Mode)
	assert.Equal(t, SuccessMessage, out.Message)
	assert.Equal(t, "/", out.NavigateTo)
	assert.Equal(t, int64(1500), out.NavigateAfter)
	assert.True(t, cart.cleared)

	require.NotNil(t, gw.notification)
	assert.Equal(t, 420, gw.notification.TotalPrice)
	assert.Len(t, gw.notification.Orders, 2)
	assert.Equal(t, "Anna", gw.notification.Customer.FirstName)
	assert.Equal(t, "42", gw.notification.UserID)
	assert.Empty(t, gw.invoiceReqs)
}

func TestCheckout_CashFailure(t *testing.T) {
	gw := &fakeGateway{notifyErr: errors.New("connection refused")}
	cart := testCart()

	_, err := newTestOrchestrator(gw, cart).Checkout(context.Background(), Request{
		Customer: validCustomer(), PaymentMethod: MethodCash,
	})
	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.False(t, cart.cleared)
}

func TestCheckout_RejectsBeforeSubmitting(t *testing.T) {
	gw := &fakeGateway{}
	cart := testCart()
	o := newTestOrchestrator(gw, cart)

	c := validCustomer()
	c.Phone = ""
	_, err := o.Checkout(context.Background(), Request{Customer: c, PaymentMethod: MethodCash})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = o.Checkout(context.Background(), Request{Customer: validCustomer(), PaymentMethod: "crypto"})
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)

	assert.Nil(t, gw.notification)
	assert.Empty(t, gw.invoiceReqs)
	assert.False(t, cart.cleared)
}

func TestPrefill(t *testing.T) {
	p := models.Profile{
		FirstName: "Anna", LastName: "Shevchenko", Number: "+380501112233", Email: "anna@example.com",
		Street: "Khreshchatyk", House: "22", Apartment: "5", Entrance: "3", Instagram: "anna.ig",
	}

	c := Prefill(p)
	assert.Equal(t, "3", c.Floor)
	assert.Equal(t, "anna.ig", c.Social)
	assert.Equal(t, "+380501112233", c.Phone)

	p.Telegram = "@anna"
	assert.Equal(t, "@anna", Prefill(p).Social)
}
