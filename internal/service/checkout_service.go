package service

import (
	"context"

	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/checkout"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

// CheckoutService guards the orchestrator with the cart and session checks
// the order form performs
type CheckoutService struct {
	orchestrator *checkout.Orchestrator
	cart         interface{ IsEmpty() bool }
	identity     cart.Identity
	profiles     *ProfileService
}

// NewCheckoutService creates a new checkout service. profiles may be nil.
func NewCheckoutService(orchestrator *checkout.Orchestrator, manager *cart.Manager, identity cart.Identity, profiles *ProfileService) *CheckoutService {
	return &CheckoutService{
		orchestrator: orchestrator,
		cart:         manager,
		identity:     identity,
		profiles:     profiles,
	}
}

// Form returns the order form prefilled from the cached profile
func (s *CheckoutService) Form() models.Customer {
	if s.profiles == nil {
		return models.Customer{}
	}
	if p, ok := s.profiles.Cached(); ok {
		return checkout.Prefill(p)
	}
	return models.Customer{}
}

// Submit places the order in the cart
func (s *CheckoutService) Submit(ctx context.Context, req checkout.Request) (*checkout.Outcome, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	req.UserID = ""
	if s.identity.IsAuthenticated() {
		req.UserID, _ = s.identity.UserID()
	}
	return s.orchestrator.Checkout(ctx, req)
}
