package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartView is the cart page
type CartView struct {
	Orders        []models.Order `json:"orders"`
	Macros        models.Macros  `json:"macros"`
	TotalCalories int            `json:"totalCalories"`
	TotalPrice    int            `json:"totalPrice"`
	Empty         bool           `json:"empty"`
}

// OrderService handles the orders held in the cart
type OrderService struct {
	cart   *cart.Manager
	dishes repository.DishRepository
	logger *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(manager *cart.Manager, dishes repository.DishRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		cart:   manager,
		dishes: dishes,
		logger: logger,
	}
}

// View returns the orders with their totals
func (s *OrderService) View() CartView {
	sum := s.cart.Summary()
	return CartView{
		Orders:        sum.Cart.Orders,
		Macros:        sum.Macros,
		TotalCalories: sum.TotalCalories,
		TotalPrice:    sum.TotalPrice,
		Empty:         len(sum.Cart.Orders) == 0,
	}
}

// Pull replaces the cart with the account's copy. Signed-out users, failed
// fetches and payloads without orders all keep the local cart.
func (s *OrderService) Pull(ctx context.Context) CartView {
	if err := s.cart.SyncPull(ctx); err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		s.logger.Debug("keeping local cart", "error", err)
	}
	return s.View()
}

// AddItem adds a single catalog dish for one day
func (s *OrderService) AddItem(ctx context.Context, dishID models.DishID, day models.Day) (string, error) {
	dish, err := s.dishes.GetByID(ctx, dishID)
	if err != nil {
		return "", err
	}
	return s.cart.AddItem(*dish, day), nil
}

// SetQuantity applies a typed-in quantity; anything that is not a number counts as 1
func (s *OrderService) SetQuantity(orderID string, dishID models.DishID, day models.Day, input string) {
	s.cart.UpdateQuantity(orderID, dishID, day, cart.ParseQuantity(input))
}

// ChangeQuantity applies a +/- step
func (s *OrderService) ChangeQuantity(orderID string, dishID models.DishID, day models.Day, delta int) {
	s.cart.ChangeQuantity(orderID, dishID, day, delta)
}

// RemoveDish removes a line, and its order with it when it was the last one
func (s *OrderService) RemoveDish(orderID string, dishID models.DishID, day models.Day) {
	s.cart.RemoveDish(orderID, dishID, day)
}

func (s *OrderService) RemoveOrder(orderID string) {
	s.cart.RemoveOrder(orderID)
}

func (s *OrderService) Clear() {
	s.cart.Clear()
}
