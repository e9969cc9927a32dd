package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/selection"
)

// ConstructorOrderName names orders built dish by dish
const ConstructorOrderName = "Menu from constructor"

// OrderAdder is the part of the cart the menu pages confirm into
type OrderAdder interface {
	AddOrder(lines []models.OrderLine, name string, price int) string
}

// ConstructorDish is a catalog dish with its selection state for one day
type ConstructorDish struct {
	models.Dish
	Active bool `json:"active"`
}

// ConstructorView is the constructor page for one day
type ConstructorView struct {
	Day          models.Day        `json:"day"`
	DayName      string            `json:"dayName"`
	Dishes       []ConstructorDish `json:"dishes"`
	SelectedDays []models.Day      `json:"selectedDays"`
	Nutrition    models.Nutrition  `json:"nutrition"`
}

// ConstructorService lets the user pick any catalog dish for any day
type ConstructorService struct {
	mu       sync.Mutex
	sel      *selection.Constructor
	dishes   repository.DishRepository
	cart     OrderAdder
	cooldown *Cooldown
	logger   *slog.Logger
}

// NewConstructorService creates a constructor with nothing selected
func NewConstructorService(dishes repository.DishRepository, cart OrderAdder, cooldown *Cooldown, logger *slog.Logger) *ConstructorService {
	return &ConstructorService{
		sel:      selection.NewConstructor(),
		dishes:   dishes,
		cart:     cart,
		cooldown: cooldown,
		logger:   logger,
	}
}

// View lists the dishes offered for day, optionally of one meal type
func (s *ConstructorService) View(ctx context.Context, day models.Day, dishType string) (*ConstructorView, error) {
	all, err := s.dishes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	offered := all
	if dishType != "" {
		offered = catalog.DishesByType(all, dishType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view := &ConstructorView{
		Day:          day,
		DayName:      day.Name(),
		Dishes:       make([]ConstructorDish, 0, len(offered)),
		SelectedDays: s.sel.Days(),
	}
	for _, d := range offered {
		view.Dishes = append(view.Dishes, ConstructorDish{Dish: d, Active: s.sel.IsActive(day, d.ID)})
	}
	view.Nutrition = models.SumNutrition(lookupDishes(all, s.sel.Selected(day)))
	return view, nil
}

// Set selects or deselects a dish for a day
func (s *ConstructorService) Set(ctx context.Context, day models.Day, id models.DishID, active bool) error {
	if _, err := s.dishes.GetByID(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Set(day, id, active)
	return nil
}

// Toggle flips a dish for a day and returns its new state
func (s *ConstructorService) Toggle(ctx context.Context, day models.Day, id models.DishID) (bool, error) {
	if _, err := s.dishes.GetByID(ctx, id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Toggle(day, id), nil
}

// Confirm moves the selection into the cart as one unpriced order and
// starts over. It requires dishes on at least selection.MinConstructorDays days.
func (s *ConstructorService) Confirm(ctx context.Context) (string, error) {
	dishes, err := s.dishes.GetAll(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sel.ValidateMinDays(selection.MinConstructorDays); err != nil {
		return "", err
	}
	lines := s.sel.Lines(dishes)
	if len(lines) == 0 {
		return "", selection.ErrEmptySelection
	}
	if err := s.cooldown.Allow(); err != nil {
		return "", err
	}

	orderID := s.cart.AddOrder(lines, ConstructorOrderName, 0)
	s.sel.Reset()
	s.logger.Info("constructor menu confirmed", "order_id", orderID, "lines", len(lines))
	return orderID, nil
}

// Reset deselects everything
func (s *ConstructorService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Reset()
}
