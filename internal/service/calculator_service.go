package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/selection"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

// CalculatorOrderName names orders of the personal menu
const CalculatorOrderName = "Menu from calculator"

// Goal adjustments in kcal
const goalAdjustment = 300

var (
	ErrInvalidInput  = errors.New("invalid calculator input")
	ErrNoCalculation = errors.New("daily calories have not been calculated yet")
)

var activityFactors = map[int]float64{
	1: 1.2,
	2: 1.375,
	3: 1.55,
	4: 1.725,
	5: 1.9,
}

// CalculatorInput is the calculator form
type CalculatorInput struct {
	Gender   string  `json:"gender"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
	Activity int     `json:"activity"`
	Goal     string  `json:"goal"`
}

// Validate checks the form ranges
func (in CalculatorInput) Validate() error {
	switch strings.ToLower(in.Gender) {
	case "male", "female":
	default:
		return fmt.Errorf("%w: gender must be male or female", ErrInvalidInput)
	}
	if in.Age < 14 || in.Age > 100 {
		return outOfRange("age", 14, 100)
	}
	if in.Weight < 30 || in.Weight > 250 {
		return outOfRange("weight", 30, 250)
	}
	if in.Height < 120 || in.Height > 230 {
		return outOfRange("height", 120, 230)
	}
	switch strings.ToLower(in.Goal) {
	case "lose", "maintain", "gain", "":
	default:
		return fmt.Errorf("%w: goal must be lose, maintain or gain", ErrInvalidInput)
	}
	return nil
}

func outOfRange(field string, min, max int) error {
	return fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidInput, field, min, max)
}

// CalculatorResult is stored under calculatorData
type CalculatorResult struct {
	Input    CalculatorInput `json:"input"`
	Calories int             `json:"calories"`
	Tier     int             `json:"tier"`
}

// DailyCalories estimates daily needs with the Harris-Benedict equation,
// scaled by activity and shifted by goal. Unknown activity levels count as sedentary.
func DailyCalories(in CalculatorInput) int {
	var bmr float64
	if strings.ToLower(in.Gender) == "male" {
		bmr = 88.36 + 13.4*in.Weight + 4.8*in.Height - 5.7*float64(in.Age)
	} else {
		bmr = 447.6 + 9.2*in.Weight + 3.1*in.Height - 4.3*float64(in.Age)
	}

	factor, ok := activityFactors[in.Activity]
	if !ok {
		factor = activityFactors[1]
	}
	calories := bmr * factor

	switch strings.ToLower(in.Goal) {
	case "lose":
		calories -= goalAdjustment
	case "gain":
		calories += goalAdjustment
	}
	return int(math.Round(calories))
}

// CalculatorService computes a daily calorie target and offers the menu
// tier closest to it as a personal menu
type CalculatorService struct {
	mu       sync.Mutex
	sel      *selection.Standard
	store    storage.Store
	dishes   repository.DishRepository
	menus    repository.MenuRepository
	cart     OrderAdder
	pricing  Pricing
	cooldown *Cooldown
	logger   *slog.Logger
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService(store storage.Store, dishes repository.DishRepository, menus repository.MenuRepository, cart OrderAdder, pricing Pricing, cooldown *Cooldown, logger *slog.Logger) *CalculatorService {
	return &CalculatorService{
		sel:      selection.NewStandard(),
		store:    store,
		dishes:   dishes,
		menus:    menus,
		cart:     cart,
		pricing:  pricing,
		cooldown: cooldown,
		logger:   logger,
	}
}

// Calculate stores a new result and resets the personal menu
func (s *CalculatorService) Calculate(in CalculatorInput) (*CalculatorResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	calories := DailyCalories(in)
	result := &CalculatorResult{Input: in, Calories: calories, Tier: catalog.ClosestTier(calories)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(storage.KeyCalculatorData, result); err != nil {
		s.logger.Error("failed to store calculator result", "error", err)
	}
	s.sel.Reset()
	s.logger.Info("daily calories calculated", "calories", calories, "tier", result.Tier)
	return result, nil
}

// Result returns the last stored result
func (s *CalculatorService) Result() (*CalculatorResult, error) {
	var result CalculatorResult
	ok, err := s.store.Get(storage.KeyCalculatorData, &result)
	if err != nil || !ok || result.Tier == 0 {
		return nil, ErrNoCalculation
	}
	return &result, nil
}

// Menu renders the personal menu for day
func (s *CalculatorService) Menu(ctx context.Context, day models.Day) (*DayMenuView, error) {
	result, err := s.Result()
	if err != nil {
		return nil, err
	}
	menu, dishes, err := loadCatalog(ctx, s.menus, s.dishes)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return selectionView(s.sel, menu, dishes, result.Tier, day, nil), nil
}

// SetIncluded keeps or drops a dish from the personal menu
func (s *CalculatorService) SetIncluded(day models.Day, id models.DishID, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.SetIncluded(day, id, included)
}

// Confirm orders the personal menu. At least one dish must remain.
func (s *CalculatorService) Confirm(ctx context.Context) (string, error) {
	result, err := s.Result()
	if err != nil {
		return "", err
	}
	menu, dishes, err := loadCatalog(ctx, s.menus, s.dishes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.sel.Lines(menu, dishes, result.Tier, nil)
	if len(lines) == 0 {
		return "", selection.ErrEmptySelection
	}
	if err := s.cooldown.Allow(); err != nil {
		return "", err
	}

	price := MenuPrice(s.pricing, result.Tier, lines)
	orderID := s.cart.AddOrder(lines, CalculatorOrderName, price)
	s.sel.Reset()
	s.logger.Info("personal menu confirmed", "order_id", orderID, "tier", result.Tier, "price", price)
	return orderID, nil
}
