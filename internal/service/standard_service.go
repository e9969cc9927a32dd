package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/selection"
)

// Pricing gives the flat per-day price of a tier
type Pricing interface {
	DayPrice(tier int) int
}

// StandardService serves the fixed weekly menus. Users may pick among the
// alternatives of choice slots and drop dishes they don't want.
type StandardService struct {
	mu       sync.Mutex
	sel      *selection.Standard
	dishes   repository.DishRepository
	menus    repository.MenuRepository
	cart     OrderAdder
	pricing  Pricing
	cooldown *Cooldown
	logger   *slog.Logger
}

// NewStandardService creates a new standard menu service
func NewStandardService(dishes repository.DishRepository, menus repository.MenuRepository, cart OrderAdder, pricing Pricing, cooldown *Cooldown, logger *slog.Logger) *StandardService {
	return &StandardService{
		sel:      selection.NewStandard(),
		dishes:   dishes,
		menus:    menus,
		cart:     cart,
		pricing:  pricing,
		cooldown: cooldown,
		logger:   logger,
	}
}

// StandardOrderName names the order of a standard menu
func StandardOrderName(tier int) string {
	return fmt.Sprintf("Standard menu %d kcal", tier)
}

// MenuPrice is the per-day price of tier times the number of distinct
// delivery days in lines
func MenuPrice(pricing Pricing, tier int, lines []models.OrderLine) int {
	days := make(map[models.Day]bool)
	for _, l := range lines {
		days[l.Day] = true
	}
	return pricing.DayPrice(tier) * len(days)
}

// Day renders a tier's menu for day with the current picks applied
func (s *StandardService) Day(ctx context.Context, tier int, day models.Day, week *int) (*DayMenuView, error) {
	menu, dishes, err := loadCatalog(ctx, s.menus, s.dishes)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return selectionView(s.sel, menu, dishes, tier, day, week), nil
}

// Choose picks the alternative of a choice slot
func (s *StandardService) Choose(ctx context.Context, tier int, day models.Day, week *int, slotKey string, id models.DishID) error {
	menu, err := s.menus.GetMenu(ctx)
	if err != nil {
		return err
	}
	slots := catalog.ResolveSlot(menu, tier, day, week)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Choose(day, slots, slotKey, id)
}

// SetIncluded keeps or drops a dish from a day
func (s *StandardService) SetIncluded(day models.Day, id models.DishID, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.SetIncluded(day, id, included)
}

// Confirm adds the tier's week, with the current picks, to the cart
func (s *StandardService) Confirm(ctx context.Context, tier int, week *int) (string, error) {
	menu, dishes, err := loadCatalog(ctx, s.menus, s.dishes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.sel.Lines(menu, dishes, tier, week)
	if len(lines) == 0 {
		return "", selection.ErrEmptySelection
	}
	if err := s.cooldown.Allow(); err != nil {
		return "", err
	}

	price := MenuPrice(s.pricing, tier, lines)
	orderID := s.cart.AddOrder(lines, StandardOrderName(tier), price)
	s.sel.Reset()
	s.logger.Info("standard menu confirmed", "order_id", orderID, "tier", tier, "price", price)
	return orderID, nil
}

// selectionView renders slots with the picks and exclusions of sel
func selectionView(sel *selection.Standard, menu models.Menu, dishes []models.Dish, tier int, day models.Day, week *int) *DayMenuView {
	slots := catalog.ResolveSlot(menu, tier, day, week)
	chosen := sel.Selected(day, slots)

	view := newDayMenuView(tier, day, week)
	for _, slot := range slots.Ordered() {
		sv := slotView(slot, dishes)
		sv.Chosen = chosen[slot.Key]
		for _, id := range slot.DishIDs {
			if !sel.IsIncluded(day, id) {
				sv.Excluded = append(sv.Excluded, id)
			}
		}
		view.Slots = append(view.Slots, sv)
	}
	view.Nutrition = models.SumNutrition(lookupDishes(dishes, sel.DayDishes(day, slots)))
	return view
}
