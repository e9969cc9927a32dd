package service

import (
	"context"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
)

// StatsProvider reports the state of the catalog cache
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// SlotView is a resolved slot with its dishes looked up
type SlotView struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Kind   models.SlotKind `json:"kind"`
	Dishes []models.Dish   `json:"dishes"`
	// Chosen is the picked alternative of a choice slot
	Chosen models.DishID `json:"chosen,omitempty"`
	// Excluded lists dishes the user removed from the day
	Excluded []models.DishID `json:"excluded,omitempty"`
}

// DayMenuView is what a menu page renders for one tier and day
type DayMenuView struct {
	Tier      int              `json:"tier"`
	Day       models.Day       `json:"day"`
	DayName   string           `json:"dayName"`
	Week      *int             `json:"week,omitempty"`
	Slots     []SlotView       `json:"slots"`
	Nutrition models.Nutrition `json:"nutrition"`
}

// CatalogService handles business logic for dishes and menus
type CatalogService struct {
	dishes repository.DishRepository
	menus  repository.MenuRepository
	stats  StatsProvider
}

// NewCatalogService creates a new catalog service. stats may be nil.
func NewCatalogService(dishes repository.DishRepository, menus repository.MenuRepository, stats StatsProvider) *CatalogService {
	return &CatalogService{
		dishes: dishes,
		menus:  menus,
		stats:  stats,
	}
}

// ListDishes returns all dishes, or those of one meal type
func (s *CatalogService) ListDishes(ctx context.Context, dishType string) ([]models.Dish, error) {
	if dishType != "" {
		return s.dishes.GetByType(ctx, dishType)
	}
	return s.dishes.GetAll(ctx)
}

// GetDish returns a dish by ID
func (s *CatalogService) GetDish(ctx context.Context, id models.DishID) (*models.Dish, error) {
	return s.dishes.GetByID(ctx, id)
}

// DayMenu resolves the menu of a tier and day. Unknown tiers and days give
// a view with no slots.
func (s *CatalogService) DayMenu(ctx context.Context, tier int, day models.Day, week *int) (*DayMenuView, error) {
	menu, dishes, err := loadCatalog(ctx, s.menus, s.dishes)
	if err != nil {
		return nil, err
	}
	slots := catalog.ResolveSlot(menu, tier, day, week)

	var served []models.Dish
	view := newDayMenuView(tier, day, week)
	for _, slot := range slots.Ordered() {
		sv := slotView(slot, dishes)
		view.Slots = append(view.Slots, sv)
		served = append(served, sv.Dishes...)
	}
	view.Nutrition = models.SumNutrition(served)
	return view, nil
}

// Stats describes the loaded catalog
func (s *CatalogService) Stats() map[string]interface{} {
	if s.stats == nil {
		return map[string]interface{}{}
	}
	return s.stats.GetStats()
}

// InvalidateCache drops the cached catalog so the next read refetches. It
// reports false when the catalog source keeps no cache.
func (s *CatalogService) InvalidateCache() bool {
	cache, ok := s.stats.(interface{ Invalidate() })
	if !ok {
		return false
	}
	cache.Invalidate()
	return true
}

func loadCatalog(ctx context.Context, menus repository.MenuRepository, dishes repository.DishRepository) (models.Menu, []models.Dish, error) {
	menu, err := menus.GetMenu(ctx)
	if err != nil {
		return nil, nil, err
	}
	all, err := dishes.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return menu, all, nil
}

func newDayMenuView(tier int, day models.Day, week *int) *DayMenuView {
	return &DayMenuView{
		Tier:    tier,
		Day:     day,
		DayName: day.Name(),
		Week:    week,
		Slots:   []SlotView{},
	}
}

func slotView(slot models.Slot, dishes []models.Dish) SlotView {
	sv := SlotView{Key: slot.Key, Name: slot.Name, Kind: slot.Kind, Dishes: []models.Dish{}}
	for _, id := range slot.DishIDs {
		if dish, ok := catalog.DishByID(dishes, id); ok {
			sv.Dishes = append(sv.Dishes, dish)
		}
	}
	return sv
}

func lookupDishes(dishes []models.Dish, ids []models.DishID) []models.Dish {
	out := make([]models.Dish, 0, len(ids))
	for _, id := range ids {
		if dish, ok := catalog.DishByID(dishes, id); ok {
			out = append(out, dish)
		}
	}
	return out
}
