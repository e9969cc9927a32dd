package selection

import (
	"errors"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

var ErrInvalidChoice = errors.New("dish is not an alternative of this slot")

type slotRef struct {
	day  models.Day
	slot string
}

type dishRef struct {
	day models.Day
	id  models.DishID
}

// Standard tracks choices on a fixed menu: the picked alternative of each
// choice-group slot and any dishes the user removed. Everything starts
// included, with the first alternative picked.
type Standard struct {
	chosen   map[slotRef]models.DishID
	excluded map[dishRef]bool
}

// NewStandard creates a selection with every default in place
func NewStandard() *Standard {
	return &Standard{
		chosen:   make(map[slotRef]models.DishID),
		excluded: make(map[dishRef]bool),
	}
}

// Choose picks the alternative for a choice-group slot. The choice is
// checked against slots, the resolved menu for that day.
func (s *Standard) Choose(day models.Day, slots models.SlotMap, slotKey string, id models.DishID) error {
	slot, ok := slots[slotKey]
	if !ok || slot.Kind != models.SlotChoice || !slot.Has(id) {
		return ErrInvalidChoice
	}
	s.chosen[slotRef{day, slotKey}] = id
	return nil
}

// SetIncluded adds a dish back to, or removes it from, a day
func (s *Standard) SetIncluded(day models.Day, id models.DishID, included bool) {
	if included {
		delete(s.excluded, dishRef{day, id})
		return
	}
	s.excluded[dishRef{day, id}] = true
}

// IsIncluded reports whether a dish is still served on the day
func (s *Standard) IsIncluded(day models.Day, id models.DishID) bool {
	return !s.excluded[dishRef{day, id}]
}

// Selected maps each choice-group slot to its picked alternative, falling
// back to the first candidate when the stored pick is not offered by slots.
func (s *Standard) Selected(day models.Day, slots models.SlotMap) map[string]models.DishID {
	out := make(map[string]models.DishID)
	for key, slot := range slots {
		if slot.Kind != models.SlotChoice || len(slot.DishIDs) == 0 {
			continue
		}
		out[key] = s.pick(day, slot)
	}
	return out
}

func (s *Standard) pick(day models.Day, slot models.Slot) models.DishID {
	if id, ok := s.chosen[slotRef{day, slot.Key}]; ok && slot.Has(id) {
		return id
	}
	return slot.DishIDs[0]
}

// DayDishes returns the included dishes of a day in meal order
func (s *Standard) DayDishes(day models.Day, slots models.SlotMap) []models.DishID {
	var ids []models.DishID
	for _, slot := range slots.Ordered() {
		candidates := slot.Mandatory()
		if slot.Kind == models.SlotChoice && len(slot.DishIDs) > 0 {
			candidates = []models.DishID{s.pick(day, slot)}
		}
		for _, id := range candidates {
			if s.IsIncluded(day, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Lines builds candidate order lines for every delivery day of the tier
func (s *Standard) Lines(menu models.Menu, dishes []models.Dish, tier int, week *int) []models.OrderLine {
	var lines []models.OrderLine
	for _, day := range models.OrderingWeek {
		slots := catalog.ResolveSlot(menu, tier, day, week)
		for _, id := range s.DayDishes(day, slots) {
			dish, ok := catalog.DishByID(dishes, id)
			if !ok {
				continue
			}
			lines = append(lines, models.NewOrderLine(dish, day))
		}
	}
	return lines
}

// Reset restores every default
func (s *Standard) Reset() {
	s.chosen = make(map[slotRef]models.DishID)
	s.excluded = make(map[dishRef]bool)
}
