// Package catalog loads the static dish and menu data and resolves which
// dishes a calorie tier serves on a given day.
package catalog

import (
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

// MenuTiers are the calorie tiers the storefront sells
var MenuTiers = []int{900, 1200, 1600, 1800, 2500, 3000, 3500}

// ResolveSlot returns the meal slots a tier serves on day, or nil when the
// table has no record for that tier, day and week. A nil week matches the
// first record for the day.
func ResolveSlot(menu models.Menu, tier int, day models.Day, week *int) models.SlotMap {
	record := findDay(menu[tier], day, week)
	if record == nil {
		return nil
	}

	slots := make(models.SlotMap, len(record.Slots))
	for key, ids := range record.Slots {
		kind := models.SlotAll
		switch {
		case record.IsScalar(key):
			kind = models.SlotFixed
		case record.Choices[key]:
			kind = models.SlotChoice
		}
		slots[key] = models.Slot{
			Key:     key,
			Name:    models.SlotName(key),
			Kind:    kind,
			DishIDs: append([]models.DishID(nil), ids...),
		}
	}
	return slots
}

func findDay(records []models.DayMenu, day models.Day, week *int) *models.DayMenu {
	code := day.Code()
	for i := range records {
		r := &records[i]
		if !strings.HasPrefix(strings.ToLower(r.DayOfWeek), code) {
			continue
		}
		if week != nil && r.Week != *week {
			continue
		}
		return r
	}
	return nil
}

// DishByID finds a dish by id, treating numeric and numeral-string ids as equal
func DishByID(dishes []models.Dish, id interface{}) (models.Dish, bool) {
	want, err := models.ToDishID(id)
	if err != nil {
		return models.Dish{}, false
	}
	for _, d := range dishes {
		if d.ID == want {
			return d, true
		}
	}
	return models.Dish{}, false
}

// DishesByType filters dishes by meal category, keeping catalog order
func DishesByType(dishes []models.Dish, dishType string) []models.Dish {
	out := make([]models.Dish, 0)
	for _, d := range dishes {
		if dishType == "" || strings.EqualFold(d.Type, dishType) {
			out = append(out, d)
		}
	}
	return out
}

// ClosestTier returns the menu tier nearest to calories, preferring the lower on ties
func ClosestTier(calories int) int {
	best := MenuTiers[0]
	for _, tier := range MenuTiers[1:] {
		if abs(tier-calories) < abs(best-calories) {
			best = tier
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
