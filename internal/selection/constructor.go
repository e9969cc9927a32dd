// Package selection holds the per-day dish choices a user makes before
// confirming an order. State is an explicit map; every read is a pure
// projection of it. Types here are not safe for concurrent use; the page
// services that own them serialize access.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

// MinConstructorDays is how many distinct days a constructor order must cover
const MinConstructorDays = 3

var ErrEmptySelection = errors.New("no dishes selected")

// MinDaysError rejects a constructor order covering too few days
type MinDaysError struct {
	Required int
	Selected []models.Day
	Missing  int
}

func (e *MinDaysError) Error() string {
	names := make([]string, len(e.Selected))
	for i, d := range e.Selected {
		names[i] = d.Name()
	}
	unit := "days"
	if e.Missing == 1 {
		unit = "day"
	}
	return fmt.Sprintf("dishes are required for at least %d days; selected: %s; add dishes for %d more %s",
		e.Required, strings.Join(names, ", "), e.Missing, unit)
}

// Constructor tracks which dishes are active on each day
type Constructor struct {
	active map[models.Day]map[models.DishID]bool
}

// NewConstructor creates an empty selection
func NewConstructor() *Constructor {
	return &Constructor{active: make(map[models.Day]map[models.DishID]bool)}
}

// Toggle flips a dish on a day and returns the new state
func (c *Constructor) Toggle(day models.Day, id models.DishID) bool {
	active := !c.IsActive(day, id)
	c.Set(day, id, active)
	return active
}

// Set marks a dish active or inactive on a day
func (c *Constructor) Set(day models.Day, id models.DishID, active bool) {
	if !active {
		if ids, ok := c.active[day]; ok {
			delete(ids, id)
			if len(ids) == 0 {
				delete(c.active, day)
			}
		}
		return
	}
	ids, ok := c.active[day]
	if !ok {
		ids = make(map[models.DishID]bool)
		c.active[day] = ids
	}
	ids[id] = true
}

// IsActive reports whether a dish is selected for the day
func (c *Constructor) IsActive(day models.Day, id models.DishID) bool {
	return c.active[day][id]
}

// Selected returns the active dish ids for a day, ascending
func (c *Constructor) Selected(day models.Day) []models.DishID {
	ids := make([]models.DishID, 0, len(c.active[day]))
	for id := range c.active[day] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Days returns the days with at least one active dish, in week order
func (c *Constructor) Days() []models.Day {
	days := make([]models.Day, 0, len(c.active))
	for _, d := range models.AllDays {
		if len(c.active[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

// Lines builds candidate order lines for every active dish that resolves in dishes
func (c *Constructor) Lines(dishes []models.Dish) []models.OrderLine {
	var lines []models.OrderLine
	for _, day := range c.Days() {
		for _, id := range c.Selected(day) {
			dish, ok := catalog.DishByID(dishes, id)
			if !ok {
				continue
			}
			lines = append(lines, models.NewOrderLine(dish, day))
		}
	}
	return lines
}

// ValidateMinDays enforces the confirm gate
func (c *Constructor) ValidateMinDays(required int) error {
	days := c.Days()
	if len(days) == 0 {
		return ErrEmptySelection
	}
	if len(days) < required {
		return &MinDaysError{Required: required, Selected: days, Missing: required - len(days)}
	}
	return nil
}

// Reset deselects everything
func (c *Constructor) Reset() {
	c.active = make(map[models.Day]map[models.DishID]bool)
}
