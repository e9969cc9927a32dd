package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SlotKind describes how a meal slot's candidate dishes are combined
type SlotKind string

const (
	// SlotFixed is a single mandatory dish
	SlotFixed SlotKind = "fixed"
	// SlotAll includes every listed dish
	SlotAll SlotKind = "all"
	// SlotChoice offers exactly one of the listed dishes
	SlotChoice SlotKind = "choice"
)

// MealSlots is the canonical order of meal slots within a day, with display names
var MealSlots = []struct {
	Key  string
	Name string
}{
	{"breakfast", "Breakfast"},
	{"additionaldishes", "Additional dish"},
	{"sweetbreakfast", "Sweet breakfast"},
	{"afternoonsnask", "Afternoon snack"},
	{"sweetafternoonsnask", "Sweet afternoon snack"},
	{"dinnerdish", "Lunch"},
	{"eveningmealdish", "Dinner"},
}

// SlotName returns the display name of a slot key
func SlotName(key string) string {
	for _, s := range MealSlots {
		if s.Key == key {
			return s.Name
		}
	}
	return key
}

func slotRank(key string) int {
	for i, s := range MealSlots {
		if s.Key == key {
			return i
		}
	}
	return len(MealSlots)
}

// Slot is one resolved meal slot
type Slot struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Kind    SlotKind `json:"kind"`
	DishIDs []DishID `json:"dishIds"`
}

// Mandatory returns the dishes included regardless of user choice.
// Choice slots have none.
func (s Slot) Mandatory() []DishID {
	if s.Kind == SlotChoice {
		return nil
	}
	return s.DishIDs
}

// Has reports whether id is a candidate of the slot
func (s Slot) Has(id DishID) bool {
	for _, candidate := range s.DishIDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// SlotMap maps slot keys to resolved slots for one tier and day
type SlotMap map[string]Slot

// Keys returns slot keys in canonical meal order
func (m SlotMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := slotRank(keys[i]), slotRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Ordered returns the slots in canonical meal order
func (m SlotMap) Ordered() []Slot {
	slots := make([]Slot, 0, len(m))
	for _, k := range m.Keys() {
		slots = append(slots, m[k])
	}
	return slots
}

// DayMenu is one record of the menu table: the slots served on a weekday,
// optionally scoped to a rotation week.
type DayMenu struct {
	DayOfWeek string
	Week      int
	Slots     map[string][]DishID
	scalar    map[string]bool
	Choices   map[string]bool
}

// IsScalar reports whether the slot was given as a single id rather than a list
func (m DayMenu) IsScalar(key string) bool {
	return m.scalar[key]
}

// UnmarshalJSON reads "<slot>Id" fields and their "chose<Slot>" companions
func (m *DayMenu) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode menu day: %w", err)
	}

	*m = DayMenu{
		Slots:   make(map[string][]DishID),
		scalar:  make(map[string]bool),
		Choices: make(map[string]bool),
	}

	for name, raw := range fields {
		switch {
		case name == "dayOfWeek":
			if err := json.Unmarshal(raw, &m.DayOfWeek); err != nil {
				return fmt.Errorf("failed to decode dayOfWeek: %w", err)
			}
		case name == "week":
			var week DishID // tolerant numeric decode
			if err := json.Unmarshal(raw, &week); err != nil {
				return fmt.Errorf("failed to decode week: %w", err)
			}
			m.Week = int(week)
		case strings.HasPrefix(strings.ToLower(name), "chose"):
			var flag bool
			if err := json.Unmarshal(raw, &flag); err != nil {
				continue
			}
			if key := strings.TrimPrefix(strings.ToLower(name), "chose"); key != "" {
				m.Choices[key] = flag
			}
		case strings.HasSuffix(name, "Id") && len(name) > 2:
			key := strings.ToLower(strings.TrimSuffix(name, "Id"))
			ids, scalar, err := decodeSlotIDs(raw)
			if err != nil {
				return fmt.Errorf("failed to decode slot %s: %w", name, err)
			}
			if len(ids) == 0 {
				continue
			}
			m.Slots[key] = ids
			m.scalar[key] = scalar
		}
	}
	return nil
}

// decodeSlotIDs reads a scalar id or a list of ids, dropping nulls and zeros
func decodeSlotIDs(raw json.RawMessage) ([]DishID, bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" || trimmed == "" || trimmed == `""` {
		return nil, true, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, false, err
		}
		ids := make([]DishID, 0, len(list))
		for _, item := range list {
			var id DishID
			if err := json.Unmarshal(item, &id); err != nil {
				return nil, false, err
			}
			if id != 0 {
				ids = append(ids, id)
			}
		}
		return ids, false, nil
	}
	var id DishID
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, true, err
	}
	if id == 0 {
		return nil, true, nil
	}
	return []DishID{id}, true, nil
}

// Menu is the whole menu table keyed by calorie tier
type Menu map[int][]DayMenu

// Tiers returns the calorie tiers present, ascending
func (m Menu) Tiers() []int {
	tiers := make([]int, 0, len(m))
	for t := range m {
		tiers = append(tiers, t)
	}
	sort.Ints(tiers)
	return tiers
}
