package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidDishID = errors.New("invalid dish id")

// DishID identifies a catalog dish.
// The catalog files carry ids either as JSON numbers or as numerals in strings,
// so DishID accepts both on decode and always encodes as a number.
type DishID int64

// UnmarshalJSON accepts 7, 7.0 and "7"
func (id *DishID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDishID, string(data))
	}
	parsed, err := ToDishID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id DishID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ToDishID converts the loosely typed ids found in catalog data and URLs
func ToDishID(v interface{}) (DishID, error) {
	switch id := v.(type) {
	case DishID:
		return id, nil
	case int:
		return DishID(id), nil
	case int64:
		return DishID(id), nil
	case float64:
		if id != math.Trunc(id) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidDishID, id)
		}
		return DishID(id), nil
	case json.Number:
		return ParseDishID(id.String())
	case string:
		return ParseDishID(id)
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidDishID, v)
	}
}

// ParseDishID parses a numeral, tolerating surrounding whitespace and a trailing ".0"
func ParseDishID(s string) (DishID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return DishID(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDishID, s)
	}
	return DishID(f), nil
}

// Dish is an immutable catalog record
type Dish struct {
	ID        DishID  `json:"id"`
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle,omitempty"`
	Protein   float64 `json:"p"`
	Fat       float64 `json:"f"`
	Carbs     float64 `json:"c"`
	Kcal      float64 `json:"kcal,omitempty"`
	Image     string  `json:"img,omitempty"`
	Allergens string  `json:"allergens,omitempty"`
	Type      string  `json:"type,omitempty"`
}

// Calories returns the explicit kcal when set, otherwise the Atwater estimate
func (d Dish) Calories() float64 {
	if d.Kcal > 0 {
		return d.Kcal
	}
	return CaloriesFromMacros(d.Protein, d.Fat, d.Carbs)
}

// CaloriesFromMacros uses 4 kcal/g for protein and carbs and 9 kcal/g for fat
func CaloriesFromMacros(protein, fat, carbs float64) float64 {
	return protein*4 + fat*9 + carbs*4
}

// Macros holds nutrient totals in grams
type Macros struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Add accumulates a dish's nutrients times quantity
func (m Macros) Add(d Dish, quantity int) Macros {
	q := float64(quantity)
	return Macros{
		Protein: m.Protein + d.Protein*q,
		Fat:     m.Fat + d.Fat*q,
		Carbs:   m.Carbs + d.Carbs*q,
	}
}

// Nutrition is a rendered summary of a set of dishes
type Nutrition struct {
	Macros   Macros `json:"macros"`
	Calories int    `json:"calories"`
}

// SumNutrition totals dishes counted once each, rounding calories at the end
func SumNutrition(dishes []Dish) Nutrition {
	var macros Macros
	var kcal float64
	for _, d := range dishes {
		macros = macros.Add(d, 1)
		kcal += d.Calories()
	}
	return Nutrition{Macros: macros, Calories: int(math.Round(kcal))}
}
