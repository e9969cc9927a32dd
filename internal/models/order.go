package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedCart = errors.New("cart payload has no order list")

// OrderLine is one dish for one delivery day within an order
type OrderLine struct {
	Dish
	Day      Day    `json:"day"`
	DayName  string `json:"dayName,omitempty"`
	Quantity int    `json:"quantity"`
}

// Matches reports whether the line addresses dishID on day
func (l OrderLine) Matches(dishID DishID, day Day) bool {
	return l.ID == dishID && l.Day == day
}

// NewOrderLine builds a line with quantity 1 and the day's display name
func NewOrderLine(d Dish, day Day) OrderLine {
	return OrderLine{Dish: d, Day: day, DayName: day.Name(), Quantity: 1}
}

// Order is a batch of lines confirmed together
type Order struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Lines []OrderLine `json:"dishes"`
	Price int         `json:"price"`
}

// Cart is the persisted list of orders
type Cart struct {
	Orders []Order `json:"orders"`
}

// NewCart returns an empty cart that serializes as {"orders": []}
func NewCart() Cart {
	return Cart{Orders: []Order{}}
}

// Clone returns a deep copy
func (c Cart) Clone() Cart {
	out := Cart{Orders: make([]Order, len(c.Orders))}
	for i, o := range c.Orders {
		o.Lines = append([]OrderLine(nil), o.Lines...)
		if o.Lines == nil {
			o.Lines = []OrderLine{}
		}
		out.Orders[i] = o
	}
	return out
}

// DecodeCart parses a cart payload, rejecting documents without an orders array
func DecodeCart(data []byte) (Cart, error) {
	var wire struct {
		Orders *[]Order `json:"orders"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if wire.Orders == nil {
		return Cart{}, ErrMalformedCart
	}
	cart := Cart{Orders: *wire.Orders}
	for i := range cart.Orders {
		if cart.Orders[i].Lines == nil {
			cart.Orders[i].Lines = []OrderLine{}
		}
	}
	return cart, nil
}
