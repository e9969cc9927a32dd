package models

import (
	"errors"
	"strings"
)

var ErrInvalidDay = errors.New("invalid day of week")

// Day is a lower-case English weekday name
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// AllDays lists the calendar week starting on Monday
var AllDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// OrderingWeek lists the days meals are delivered on
var OrderingWeek = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayNames = map[Day]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseDay accepts "monday", "Monday", "mon" or "Mon"
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return "", ErrInvalidDay
	}
	for _, d := range AllDays {
		if string(d) == s || d.Code() == s {
			return d, nil
		}
	}
	return "", ErrInvalidDay
}

// Code is the three-letter lower-case abbreviation used by the menu table
func (d Day) Code() string {
	if len(d) < 3 {
		return string(d)
	}
	return string(d[:3])
}

// Name is the human-readable day name stored on order lines
func (d Day) Name() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return string(d)
}

// Index is the position within the calendar week, or -1
func (d Day) Index() int {
	for i, day := range AllDays {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is a known calendar day
func (d Day) Valid() bool {
	return d.Index() >= 0
}
