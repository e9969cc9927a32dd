package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is one invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field so the form can mark each one
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "please fill in all required fields: " + strings.Join(names, ", ")
}

// Validate checks the order form
func Validate(c models.Customer) error {
	required := []struct {
		field string
		value string
	}{
		{"lastName", c.LastName},
		{"firstName", c.FirstName},
		{"phone", c.Phone},
		{"email", c.Email},
		{"street", c.Street},
		{"house", c.House},
		{"floor", c.Floor},
		{"apartment", c.Apartment},
	}

	var fields []FieldError
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields = append(fields, FieldError{Field: r.field, Message: "required"})
		}
	}
	if email := strings.TrimSpace(c.Email); email != "" && !emailPattern.MatchString(email) {
		fields = append(fields, FieldError{Field: "email", Message: fmt.Sprintf("%q is not a valid email", email)})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Prefill fills the order form from the account profile. Floor comes from
// the profile's entrance; the social handle prefers Telegram over Instagram.
func Prefill(p models.Profile) models.Customer {
	social := p.Telegram
	if social == "" {
		social = p.Instagram
	}
	return models.Customer{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Number,
		Email:     p.Email,
		Social:    social,
		Street:    p.Street,
		House:     p.House,
		Floor:     p.Entrance,
		Apartment: p.Apartment,
	}
}
