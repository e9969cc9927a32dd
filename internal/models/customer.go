package models

// Customer holds the contact and delivery fields of the order form
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Social    string `json:"social,omitempty"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Floor     string `json:"floor"`
	Apartment string `json:"apartment"`
	Comment   string `json:"comment,omitempty"`
}

// Profile is the account data kept by the backend
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Number    string `json:"number"`
	Email     string `json:"email"`
	Gender    string `json:"gender,omitempty"`
	Allergies string `json:"allergies,omitempty"`
	City      string `json:"city,omitempty"`
	Street    string `json:"street,omitempty"`
	House     string `json:"house,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Entrance  string `json:"entrance,omitempty"`
	Telegram  string `json:"telegram,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}
