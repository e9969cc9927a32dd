package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

var ErrNoUserID = errors.New("backend did not return a user id")

// RegisterRequest is the registration form
type RegisterRequest struct {
	FirstName       string `json:"FirstName"`
	SecondName      string `json:"SecondName"`
	Email           string `json:"Email"`
	PhoneNumber     string `json:"PhoneNumber"`
	Password        string `json:"Password"`
	ConfirmPassword string `json:"ConfirmPassword"`
}

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type authResponse struct {
	UserID  flexString `json:"userId"`
	Message string     `json:"message"`
}

// Register creates an account and returns its user id
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return c.authenticate(ctx, "/user/registration", req)
}

// Login signs in and returns the user id
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	return c.authenticate(ctx, "/user/login", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req interface{}) (string, error) {
	var resp authResponse
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		if resp.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrNoUserID, resp.Message)
		}
		return "", ErrNoUserID
	}
	return string(resp.UserID), nil
}

type profileResponse struct {
	FirstName flexString `json:"firstName"`
	LastName  flexString `json:"lastName"`
	Number    flexString `json:"number"`
	Email     flexString `json:"email"`
	UserSex   flexString `json:"userSex"`
	Allergens flexString `json:"userAllergens"`
	City      flexString `json:"city"`
	Street    flexString `json:"street"`
	House     flexString `json:"house"`
	Apartment flexString `json:"apartment"`
	Entrance  flexString `json:"entrance"`
	Telegram  flexString `json:"telegram"`
	Instagram flexString `json:"instagram"`
}

// the backend stores gender as a localized label
var (
	maleLabels   = []string{"Мужской", "Чоловіча"}
	femaleLabels = []string{"Женский", "Жіноча"}
)

const (
	maleLabel   = "Мужской"
	femaleLabel = "Женский"
)

func genderFromLabel(label string) string {
	for _, l := range maleLabels {
		if strings.EqualFold(label, l) {
			return "male"
		}
	}
	for _, l := range femaleLabels {
		if strings.EqualFold(label, l) {
			return "female"
		}
	}
	return ""
}

// Profile reads the account profile
func (c *Client) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var resp profileResponse
	body := map[string]string{"userId": userID}
	if err := c.post(ctx, "/user/info/"+url.PathEscape(userID), body, &resp); err != nil {
		return nil, err
	}
	return &models.Profile{
		FirstName: string(resp.FirstName),
		LastName:  string(resp.LastName),
		Number:    string(resp.Number),
		Email:     string(resp.Email),
		Gender:    genderFromLabel(string(resp.UserSex)),
		Allergies: string(resp.Allergens),
		City:      string(resp.City),
		Street:    string(resp.Street),
		House:     string(resp.House),
		Apartment: string(resp.Apartment),
		Entrance:  string(resp.Entrance),
		Telegram:  string(resp.Telegram),
		Instagram: string(resp.Instagram),
	}, nil
}

type infoRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Number    string `json:"number"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Allergies string `json:"allergies"`
}

type addressRequest struct {
	Street    string `json:"Street,omitempty"`
	House     *int   `json:"House,omitempty"`
	Apartment string `json:"Apartment,omitempty"`
	City      string `json:"Sity,omitempty"`
	Entrance  *int   `json:"Entrance,omitempty"`
}

type socialsRequest struct {
	Telegram  string `json:"telegram"`
	Instagram string `json:"instagram"`
}

// UpdateInfo writes name, contacts, gender and allergies
func (c *Client) UpdateInfo(ctx context.Context, userID string, p models.Profile) error {
	gender := femaleLabel
	if p.Gender == "male" {
		gender = maleLabel
	}
	return c.post(ctx, withUserID("/user/addinfo", userID), infoRequest{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Number:    p.Number,
		Email:     p.Email,
		Gender:    gender,
		Allergies: p.Allergies,
	}, nil)
}

// UpdateAddress writes the delivery address. Blank fields are left out.
func (c *Client) UpdateAddress(ctx context.Context, userID string, p models.Profile) error {
	return c.post(ctx, withUserID("/user/address", userID), addressRequest{
		Street:    p.Street,
		House:     optionalInt(p.House),
		Apartment: p.Apartment,
		City:      p.City,
		Entrance:  optionalInt(p.Entrance),
	}, nil)
}

// UpdateSocials writes the messenger handles
func (c *Client) UpdateSocials(ctx context.Context, userID string, p models.Profile) error {
	return c.post(ctx, withUserID("/user/social", userID), socialsRequest{
		Telegram:  p.Telegram,
		Instagram: p.Instagram,
	}, nil)
}
