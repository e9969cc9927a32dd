package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
)

var (
	ErrMissingFields    = errors.New("required fields are missing")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUpstream         = errors.New("backend request failed")
)

// Accounts is the backend part registration and login need
type Accounts interface {
	Register(ctx context.Context, req backend.RegisterRequest) (string, error)
	Login(ctx context.Context, req backend.LoginRequest) (string, error)
}

// CartResetter empties the in-memory cart after local storage is wiped
type CartResetter interface {
	Clear()
}

// RegisterInput is the registration form
type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginInput is the login form
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthStatus is what the header shows
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
}

// AuthService signs users in and out. The backend owns credentials; locally
// we keep only the user id and a display name.
type AuthService struct {
	session  *session.Session
	accounts Accounts
	cart     CartResetter
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(sess *session.Session, accounts Accounts, cart CartResetter, logger *slog.Logger) *AuthService {
	return &AuthService{
		session:  sess,
		accounts: accounts,
		cart:     cart,
		logger:   logger,
	}
}

// Register creates an account and signs in under the first name
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthStatus, error) {
	if missing := blank(map[string]string{
		"firstName": in.FirstName, "email": in.Email, "password": in.Password,
	}, "firstName", "email", "password"); len(missing) > 0 {
		return AuthStatus{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	if in.Password != in.ConfirmPassword {
		return AuthStatus{}, ErrPasswordMismatch
	}

	userID, err := s.accounts.Register(ctx, backend.RegisterRequest{
		FirstName:       strings.TrimSpace(in.FirstName),
		SecondName:      strings.TrimSpace(in.LastName),
		Email:           strings.TrimSpace(in.Email),
		PhoneNumber:     strings.TrimSpace(in.Phone),
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		s.logger.Error("registration failed", "error", err)
		return AuthStatus{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return s.signIn(userID, strings.TrimSpace(in.FirstName))
}

// Login signs in under the local part of the email
func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthStatus, error) {
	if missing := blank(map[string]string{
		"email": in.Email, "password": in.Password,
	}, "email", "password"); len(missing) > 0 {
		return AuthStatus{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	email := strings.TrimSpace(in.Email)
	userID, err := s.accounts.Login(ctx, backend.LoginRequest{Email: email, Password: in.Password})
	if err != nil {
		s.logger.Warn("login failed", "error", err)
		return AuthStatus{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	name, _, _ := strings.Cut(email, "@")
	return s.signIn(userID, name)
}

func (s *AuthService) signIn(userID, name string) (AuthStatus, error) {
	if err := s.session.SignIn(userID, name); err != nil {
		return AuthStatus{}, err
	}
	s.logger.Info("user signed in", "user_id", userID)
	return s.Status(), nil
}

// Logout wipes local storage, including the cart and favorites
func (s *AuthService) Logout() error {
	if err := s.session.SignOut(); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	s.cart.Clear()
	s.logger.Info("user signed out")
	return nil
}

func (s *AuthService) Status() AuthStatus {
	if !s.session.IsAuthenticated() {
		return AuthStatus{}
	}
	userID, _ := s.session.UserID()
	return AuthStatus{Authenticated: true, UserID: userID, DisplayName: s.session.DisplayName()}
}

// blank returns the keys, in order, whose values are empty
func blank(values map[string]string, order ...string) []string {
	var missing []string
	for _, key := range order {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
