// Package session tracks who is signed in to the storefront. The backend owns
// the real session (cookie); here we only remember the user identifier and
// display name it handed us.
package session

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

// MaxDisplayNameLength is where the header greeting truncates user names
const MaxDisplayNameLength = 8

var ErrNotAuthenticated = errors.New("user is not signed in")

// Session reads and writes the signed-in identity in local storage
type Session struct {
	store storage.Store
}

// New creates a session backed by store
func New(store storage.Store) *Session {
	return &Session{store: store}
}

// UserID returns the stored user identifier
func (s *Session) UserID() (string, bool) {
	id := storage.GetOr(s.store, storage.KeyUserID, "")
	return id, id != ""
}

// UserName returns the stored display name
func (s *Session) UserName() string {
	return storage.GetOr(s.store, storage.KeyUserName, "")
}

// IsAuthenticated requires both a user id and a name
func (s *Session) IsAuthenticated() bool {
	_, ok := s.UserID()
	return ok && s.UserName() != ""
}

// SignIn stores the identity returned by registration or login
func (s *Session) SignIn(userID, userName string) error {
	if err := s.store.Set(storage.KeyUserID, userID); err != nil {
		return fmt.Errorf("failed to store user id: %w", err)
	}
	if err := s.store.Set(storage.KeyUserName, userName); err != nil {
		return fmt.Errorf("failed to store user name: %w", err)
	}
	return nil
}

// SignOut wipes local storage entirely, like a browser logout clearing localStorage
func (s *Session) SignOut() error {
	return s.store.Clear()
}

// DisplayName is the user name truncated for the header
func (s *Session) DisplayName() string {
	return TruncateName(s.UserName())
}

// TruncateName cuts names longer than MaxDisplayNameLength runes and appends "..."
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxDisplayNameLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxDisplayNameLength]) + "..."
}
