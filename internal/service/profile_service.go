package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

// Profile parts written by Update
const (
	PartInfo    = "info"
	PartAddress = "address"
	PartSocials = "socials"
)

// ProfileBackend reads and writes the account profile
type ProfileBackend interface {
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateInfo(ctx context.Context, userID string, p models.Profile) error
	UpdateAddress(ctx context.Context, userID string, p models.Profile) error
	UpdateSocials(ctx context.Context, userID string, p models.Profile) error
}

// CartPuller refreshes the cart from the account
type CartPuller interface {
	SyncPull(ctx context.Context) error
}

// ProfileUpdateError names the parts the backend rejected
type ProfileUpdateError struct {
	Failed []string
	Err    error
}

func (e *ProfileUpdateError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", strings.Join(e.Failed, ", "), e.Err)
}

func (e *ProfileUpdateError) Unwrap() error {
	return e.Err
}

// ProfileService serves the account page. The last profile read or
// written is cached under profileData to prefill the order form.
type ProfileService struct {
	identity cart.Identity
	backend  ProfileBackend
	cart     CartPuller
	store    storage.Store
	logger   *slog.Logger
}

// NewProfileService creates a new profile service. puller may be nil.
func NewProfileService(identity cart.Identity, backend ProfileBackend, puller CartPuller, store storage.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		identity: identity,
		backend:  backend,
		cart:     puller,
		store:    store,
		logger:   logger,
	}
}

func (s *ProfileService) userID() (string, error) {
	userID, ok := s.identity.UserID()
	if !ok || !s.identity.IsAuthenticated() {
		return "", session.ErrNotAuthenticated
	}
	return userID, nil
}

// Get loads the profile and refreshes the cart from the account
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	if s.cart != nil {
		if err := s.cart.SyncPull(ctx); err != nil {
			s.logger.Warn("failed to refresh cart on profile load", "error", err)
		}
	}

	profile, err := s.backend.Profile(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	s.cache(*profile)
	return profile, nil
}

// Update writes info, address and socials concurrently. Every part is
// attempted; a *ProfileUpdateError lists those that failed.
func (s *ProfileService) Update(ctx context.Context, p models.Profile) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	parts := []struct {
		name  string
		write func(context.Context, string, models.Profile) error
	}{
		{PartInfo, s.backend.UpdateInfo},
		{PartAddress, s.backend.UpdateAddress},
		{PartSocials, s.backend.UpdateSocials},
	}
	errs := make([]error, len(parts))

	var g errgroup.Group
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			errs[i] = part.write(ctx, userID, p)
			return errs[i]
		})
	}
	firstErr := g.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			s.logger.Warn("profile part not saved", "part", parts[i].name, "error", err)
			failed = append(failed, parts[i].name)
		}
	}
	if len(failed) > 0 {
		return &ProfileUpdateError{Failed: failed, Err: fmt.Errorf("%w: %w", ErrUpstream, firstErr)}
	}

	s.cache(p)
	s.logger.Info("profile updated", "user_id", userID)
	return nil
}

// Cached returns the last profile seen, if any
func (s *ProfileService) Cached() (models.Profile, bool) {
	var p models.Profile
	ok, err := s.store.Get(storage.KeyProfileData, &p)
	return p, ok && err == nil
}

func (s *ProfileService) cache(p models.Profile) {
	if err := s.store.Set(storage.KeyProfileData, p); err != nil {
		s.logger.Warn("failed to cache profile", "error", err)
	}
}
