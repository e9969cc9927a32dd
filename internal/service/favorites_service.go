package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

// FavoritesRemote mirrors hearts to the account
type FavoritesRemote interface {
	AddFavorite(ctx context.Context, userID string, dishID models.DishID) error
	RemoveFavorite(ctx context.Context, userID string, dishID models.DishID) error
	ClearFavorites(ctx context.Context, userID string) error
	Favorites(ctx context.Context, userID string) ([]models.DishID, error)
}

// FavoritesView lists favorite dishes with their combined nutrition
type FavoritesView struct {
	Dishes    []models.Dish    `json:"dishes"`
	Nutrition models.Nutrition `json:"nutrition"`
}

// FavoritesService keeps hearts under heartsState and mirrors them to the
// account when signed in. Remote failures are logged and ignored.
type FavoritesService struct {
	mu       sync.Mutex
	store    storage.Store
	identity cart.Identity
	remote   FavoritesRemote
	dishes   repository.DishRepository
	logger   *slog.Logger
}

// NewFavoritesService creates a new favorites service. remote may be nil.
func NewFavoritesService(store storage.Store, identity cart.Identity, remote FavoritesRemote, dishes repository.DishRepository, logger *slog.Logger) *FavoritesService {
	return &FavoritesService{
		store:    store,
		identity: identity,
		remote:   remote,
		dishes:   dishes,
		logger:   logger,
	}
}

func (s *FavoritesService) hearts() map[string]bool {
	hearts := storage.GetOr(s.store, storage.KeyHeartsState, map[string]bool{})
	if hearts == nil {
		hearts = map[string]bool{}
	}
	return hearts
}

func (s *FavoritesService) save(hearts map[string]bool) {
	if err := s.store.Set(storage.KeyHeartsState, hearts); err != nil {
		s.logger.Error("failed to persist favorites", "error", err)
	}
}

func (s *FavoritesService) account() (string, bool) {
	if s.remote == nil || !s.identity.IsAuthenticated() {
		return "", false
	}
	return s.identity.UserID()
}

// Add hearts a dish
func (s *FavoritesService) Add(ctx context.Context, id models.DishID) error {
	if _, err := s.dishes.GetByID(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	hearts := s.hearts()
	hearts[id.String()] = true
	s.save(hearts)
	s.mu.Unlock()

	if userID, ok := s.account(); ok {
		if err := s.remote.AddFavorite(ctx, userID, id); err != nil {
			s.logger.Warn("failed to mirror favorite", "dish_id", id, "error", err)
		}
	}
	return nil
}

// Remove un-hearts a dish. Unknown ids are a no-op.
func (s *FavoritesService) Remove(ctx context.Context, id models.DishID) {
	s.mu.Lock()
	hearts := s.hearts()
	delete(hearts, id.String())
	s.save(hearts)
	s.mu.Unlock()

	if userID, ok := s.account(); ok {
		if err := s.remote.RemoveFavorite(ctx, userID, id); err != nil {
			s.logger.Warn("failed to mirror favorite removal", "dish_id", id, "error", err)
		}
	}
}

// Clear removes every heart
func (s *FavoritesService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.save(map[string]bool{})
	s.mu.Unlock()

	if userID, ok := s.account(); ok {
		if err := s.remote.ClearFavorites(ctx, userID); err != nil {
			s.logger.Warn("failed to clear remote favorites", "error", err)
		}
	}
}

// IDs returns the hearted dish ids, ascending. When signed in, account
// favorites missing locally are merged in first.
func (s *FavoritesService) IDs(ctx context.Context) []models.DishID {
	var remote []models.DishID
	if userID, ok := s.account(); ok {
		ids, err := s.remote.Favorites(ctx, userID)
		if err != nil {
			s.logger.Warn("failed to fetch remote favorites", "error", err)
		} else {
			remote = ids
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hearts := s.hearts()
	if len(remote) > 0 {
		for _, id := range remote {
			hearts[id.String()] = true
		}
		s.save(hearts)
	}

	ids := make([]models.DishID, 0, len(hearts))
	for key, on := range hearts {
		if !on {
			continue
		}
		id, err := models.ParseDishID(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// List returns the hearted dishes that exist in the catalog
func (s *FavoritesService) List(ctx context.Context) (*FavoritesView, error) {
	all, err := s.dishes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	dishes := lookupDishes(all, s.IDs(ctx))
	return &FavoritesView{Dishes: dishes, Nutrition: models.SumNutrition(dishes)}, nil
}
