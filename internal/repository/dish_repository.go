package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

var (
	ErrDishNotFound = errors.New("dish not found")
)

// DishRepository defines the interface for dish data access
type DishRepository interface {
	GetAll(ctx context.Context) ([]models.Dish, error)
	GetByID(ctx context.Context, id models.DishID) (*models.Dish, error)
	GetByType(ctx context.Context, dishType string) ([]models.Dish, error)
}

// MenuRepository gives access to the menu table
type MenuRepository interface {
	GetMenu(ctx context.Context) (models.Menu, error)
}

// CatalogSource is what the catalog loader provides
type CatalogSource interface {
	Dishes(ctx context.Context) ([]models.Dish, error)
	Menu(ctx context.Context) (models.Menu, error)
}

// CatalogRepository serves dishes and menus from the static catalog files
type CatalogRepository struct {
	source CatalogSource
}

// NewCatalogRepository creates a repository backed by a catalog loader
func NewCatalogRepository(source CatalogSource) *CatalogRepository {
	return &CatalogRepository{source: source}
}

// GetAll returns every dish in catalog order
func (r *CatalogRepository) GetAll(ctx context.Context) ([]models.Dish, error) {
	return r.source.Dishes(ctx)
}

// GetByID returns a dish by its ID
func (r *CatalogRepository) GetByID(ctx context.Context, id models.DishID) (*models.Dish, error) {
	dishes, err := r.source.Dishes(ctx)
	if err != nil {
		return nil, err
	}
	dish, ok := catalog.DishByID(dishes, id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrDishNotFound, id)
	}
	return &dish, nil
}

// GetByType returns dishes of one meal category, or all when dishType is empty
func (r *CatalogRepository) GetByType(ctx context.Context, dishType string) ([]models.Dish, error) {
	dishes, err := r.source.Dishes(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.DishesByType(dishes, dishType), nil
}

// GetMenu returns the menu table
func (r *CatalogRepository) GetMenu(ctx context.Context) (models.Menu, error) {
	return r.source.Menu(ctx)
}

// InMemoryCatalog implements CatalogSource with fixed data
type InMemoryCatalog struct {
	dishes []models.Dish
	menu   models.Menu
}

// NewInMemoryCatalog creates a catalog source over the given data
func NewInMemoryCatalog(dishes []models.Dish, menu models.Menu) *InMemoryCatalog {
	if dishes == nil {
		dishes = []models.Dish{}
	}
	if menu == nil {
		menu = models.Menu{}
	}
	return &InMemoryCatalog{dishes: dishes, menu: menu}
}

func (c *InMemoryCatalog) Dishes(ctx context.Context) ([]models.Dish, error) {
	return c.dishes, nil
}

func (c *InMemoryCatalog) Menu(ctx context.Context) (models.Menu, error) {
	return c.menu, nil
}
