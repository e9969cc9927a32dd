package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
)

type favoriteRequest struct {
	UserID string        `json:"UserId"`
	DishID models.DishID `json:"DishId"`
}

type userRequest struct {
	UserID string `json:"UserId"`
}

// AddFavorite marks a dish as a favorite
func (c *Client) AddFavorite(ctx context.Context, userID string, dishID models.DishID) error {
	return c.post(ctx, "/user/favorite/add", favoriteRequest{UserID: userID, DishID: dishID}, nil)
}

// RemoveFavorite unmarks a dish
func (c *Client) RemoveFavorite(ctx context.Context, userID string, dishID models.DishID) error {
	return c.post(ctx, "/user/favorite/remove", favoriteRequest{UserID: userID, DishID: dishID}, nil)
}

// ClearFavorites unmarks every dish
func (c *Client) ClearFavorites(ctx context.Context, userID string) error {
	return c.post(ctx, "/user/favorite/clear", userRequest{UserID: userID}, nil)
}

// Favorites lists the favorite dish ids. Entries may be bare ids or objects
// carrying "dishId" or "id"; anything else is skipped. A response that is not
// a list yields no favorites.
func (c *Client) Favorites(ctx context.Context, userID string) ([]models.DishID, error) {
	data, err := c.postRaw(ctx, "/user/favorite/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return []models.DishID{}, nil
	}

	ids := make([]models.DishID, 0, len(entries))
	for _, raw := range entries {
		var id models.DishID
		if err := json.Unmarshal(raw, &id); err == nil {
			ids = append(ids, id)
			continue
		}
		var obj struct {
			DishID *models.DishID `json:"dishId"`
			ID     *models.DishID `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}
		switch {
		case obj.DishID != nil:
			ids = append(ids, *obj.DishID)
		case obj.ID != nil:
			ids = append(ids, *obj.ID)
		}
	}
	return ids, nil
}

type saveCartRequest struct {
	UserID   string      `json:"UserId"`
	CartData models.Cart `json:"CartData"`
}

// SaveCart stores the cart on the account
func (c *Client) SaveCart(ctx context.Context, userID string, cart models.Cart) error {
	if err := c.post(ctx, "/cart/add", saveCartRequest{UserID: userID, CartData: cart}, nil); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// FetchCart returns the stored cart payload as sent by the backend
func (c *Client) FetchCart(ctx context.Context, userID string) ([]byte, error) {
	data, err := c.postRaw(ctx, "/cart/get/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return data, nil
}

// ClearCart empties the cart on the account
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	if err := c.post(ctx, "/cart/clear", userRequest{UserID: userID}, nil); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
