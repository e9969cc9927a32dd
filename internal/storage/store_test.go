package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCart() models.Cart {
	return models.Cart{Orders: []models.Order{
		{
			ID:    "order_1_a",
			Name:  "Menu for 1200 kcal",
			Price: 840,
			Lines: []models.OrderLine{
				{
					Dish:     models.Dish{ID: 7, Title: "Oatmeal", Protein: 10, Fat: 5, Carbs: 20, Type: "breakfast"},
					Day:      models.Monday,
					DayName:  "Monday",
					Quantity: 2,
				},
				{
					Dish:     models.Dish{ID: 9, Title: "Soup", Protein: 8.5, Fat: 3.25, Carbs: 12, Kcal: 130},
					Day:      models.Tuesday,
					DayName:  "Tuesday",
					Quantity: 1,
				},
			},
		},
		{ID: "order_2_b", Name: "Single dish: Soup", Price: 0, Lines: []models.OrderLine{
			{Dish: models.Dish{ID: 9, Title: "Soup"}, Day: models.Friday, Quantity: 3},
		}},
	}}
}

func stores(t *testing.T) map[string]storage.Store {
	t.Helper()

	sqlite, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]storage.Store{
		"memory": storage.NewMemoryStore(),
		"sqlite": sqlite,
	}
}

// TestStore_CartRoundTrip stores a cart and reads back an equal value.
func TestStore_CartRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleCart()
			require.NoError(t, store.Set(storage.KeyCart, want))

			var got models.Cart
			ok, err := store.Get(storage.KeyCart, &got)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_MissingKey(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var got string
			ok, err := store.Get("nope", &got)
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, "fallback", storage.GetOr(store, "nope", "fallback"))
		})
	}
}

func TestStore_OverwriteDeleteClear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(storage.KeyUserID, "u-1"))
			require.NoError(t, store.Set(storage.KeyUserID, "u-2"))
			assert.Equal(t, "u-2", storage.GetOr(store, storage.KeyUserID, ""))

			require.NoError(t, store.Delete(storage.KeyUserID))
			assert.Equal(t, "", storage.GetOr(store, storage.KeyUserID, ""))

			require.NoError(t, store.Set(storage.KeyUserName, "anna"))
			require.NoError(t, store.Set(storage.KeyHeartsState, map[string]bool{"7": true}))
			require.NoError(t, store.Clear())

			var hearts map[string]bool
			ok, err := store.Get(storage.KeyHeartsState, &hearts)
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_UnreadableValueFallsBack(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyCart, "not a cart"))

	var got models.Cart
	ok, err := store.Get(storage.KeyCart, &got)
	assert.True(t, ok)
	assert.Error(t, err)

	assert.Equal(t, models.NewCart(), storage.GetOr(store, storage.KeyCart, models.NewCart()))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	first, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(storage.KeyCart, sampleCart()))
	require.NoError(t, first.Close())

	second, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	var got models.Cart
	ok, err := second.Get(storage.KeyCart, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleCart(), got)
}

func TestSQLiteStore_Closed(t *testing.T) {
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Set("k", 1), storage.ErrClosed)
}
