package service

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

const testMenuJSON = `{
  "1200": [
    {"dayOfWeek": "Mon", "breakfastId": 1, "dinnerdishId": [2, 3], "choseDinnerdish": true, "eveningmealdishId": [4]},
    {"dayOfWeek": "Tue", "breakfastId": "5"},
    {"dayOfWeek": "Wed", "breakfastId": 6}
  ],
  "1600": [
    {"dayOfWeek": "Mon", "breakfastId": 1},
    {"dayOfWeek": "Tue", "dinnerdishId": [2, 3]}
  ]
}`

var testDishes = []models.Dish{
	{ID: 1, Title: "Oatmeal", Protein: 10, Fat: 5, Carbs: 20, Type: "breakfast"},
	{ID: 2, Title: "Chicken soup", Protein: 20, Fat: 10, Carbs: 30, Type: "lunch"},
	{ID: 3, Title: "Lentil soup", Kcal: 250, Type: "lunch"},
	{ID: 4, Title: "Salmon", Protein: 30, Fat: 15, Type: "dinner"},
	{ID: 5, Title: "Pancakes", Protein: 8, Fat: 6, Carbs: 40, Type: "breakfast"},
	{ID: 6, Title: "Yogurt", Kcal: 120, Type: "breakfast"},
}

type testPricing map[int]int

func (p testPricing) DayPrice(tier int) int { return p[tier] }

var pricing = testPricing{1200: 420, 1600: 460}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog(t *testing.T) *repository.CatalogRepository {
	t.Helper()
	var menu models.Menu
	require.NoError(t, json.Unmarshal([]byte(testMenuJSON), &menu))
	return repository.NewCatalogRepository(repository.NewInMemoryCatalog(testDishes, menu))
}

type testEnv struct {
	store   *storage.MemoryStore
	session *session.Session
	cart    *cart.Manager
	catalog *repository.CatalogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	sess := session.New(store)
	return &testEnv{
		store:   store,
		session: sess,
		cart:    cart.NewManager(store, sess, nil, discardLogger()),
		catalog: testCatalog(t),
	}
}

// longCooldown lets exactly one confirm through during a test
func longCooldown() *Cooldown {
	return NewCooldown(time.Hour)
}
