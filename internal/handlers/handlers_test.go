package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/checkout"
	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/selection"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
	"github.com/Lixing-Zhang/diet-storefront/pkg/logger"
)

const testMenuJSON = `{
  "1200": [
    {"dayOfWeek": "Mon", "breakfastId": 1, "dinnerdishId": [2, 3], "choseDinnerdish": true, "eveningmealdishId": [4]},
    {"dayOfWeek": "Tue", "breakfastId": 5},
    {"dayOfWeek": "Wed", "breakfastId": 6}
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

type fixedPricing map[int]int

func (p fixedPricing) DayPrice(tier int) int { return p[tier] }

// fakeBackend answers every call with {} unless a route overrides it
type fakeBackend struct {
	mu     sync.Mutex
	calls  []string
	routes map[string]func(w http.ResponseWriter, r *http.Request)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.URL.Path)
	handler, ok := b.routes[r.URL.Path]
	b.mu.Unlock()

	if ok {
		handler(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{}`))
}

func (b *fakeBackend) called(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == path {
			return true
		}
	}
	return false
}

type testApp struct {
	router  http.Handler
	backend *fakeBackend
	session *session.Session
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.New("error")

	var menu models.Menu
	if err := json.Unmarshal([]byte(testMenuJSON), &menu); err != nil {
		t.Fatalf("failed to decode menu: %v", err)
	}
	catalogRepo := repository.NewCatalogRepository(repository.NewInMemoryCatalog(testDishes, menu))

	fake := &fakeBackend{routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store := storage.NewMemoryStore()
	sess := session.New(store)
	client := backend.NewClient(server.URL, 2*time.Second, log)
	manager := cart.NewManager(store, sess, client, log)
	t.Cleanup(manager.Wait)

	pricing := fixedPricing{1200: 420}
	orchestrator := checkout.NewOrchestrator(client, manager, "http://localhost:8080/cart", "/", 1500*time.Millisecond, log)
	profiles := service.NewProfileService(sess, client, manager, store, log)
	catalogService := service.NewCatalogService(catalogRepo, catalogRepo, nil)

	set := &Set{
		Health:      NewHealthHandler(catalogService, log),
		Catalog:     NewCatalogHandler(catalogService, log),
		Constructor: NewConstructorHandler(service.NewConstructorService(catalogRepo, manager, service.NewCooldown(time.Hour), log), log),
		Standard:    NewStandardHandler(service.NewStandardService(catalogRepo, catalogRepo, manager, pricing, service.NewCooldown(time.Hour), log), log),
		Calculator:  NewCalculatorHandler(service.NewCalculatorService(store, catalogRepo, catalogRepo, manager, pricing, service.NewCooldown(time.Hour), log), log),
		Cart:        NewCartHandler(service.NewOrderService(manager, catalogRepo, log), log),
		Checkout:    NewCheckoutHandler(service.NewCheckoutService(orchestrator, manager, sess, profiles), log),
		Auth:        NewAuthHandler(service.NewAuthService(sess, client, manager, log), log),
		Profile:     NewProfileHandler(profiles, log),
		Favorites:   NewFavoritesHandler(service.NewFavoritesService(store, sess, client, catalogRepo, log), log),
	}

	r := chi.NewRouter()
	set.Register(r, sess, log)
	return &testApp{router: r, backend: fake, session: sess}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	decode(t, w, &resp)
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %s", resp.Status)
	}
	if resp.CatalogLoaded {
		t.Error("catalog without a stats provider should not report loaded")
	}
}

func TestListDishes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		path  string
		count int
	}{
		{"all dishes", "/api/dishes", 6},
		{"by type", "/api/dishes?type=breakfast", 3},
		{"type is case insensitive", "/api/dishes?type=LUNCH", 2},
		{"unknown type", "/api/dishes?type=dessert", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var dishes []models.Dish
			decode(t, w, &dishes)
			if len(dishes) != tt.count {
				t.Errorf("expected %d dishes, got %d", tt.count, len(dishes))
			}
		})
	}
}

func TestGetDish(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		dishID         string
		expectedStatus int
	}{
		{"valid ID", "1", http.StatusOK},
		{"float ID", "4.0", http.StatusOK},
		{"not found", "999", http.StatusNotFound},
		{"invalid ID", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/api/dishes/"+tt.dishID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code != http.StatusOK {
				var errResp ErrorResponse
				decode(t, w, &errResp)
				if errResp.Error == "" {
					t.Error("expected error message in response")
				}
			}
		})
	}
}

func TestDayMenu(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/menu/1200/mon", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var view service.DayMenuView
	decode(t, w, &view)
	if len(view.Slots) != 3 {
		t.Errorf("expected 3 slots on Monday, got %d", len(view.Slots))
	}

	for _, path := range []string{"/api/menu/abc/monday", "/api/menu/1200/someday", "/api/menu/1200/monday?week=0"} {
		if w := app.do(t, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
}

type fakeCatalogCache struct {
	invalidated int
}

func (c *fakeCatalogCache) GetStats() map[string]interface{} {
	return map[string]interface{}{"dishes_loaded": c.invalidated == 0, "menu_loaded": c.invalidated == 0}
}

func (c *fakeCatalogCache) Invalidate() { c.invalidated++ }

func TestInvalidateCatalogCache(t *testing.T) {
	app := newTestApp(t)

	// the in-memory catalog keeps no cache
	if w := app.do(t, http.MethodDelete, "/api/catalog/cache", nil); w.Code != http.StatusNotImplemented {
		t.Errorf("expected status 501, got %d", w.Code)
	}

	var menu models.Menu
	if err := json.Unmarshal([]byte(testMenuJSON), &menu); err != nil {
		t.Fatalf("failed to decode menu: %v", err)
	}
	catalogRepo := repository.NewCatalogRepository(repository.NewInMemoryCatalog(testDishes, menu))
	cache := &fakeCatalogCache{}
	h := NewCatalogHandler(service.NewCatalogService(catalogRepo, catalogRepo, cache), logger.New("error"))

	r := chi.NewRouter()
	r.Delete("/api/catalog/cache", h.InvalidateCache)
	r.Get("/api/catalog/stats", h.Stats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/catalog/cache", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if cache.invalidated != 1 {
		t.Errorf("expected one invalidation, got %d", cache.invalidated)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog/stats", nil))
	var stats map[string]interface{}
	decode(t, w, &stats)
	if stats["dishes_loaded"] != false {
		t.Errorf("expected stats to show an empty cache, got %v", stats)
	}
}

func TestConstructorConfirm(t *testing.T) {
	app := newTestApp(t)

	pick := func(day string) {
		t.Helper()
		w := app.do(t, http.MethodPut, "/api/constructor/"+day+"/1", map[string]bool{"active": true})
		if w.Code != http.StatusOK {
			t.Fatalf("pick %s: expected status 200, got %d", day, w.Code)
		}
	}

	if w := app.do(t, http.MethodPost, "/api/constructor/confirm", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty selection: expected status 400, got %d", w.Code)
	}

	pick("monday")
	pick("tuesday")
	w := app.do(t, http.MethodPost, "/api/constructor/confirm", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("two days: expected status 422, got %d", w.Code)
	}
	var errResp ErrorResponse
	decode(t, w, &errResp)
	if !strings.Contains(errResp.Error, "1") {
		t.Errorf("expected the missing day count in %q", errResp.Error)
	}

	pick("wednesday")
	w = app.do(t, http.MethodPost, "/api/constructor/confirm", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("three days: expected status 201, got %d", w.Code)
	}
	var created OrderCreatedResponse
	decode(t, w, &created)
	if created.OrderID == "" {
		t.Error("expected an order id")
	}

	pick("monday")
	pick("tuesday")
	pick("wednesday")
	if w := app.do(t, http.MethodPost, "/api/constructor/confirm", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat confirm: expected status 429, got %d", w.Code)
	}

	var view service.CartView
	decode(t, app.do(t, http.MethodGet, "/api/cart", nil), &view)
	if len(view.Orders) != 1 || view.Orders[0].Name != service.ConstructorOrderName {
		t.Errorf("expected one constructor order, got %+v", view.Orders)
	}
}

func TestConstructorUnknownDish(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"unknown dish", http.MethodPut, "/api/constructor/monday/42", http.StatusNotFound},
		{"invalid day", http.MethodPut, "/api/constructor/funday/1", http.StatusBadRequest},
		{"invalid dish id", http.MethodPost, "/api/constructor/monday/x/toggle", http.StatusBadRequest},
		{"toggle", http.MethodPost, "/api/constructor/monday/2/toggle", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, tt.method, tt.path, map[string]bool{"active": true})
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestStandardMenu(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPut, "/api/standard/monday/slots/dinnerdish", map[string]int{"tier": 1200, "dishId": 4})
	if w.Code != http.StatusBadRequest {
		t.Errorf("dish outside the slot: expected status 400, got %d", w.Code)
	}
	w = app.do(t, http.MethodPut, "/api/standard/monday/slots/dinnerdish", map[string]int{"tier": 1200, "dishId": 3})
	if w.Code != http.StatusNoContent {
		t.Fatalf("valid choice: expected status 204, got %d", w.Code)
	}

	var view service.DayMenuView
	decode(t, app.do(t, http.MethodGet, "/api/standard/1200/monday", nil), &view)
	if view.Slots[1].Chosen != 3 {
		t.Errorf("expected dish 3 chosen, got %d", view.Slots[1].Chosen)
	}

	w = app.do(t, http.MethodPost, "/api/standard/1200/confirm", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("confirm: expected status 201, got %d", w.Code)
	}

	var cartView service.CartView
	decode(t, app.do(t, http.MethodGet, "/api/cart", nil), &cartView)
	if cartView.TotalPrice != 3*420 {
		t.Errorf("expected total price %d, got %d", 3*420, cartView.TotalPrice)
	}
}

func TestCartLines(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"dishId": "1", "day": "fri"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add: expected status 201, got %d", w.Code)
	}
	var view service.CartView
	decode(t, w, &view)
	if len(view.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(view.Orders))
	}
	linePath := fmt.Sprintf("/api/cart/orders/%s/lines/1/friday", view.Orders[0].ID)

	tests := []struct {
		name     string
		body     string
		quantity int
	}{
		{"typed quantity", `{"quantity": "4 pcs"}`, 4},
		{"unparseable quantity", `{"quantity": "abc"}`, 1},
		{"numeric quantity", `{"quantity": 7}`, 7},
		{"delta", `{"delta": -10}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPut, linePath, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var view service.CartView
			decode(t, w, &view)
			if got := view.Orders[0].Lines[0].Quantity; got != tt.quantity {
				t.Errorf("expected quantity %d, got %d", tt.quantity, got)
			}
		})
	}

	if w := app.do(t, http.MethodPut, linePath, `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty update: expected status 400, got %d", w.Code)
	}

	w = app.do(t, http.MethodDelete, linePath, nil)
	decode(t, w, &view)
	if !view.Empty {
		t.Error("removing the last line should remove the order")
	}

	if w := app.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"dishId": 999, "day": "monday"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown dish: expected status 404, got %d", w.Code)
	}
}

func TestCheckoutSubmit(t *testing.T) {
	app := newTestApp(t)

	customer := models.Customer{
		FirstName: "Anna", LastName: "Shevchenko", Phone: "+380501112233", Email: "anna@example.com",
		Street: "Khreshchatyk", House: "22", Floor: "3", Apartment: "5",
	}

	w := app.do(t, http.MethodPost, "/api/checkout", checkout.Request{Customer: customer, PaymentMethod: "cash"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty cart: expected status 400, got %d", w.Code)
	}

	app.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"dishId": 2, "day": "monday"})

	w = app.do(t, http.MethodPost, "/api/checkout", checkout.Request{Customer: models.Customer{FirstName: "Anna"}, PaymentMethod: "cash"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank fields: expected status 422, got %d", w.Code)
	}
	var errResp ErrorResponse
	decode(t, w, &errResp)
	if len(errResp.Fields) != 7 {
		t.Errorf("expected 7 invalid fields, got %d", len(errResp.Fields))
	}

	w = app.do(t, http.MethodPost, "/api/checkout", checkout.Request{Customer: customer, PaymentMethod: "cash"})
	if w.Code != http.StatusOK {
		t.Fatalf("cash order: expected status 200, got %d", w.Code)
	}
	var outcome checkout.Outcome
	decode(t, w, &outcome)
	if outcome.Mode != checkout.MethodCash || outcome.NavigateTo != "/" {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if !app.backend.called("/order/notify") {
		t.Error("expected the order notification to reach the backend")
	}

	var view service.CartView
	decode(t, app.do(t, http.MethodGet, "/api/cart", nil), &view)
	if !view.Empty {
		t.Error("cart should be cleared after a successful order")
	}
}

func TestCheckoutOnlineWithoutLink(t *testing.T) {
	app := newTestApp(t)
	app.backend.routes["/payment/invoice"] = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"invoiceId": "inv-1"}`))
	}

	app.do(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"dishId": 2, "day": "monday"})
	w := app.do(t, http.MethodPost, "/api/checkout", checkout.Request{
		Customer: models.Customer{
			FirstName: "Anna", LastName: "Shevchenko", Phone: "1", Email: "anna@example.com",
			Street: "Khreshchatyk", House: "22", Floor: "3", Apartment: "5",
		},
		PaymentMethod: "online",
	})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}

	var view service.CartView
	decode(t, app.do(t, http.MethodGet, "/api/cart", nil), &view)
	if view.Empty {
		t.Error("cart must stay intact when no payment link is returned")
	}
}

func TestAuthAndProfile(t *testing.T) {
	app := newTestApp(t)
	app.backend.routes["/user/login"] = func(w http.ResponseWriter, r *http.Request) {
		var req backend.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "Wrong email or password"}`))
			return
		}
		w.Write([]byte(`{"userId": 7}`))
	}
	app.backend.routes["/user/info/7"] = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"firstName": "Anna", "email": "anna@example.com", "entrance": 3}`))
	}

	if w := app.do(t, http.MethodGet, "/api/profile", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("signed out: expected status 401, got %d", w.Code)
	}

	w := app.do(t, http.MethodPost, "/api/auth/login", service.LoginInput{Email: "anna@example.com", Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: expected status 401, got %d", w.Code)
	}

	if w := app.do(t, http.MethodPost, "/api/auth/login", service.LoginInput{Email: "anna@example.com"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing password: expected status 400, got %d", w.Code)
	}

	w = app.do(t, http.MethodPost, "/api/auth/login", service.LoginInput{Email: "anna@example.com", Password: "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected status 200, got %d", w.Code)
	}
	var status service.AuthStatus
	decode(t, w, &status)
	if !status.Authenticated || status.UserID != "7" || status.DisplayName != "anna" {
		t.Errorf("unexpected status %+v", status)
	}

	w = app.do(t, http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected status 200, got %d", w.Code)
	}
	var profile models.Profile
	decode(t, w, &profile)
	if profile.FirstName != "Anna" || profile.Entrance != "3" {
		t.Errorf("unexpected profile %+v", profile)
	}

	var form models.Customer
	decode(t, app.do(t, http.MethodGet, "/api/checkout/form", nil), &form)
	if form.FirstName != "Anna" || form.Floor != "3" {
		t.Errorf("form should be prefilled from the profile, got %+v", form)
	}

	if w := app.do(t, http.MethodPost, "/api/auth/logout", nil); w.Code != http.StatusNoContent {
		t.Errorf("logout: expected status 204, got %d", w.Code)
	}
	if app.session.IsAuthenticated() {
		t.Error("session should be signed out")
	}
}

func TestFavorites(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"add", http.MethodPut, "/api/favorites/3", http.StatusNoContent},
		{"add another", http.MethodPut, "/api/favorites/1", http.StatusNoContent},
		{"unknown dish", http.MethodPut, "/api/favorites/999", http.StatusNotFound},
		{"invalid id", http.MethodDelete, "/api/favorites/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := app.do(t, tt.method, tt.path, nil); w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	var view service.FavoritesView
	decode(t, app.do(t, http.MethodGet, "/api/favorites", nil), &view)
	if len(view.Dishes) != 2 || view.Dishes[0].ID != 1 {
		t.Errorf("expected dishes 1 and 3, got %+v", view.Dishes)
	}
	if view.Nutrition.Calories != 165+250 {
		t.Errorf("expected %d kcal, got %d", 165+250, view.Nutrition.Calories)
	}
	if app.backend.called("/user/favorite/add") {
		t.Error("signed-out hearts must not reach the backend")
	}

	app.do(t, http.MethodDelete, "/api/favorites", nil)
	decode(t, app.do(t, http.MethodGet, "/api/favorites", nil), &view)
	if len(view.Dishes) != 0 {
		t.Errorf("expected no favorites after clear, got %d", len(view.Dishes))
	}
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"dish not found", fmt.Errorf("lookup: %w", repository.ErrDishNotFound), http.StatusNotFound},
		{"min days", &selection.MinDaysError{Required: 3, Missing: 1}, http.StatusUnprocessableEntity},
		{"validation", &checkout.ValidationError{Fields: []checkout.FieldError{{Field: "phone"}}}, http.StatusUnprocessableEntity},
		{"cooldown", service.ErrTooManyRequests, http.StatusTooManyRequests},
		{"signed out", session.ErrNotAuthenticated, http.StatusUnauthorized},
		{"empty cart", service.ErrEmptyCart, http.StatusBadRequest},
		{"bad day", models.ErrInvalidDay, http.StatusBadRequest},
		{"partial profile", &service.ProfileUpdateError{Failed: []string{"address"}, Err: errors.New("boom")}, http.StatusBadGateway},
		{"no payment link", checkout.ErrNoPaymentURL, http.StatusBadGateway},
		{"backend rejected", fmt.Errorf("%w: %w", service.ErrUpstream, &backend.APIError{StatusCode: 409, Message: "exists"}), http.StatusConflict},
		{"backend down", fmt.Errorf("%w: %w", service.ErrUpstream, &backend.APIError{StatusCode: 503}), http.StatusBadGateway},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if body.Error == "" {
				t.Error("expected error message")
			}
		})
	}
}
