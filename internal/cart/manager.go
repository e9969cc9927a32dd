// Package cart is the order aggregation engine: it turns confirmed dish
// selections into priced, multi-day orders, keeps them persisted after every
// mutation and mirrors them to the user's account when signed in.
package cart

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

const defaultSyncTimeout = 5 * time.Second

// Identity reports who is signed in
type Identity interface {
	UserID() (string, bool)
	IsAuthenticated() bool
}

// Manager owns the cart. Every mutation is applied under a lock and persisted
// before it returns; mutations on unknown orders, dishes or days are no-ops.
type Manager struct {
	mu       sync.Mutex
	cart     models.Cart
	store    storage.Store
	identity Identity
	remote   Remote
	logger   *slog.Logger

	now         func() time.Time
	newID       func() string
	syncTimeout time.Duration

	pushMu   sync.Mutex
	pushSeq  atomic.Uint64
	pushDone atomic.Uint64 // last push sequence that finished or was skipped
	pending  sync.WaitGroup
}

// NewManager loads the cart from store. A missing or unreadable cart starts empty.
// remote may be nil, which disables mirroring.
func NewManager(store storage.Store, identity Identity, remote Remote, logger *slog.Logger) *Manager {
	m := &Manager{
		store:       store,
		identity:    identity,
		remote:      remote,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
		syncTimeout: defaultSyncTimeout,
	}
	m.cart = m.load()
	return m
}

// SetSyncTimeout bounds each remote round trip
func (m *Manager) SetSyncTimeout(d time.Duration) {
	if d > 0 {
		m.syncTimeout = d
	}
}

func (m *Manager) load() models.Cart {
	var raw json.RawMessage
	ok, err := m.store.Get(storage.KeyCart, &raw)
	if err != nil {
		m.logger.Warn("stored cart is unreadable, starting empty", "error", err)
		return models.NewCart()
	}
	if !ok {
		return models.NewCart()
	}
	cart, err := models.DecodeCart(raw)
	if err != nil {
		m.logger.Warn("stored cart is malformed, starting empty", "error", err)
		return models.NewCart()
	}
	return cart
}

// persist writes the cart and schedules a remote push. Callers hold m.mu.
func (m *Manager) persist() {
	if err := m.store.Set(storage.KeyCart, m.cart); err != nil {
		m.logger.Error("failed to persist cart", "error", err)
	}
	m.schedulePush()
}

// AddOrder appends an order built from lines and returns its id. Empty input
// is ignored and returns "". Lines repeating a (dish, day) pair are merged by
// adding their quantities; quantities below 1 count as 1.
func (m *Manager) AddOrder(lines []models.OrderLine, name string, price int) string {
	if len(lines) == 0 {
		return ""
	}

	merged := make([]models.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		if l.DayName == "" {
			l.DayName = l.Day.Name()
		}
		if i := indexOf(merged, l.ID, l.Day); i >= 0 {
			merged[i].Quantity += l.Quantity
			continue
		}
		merged = append(merged, l)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Order #%d", len(m.cart.Orders)+1)
	}
	if price < 0 {
		price = 0
	}
	order := models.Order{
		ID:    fmt.Sprintf("order_%d_%s", m.now().UnixMilli(), m.newID()),
		Name:  name,
		Lines: merged,
		Price: price,
	}
	m.cart.Orders = append(m.cart.Orders, order)
	m.persist()

	m.logger.Debug("order added", "order_id", order.ID, "lines", len(merged), "price", price)
	return order.ID
}

// AddItem adds a single dish for one day as its own unpriced order
func (m *Manager) AddItem(dish models.Dish, day models.Day) string {
	title := dish.Title
	if title == "" {
		title = "Untitled"
	}
	return m.AddOrder([]models.OrderLine{models.NewOrderLine(dish, day)}, "Single dish: "+title, 0)
}

// UpdateQuantity sets a line's quantity, clamped to at least 1
func (m *Manager) UpdateQuantity(orderID string, dishID models.DishID, day models.Day, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := m.line(orderID, dishID, day)
	if line == nil {
		return
	}
	line.Quantity = clamp(quantity)
	m.persist()
}

// ChangeQuantity adds delta to a line's quantity, clamped to at least 1
func (m *Manager) ChangeQuantity(orderID string, dishID models.DishID, day models.Day, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line := m.line(orderID, dishID, day)
	if line == nil {
		return
	}
	line.Quantity = clamp(line.Quantity + delta)
	m.persist()
}

// RemoveDish drops one line. An order left without lines is removed too.
func (m *Manager) RemoveDish(orderID string, dishID models.DishID, day models.Day) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oi := m.orderIndex(orderID)
	if oi < 0 {
		return
	}
	order := &m.cart.Orders[oi]
	li := indexOf(order.Lines, dishID, day)
	if li < 0 {
		return
	}
	order.Lines = append(order.Lines[:li], order.Lines[li+1:]...)
	if len(order.Lines) == 0 {
		m.cart.Orders = append(m.cart.Orders[:oi], m.cart.Orders[oi+1:]...)
	}
	m.persist()
}

// RemoveOrder drops an order; unknown ids are ignored
func (m *Manager) RemoveOrder(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oi := m.orderIndex(orderID)
	if oi < 0 {
		return
	}
	m.cart.Orders = append(m.cart.Orders[:oi], m.cart.Orders[oi+1:]...)
	m.persist()
}

// Clear empties the cart. The empty cart is always mirrored when signed in.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart = models.NewCart()
	m.persist()
}

// Orders returns a copy of the current orders
func (m *Manager) Orders() []models.Order {
	return m.Snapshot().Orders
}

// Snapshot returns a deep copy of the cart
func (m *Manager) Snapshot() models.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

// IsEmpty reports whether the cart holds no orders
func (m *Manager) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cart.Orders) == 0
}

// Summary is a cart copy with its totals, all taken from the same state
type Summary struct {
	Cart          models.Cart
	Macros        models.Macros
	TotalCalories int
	TotalPrice    int
}

// Summary computes the snapshot and every total under one lock
func (m *Manager) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summary{
		Cart:          m.cart.Clone(),
		Macros:        m.totalMacros(),
		TotalCalories: m.totalCalories(),
		TotalPrice:    m.totalPrice(),
	}
}

// TotalMacros sums nutrient grams times quantity over every line, unrounded
func (m *Manager) TotalMacros() models.Macros {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalMacros()
}

// TotalCalories sums exact per-line calories times quantity and rounds once
func (m *Manager) TotalCalories() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalCalories()
}

// TotalPrice sums order prices; line counts and quantities do not matter
func (m *Manager) TotalPrice() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalPrice()
}

func (m *Manager) totalMacros() models.Macros {
	var total models.Macros
	for _, o := range m.cart.Orders {
		for _, l := range o.Lines {
			total = total.Add(l.Dish, l.Quantity)
		}
	}
	return total
}

func (m *Manager) totalCalories() int {
	var kcal float64
	for _, o := range m.cart.Orders {
		for _, l := range o.Lines {
			kcal += l.Calories() * float64(l.Quantity)
		}
	}
	return int(math.Round(kcal))
}

func (m *Manager) totalPrice() int {
	total := 0
	for _, o := range m.cart.Orders {
		total += o.Price
	}
	return total
}

func (m *Manager) orderIndex(orderID string) int {
	for i, o := range m.cart.Orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}

func (m *Manager) line(orderID string, dishID models.DishID, day models.Day) *models.OrderLine {
	oi := m.orderIndex(orderID)
	if oi < 0 {
		return nil
	}
	lines := m.cart.Orders[oi].Lines
	li := indexOf(lines, dishID, day)
	if li < 0 {
		return nil
	}
	return &lines[li]
}

func indexOf(lines []models.OrderLine, dishID models.DishID, day models.Day) int {
	for i, l := range lines {
		if l.Matches(dishID, day) {
			return i
		}
	}
	return -1
}

func clamp(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// ParseQuantity reads user-typed quantity input. Leading digits are used
// ("3 pcs" is 3); anything unusable or below 1 becomes 1.
func ParseQuantity(input string) int {
	s := strings.TrimSpace(input)
	end := 0
	if end < len(s) && (s[0] == '-' || s[0] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 1
	}
	return clamp(n)
}
