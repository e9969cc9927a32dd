package cart

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/diet-storefront/internal/models"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
)

// Remote is the account-side mirror of the cart
type Remote interface {
	SaveCart(ctx context.Context, userID string, cart models.Cart) error
	ClearCart(ctx context.Context, userID string) error
	// FetchCart returns the raw stored payload so its shape can be checked
	FetchCart(ctx context.Context, userID string) ([]byte, error)
}

// SyncPush mirrors the current cart to the account in the background
func (m *Manager) SyncPush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedulePush()
}

// schedulePush starts a best-effort push of the current cart; an empty cart
// is sent as a clear. Pushes run one at a time, and a push superseded by a
// newer snapshot before it starts is skipped, so the mirror never moves
// backwards. Callers hold m.mu.
func (m *Manager) schedulePush() {
	if m.remote == nil || m.identity == nil || !m.identity.IsAuthenticated() {
		return
	}
	userID, _ := m.identity.UserID()
	snapshot := m.cart.Clone()
	seq := m.pushSeq.Add(1)

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		m.pushMu.Lock()
		defer m.pushMu.Unlock()
		defer func() {
			if seq > m.pushDone.Load() {
				m.pushDone.Store(seq)
			}
		}()

		if m.pushSeq.Load() != seq {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.syncTimeout)
		defer cancel()

		var err error
		if len(snapshot.Orders) == 0 {
			err = m.remote.ClearCart(ctx, userID)
		} else {
			err = m.remote.SaveCart(ctx, userID, snapshot)
		}
		if err != nil {
			m.logger.Warn("cart sync push failed", "user_id", userID, "error", err)
			return
		}
		m.logger.Debug("cart synced", "user_id", userID, "orders", len(snapshot.Orders))
	}()
}

// SyncPull replaces the local cart with the account's copy. A payload without
// an order list, or any fetch error, leaves the local cart untouched. Pushes
// still pending from the old cart never overwrite the adopted one.
func (m *Manager) SyncPull(ctx context.Context) error {
	if m.remote == nil {
		return nil
	}
	if m.identity == nil || !m.identity.IsAuthenticated() {
		return session.ErrNotAuthenticated
	}
	userID, _ := m.identity.UserID()

	raw, err := m.remote.FetchCart(ctx, userID)
	if err != nil {
		m.logger.Warn("cart sync pull failed", "user_id", userID, "error", err)
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	remote, err := models.DecodeCart(raw)
	if err != nil {
		m.logger.Info("ignoring remote cart", "user_id", userID, "error", err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// pushes queued before the pull carry the replaced cart and are skipped
	stale := m.pushSeq.Load() != m.pushDone.Load()
	m.cart = remote
	if err := m.store.Set(storage.KeyCart, m.cart); err != nil {
		m.logger.Error("failed to persist cart", "error", err)
	}
	if stale {
		// an in-flight push may land after the fetch; mirror the adopted cart after it
		m.schedulePush()
	}
	return nil
}

// Wait blocks until every scheduled push has finished
func (m *Manager) Wait() {
	m.pending.Wait()
}
