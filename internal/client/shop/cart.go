package shop

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/api"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// refreshTimeout caps a coalesced cart read once it is detached from its callers.
const refreshTimeout = 15 * time.Second

// Refresh replaces the cart view with the server's. It may run alongside a
// mutation; concurrent refreshes share one request.
func (m *Manager) Refresh(ctx context.Context) error {

	m.stateMu.RLock()
	sess, client := m.sess, m.client
	m.stateMu.RUnlock()

	if sess == nil {
		return nil
	}

	if client == nil {
		return &api.Error{Kind: api.KindUnreachable, Message: "Offline mode"}
	}

	// The shared read outlives any one caller; each caller only stops waiting.
	ch := m.refreshes.DoChan("cart", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		if err := m.fetchCart(fetchCtx, client); err != nil {
			return nil, m.fail(err, "Error", fetchMessage)
		}
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// fetchCart reads the cart and applies it unless a later read has already
// landed or the session changed while it was in flight.
func (m *Manager) fetchCart(ctx context.Context, client *api.Client) error {

	m.stateMu.RLock()
	gen := m.gen
	m.stateMu.RUnlock()

	seq := m.seq.Add(1)

	lines, err := client.GetCart(ctx)
	if err != nil {
		return err
	}

	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if gen != m.gen || m.sess == nil {
		m.logger.Debug("Discarding cart response from a previous session", slog.Uint64("seq", seq))
		return nil
	}

	if seq < m.applied {
		m.logger.Debug("Discarding stale cart response", slog.Uint64("seq", seq), slog.Uint64("applied", m.applied))
		return nil
	}

	m.applied = seq
	m.lines = lines
	m.state = StateSynced

	return nil
}

// mutate runs one server-side cart change and its refetch under mu. A failed
// refetch leaves the change in place and the view STALE.
func (m *Manager) mutate(ctx context.Context, action, failMessage string, call func(*api.Client) error) error {

	client, err := m.requireSession(action)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := call(client); err != nil {
		return m.fail(err, "Error", failMessage)
	}

	if err := m.fetchCart(ctx, client); err != nil {
		_ = m.fail(err, "Error", fetchMessage)
	}

	return nil
}

// AddItem adds qty of productID in size, merging with an existing line.
// qty below 1 means 1.
func (m *Manager) AddItem(ctx context.Context, productID uuid.UUID, size string, qty int) error {

	if qty < 1 {
		qty = 1
	}

	return m.mutate(ctx, "add items to your cart", "Failed to add item to cart. Please try again.", func(c *api.Client) error {
		_, err := c.AddToCart(ctx, &models.AddToCartRequest{ProductID: productID, Size: size, Quantity: qty})
		return err
	})
}

// SetQuantity sets a line's quantity. Going below 1 asks the Confirmer: yes
// removes the line, no keeps it at 1.
func (m *Manager) SetQuantity(ctx context.Context, lineID uuid.UUID, qty int) error {

	if qty < 1 {
		if _, err := m.requireSession("update your cart"); err != nil {
			return err
		}

		if m.confirmer != nil && m.confirmer.Confirm(ctx, "Remove Item", "Remove this item from your cart?") {
			return m.RemoveItem(ctx, lineID)
		}

		qty = 1
	}

	return m.mutate(ctx, "update your cart", "Failed to update quantity", func(c *api.Client) error {
		_, err := c.UpdateCart(ctx, &models.UpdateCartRequest{ItemID: lineID, Quantity: qty})
		return err
	})
}

// RemoveItem deletes a line. A line the server no longer has counts as removed.
func (m *Manager) RemoveItem(ctx context.Context, lineID uuid.UUID) error {
	return m.mutate(ctx, "update your cart", "Failed to delete item", func(c *api.Client) error {
		err := c.RemoveFromCart(ctx, lineID)
		if api.KindOf(err) == api.KindNotFound {
			m.logger.Debug("Cart line already gone", slog.String("lineId", lineID.String()))
			return nil
		}
		return err
	})
}

// Amount is the sum of quantity times catalog price over the cart. Lines whose
// product is not in the snapshot count as zero.
func (m *Manager) Amount() decimal.Decimal {

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	amount := decimal.Zero

	for _, line := range m.lines {
		if line.Quantity < 1 {
			continue
		}

		product, ok := m.products[line.ProductID]
		if !ok || product.Price.IsNegative() {
			continue
		}

		amount = amount.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return amount
}

// Total adds the delivery fee to a non-empty Amount.
func (m *Manager) Total() decimal.Decimal {

	amount := m.Amount()
	if !amount.IsPositive() {
		return decimal.Zero
	}

	return amount.Add(m.fee)
}

func (m *Manager) Count() int {

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	count := 0
	for _, line := range m.lines {
		if line.Quantity > 0 {
			count += line.Quantity
		}
	}

	return count
}

func (m *Manager) DeliveryFee() decimal.Decimal {
	return m.fee
}
