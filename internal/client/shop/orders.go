package shop

import (
	"context"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/api"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/google/uuid"
)

// Checkout asks the server to turn the cart into an order. The displayed
// total travels along for reference only; the server prices the order itself.
// The cart view is refetched afterwards whatever the outcome, since the
// server cart is the truth either way.
func (m *Manager) Checkout(ctx context.Context, address models.ShippingAddress, method models.PaymentMethod) (*models.CreateOrderResponse, error) {

	client, err := m.requireSession("place an order")
	if err != nil {
		return nil, err
	}

	if method == "" {
		method = models.PaymentMethodCOD
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.Total()
	fee := m.fee

	resp, err := client.CreateOrder(ctx, &models.CreateOrderRequest{
		ShippingAddress: address,
		PaymentMethod:   method,
		TotalAmount:     &total,
		ShippingFee:     &fee,
	})
	if err != nil {
		err = m.fail(err, "Order Failed", "Failed to place order. Please try again.")
		if api.KindOf(err) != api.KindSessionExpired && api.KindOf(err) != api.KindUnreachable {
			_ = m.fetchCart(ctx, client)
		}
		return nil, err
	}

	if err := m.fetchCart(ctx, client); err != nil {
		_ = m.fail(err, "Error", fetchMessage)
	}

	return resp, nil
}

func (m *Manager) Orders(ctx context.Context, page, size int) (*api.OrderPage, error) {

	client, err := m.requireSession("view your orders")
	if err != nil {
		return nil, err
	}

	orders, err := client.ListOrders(ctx, page, size)
	if err != nil {
		return nil, m.fail(err, "Error", "Failed to load orders. Please try again later.")
	}

	return orders, nil
}

func (m *Manager) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {

	client, err := m.requireSession("cancel an order")
	if err != nil {
		return nil, err
	}

	order, err := client.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, m.fail(err, "Cancel Failed", "Failed to cancel order. Please try again.")
	}

	return order, nil
}
