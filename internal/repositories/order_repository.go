package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrEmptyCart is returned by CommitCart when the user has no lines left to claim.
var ErrEmptyCart = errors.New("cart has no lines to commit")

// BuildOrderFunc prices the claimed lines against the products resolved in the
// same transaction. Missing products are absent from the map. Returning an
// error aborts the commit and puts the lines back.
type BuildOrderFunc func(lines []models.CartLine, products map[uuid.UUID]*models.Product) (*models.Order, error)

type OrderRepository interface {
	CommitCart(ctx context.Context, userID uuid.UUID, build BuildOrderFunc) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CommitCart claims and clears the user's cart and inserts the order built
// from it in a single transaction. Two concurrent commits for one user cannot
// both see the same lines: the loser finds the cart empty.
func (r *orderRepository) CommitCart(ctx context.Context, userID uuid.UUID, build BuildOrderFunc) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var order *models.Order

	err := withTx(dbCtx, r.DB, func(tx *sql.Tx) error {

		lines, err := claimCart(dbCtx, tx, userID)
		if err != nil {
			return err
		}

		if len(lines) == 0 {
			return ErrEmptyCart
		}

		products, err := lockProducts(dbCtx, tx, lines)
		if err != nil {
			return err
		}

		order, err = build(lines, products)
		if err != nil {
			return err
		}

		return insertOrder(dbCtx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func claimCart(ctx context.Context, tx *sql.Tx, userID uuid.UUID) ([]models.CartLine, error) {

	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
		RETURNING id, product_id, size, quantity, created_at, updated_at
	`

	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim cart: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine

	for rows.Next() {
		line := models.CartLine{UserID: userID}
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Size, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claimed line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claimed lines: %w", err)
	}

	return lines, nil
}

// lockProducts reads the current price of every product in the claim, holding
// a share lock so a concurrent price change cannot slip between read and commit.
func lockProducts(ctx context.Context, tx *sql.Tx, lines []models.CartLine) (map[uuid.UUID]*models.Product, error) {

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID.String())
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[]) FOR SHARE`

	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*models.Product, len(ids))

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {

	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, shipping_address, payment_method, payment_status, status, subtotal, delivery_fee, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query, order.ID, order.UserID, shippingAddress, order.PaymentMethod, order.PaymentStatus,
		order.Status, order.Subtotal, order.DeliveryFee, order.TotalAmount).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, size, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, item.ID, order.ID, item.ProductID, item.Name, item.Size, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, user_id, shipping_address, payment_method, payment_status, status, subtotal, delivery_fee, total_amount, created_at, updated_at`

func scanOrder(row rowScanner) (*models.Order, error) {

	order := &models.Order{}

	var shippingAddress []byte

	err := row.Scan(&order.ID, &order.UserID, &shippingAddress, &order.PaymentMethod, &order.PaymentStatus, &order.Status,
		&order.Subtotal, &order.DeliveryFee, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shippingAddress, &order.ShippingAddress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	return order, nil
}

// GetOrderByID returns sql.ErrNoRows when the user owns no such order.
func (r *orderRepository) GetOrderByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, orderID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.itemsFor(dbCtx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}

	order.Items = items[order.ID]

	return order, nil
}

// ListOrdersByUser pages through the user's orders, newest first.
func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	ids := make([]uuid.UUID, 0)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, total, nil
	}

	items, err := r.itemsFor(dbCtx, ids)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, total, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {

	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, order_id, product_id, name, size, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Size, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order items: %w", err)
	}

	return items, nil
}

// CancelOrder moves a PENDING or PROCESSING order to CANCELLED. It returns
// sql.ErrNoRows when the user owns no such order or it is past cancellation.
func (r *orderRepository) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status IN ($4, $5)
	`

	result, err := r.DB.ExecContext(dbCtx, query, models.OrderStatusCancelled, orderID, userID,
		models.OrderStatusPending, models.OrderStatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return sql.ErrNoRows
	}

	return nil
}
