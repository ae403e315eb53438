package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils"
	"github.com/google/uuid"
)

// CartRepository stores cart lines. Every method is scoped by user id, so a
// line id belonging to another user behaves exactly like a missing one.
type CartRepository interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	UpsertLine(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartLine, error)
	RemoveLine(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, size, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	defer rows.Close()

	lines := make([]models.CartLine, 0)

	for rows.Next() {
		line := models.CartLine{UserID: userID}
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Size, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart lines: %w", err)
	}

	return lines, nil
}

// UpsertLine adds line.Quantity to the (user, product, size) line, creating it
// if needed. On return line holds the stored id and resulting quantity.
func (r *cartRepository) UpsertLine(ctx context.Context, line *models.CartLine) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (user_id, product_id, size, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, line.UserID, line.ProductID, line.Size, line.Quantity).
		Scan(&line.ID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	return nil
}

// UpdateQuantity returns sql.ErrNoRows when the user owns no such line.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, product_id, size, quantity, created_at, updated_at
	`

	line := &models.CartLine{UserID: userID}

	err := r.DB.QueryRowContext(dbCtx, query, quantity, itemID, userID).
		Scan(&line.ID, &line.ProductID, &line.Size, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return line, nil
}

// RemoveLine returns sql.ErrNoRows when the user owns no such line.
func (r *cartRepository) RemoveLine(ctx context.Context, userID, itemID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return result.RowsAffected()
}
