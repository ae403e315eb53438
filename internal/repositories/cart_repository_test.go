package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCartRepo(db)
	ctx := t.Context()
	userID := uuid.New()
	lineColumns := []string{"id", "product_id", "size", "quantity", "created_at", "updated_at"}

	t.Run("GetCart", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			lineID, productID := uuid.New(), uuid.New()
			now := time.Now()
			rows := sqlmock.NewRows(lineColumns).AddRow(lineID.String(), productID.String(), "M", 2, now, now)

			mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items")).WithArgs(userID).WillReturnRows(rows)

			// Act
			lines, err := repo.GetCart(ctx, userID)

			// Assert
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, lineID, lines[0].ID)
			assert.Equal(t, userID, lines[0].UserID)
			assert.Equal(t, 2, lines[0].Quantity)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success - Empty cart is an empty slice", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items")).WithArgs(userID).WillReturnRows(sqlmock.NewRows(lineColumns))

			// Act
			lines, err := repo.GetCart(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.NotNil(t, lines)
			assert.Empty(t, lines)
		})
	})

	t.Run("UpsertLine", func(t *testing.T) {
		t.Run("Success - Merges into existing line", func(t *testing.T) {
			// Arrange
			line := &models.CartLine{UserID: userID, ProductID: uuid.New(), Size: "L", Quantity: 1}
			lineID := uuid.New()
			now := time.Now()

			mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, product_id, size)")).
				WithArgs(userID, line.ProductID, "L", 1).
				WillReturnRows(sqlmock.NewRows([]string{"id", "quantity", "created_at", "updated_at"}).
					AddRow(lineID.String(), 3, now, now))

			// Act
			err := repo.UpsertLine(ctx, line)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, lineID, line.ID)
			assert.Equal(t, 3, line.Quantity)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - DB error", func(t *testing.T) {
			// Arrange
			line := &models.CartLine{UserID: userID, ProductID: uuid.New(), Size: "L", Quantity: 1}
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items")).WillReturnError(errors.New("boom"))

			// Act
			err := repo.UpsertLine(ctx, line)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to upsert cart line")
		})
	})

	t.Run("UpdateQuantity", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			itemID, productID := uuid.New(), uuid.New()
			now := time.Now()
			mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items")).
				WithArgs(4, itemID, userID).
				WillReturnRows(sqlmock.NewRows(lineColumns).AddRow(itemID.String(), productID.String(), "S", 4, now, now))

			// Act
			line, err := repo.UpdateQuantity(ctx, userID, itemID, 4)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 4, line.Quantity)
			assert.Equal(t, productID, line.ProductID)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Line not owned", func(t *testing.T) {
			// Arrange
			itemID := uuid.New()
			mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items")).
				WithArgs(2, itemID, userID).
				WillReturnError(sql.ErrNoRows)

			// Act
			line, err := repo.UpdateQuantity(ctx, userID, itemID, 2)

			// Assert
			assert.Nil(t, line)
			assert.ErrorIs(t, err, sql.ErrNoRows)
		})
	})

	t.Run("RemoveLine", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			itemID := uuid.New()
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE id = $1 AND user_id = $2")).
				WithArgs(itemID, userID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.RemoveLine(ctx, userID, itemID)

			// Assert
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Missing line", func(t *testing.T) {
			// Arrange
			itemID := uuid.New()
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE id = $1 AND user_id = $2")).
				WithArgs(itemID, userID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.RemoveLine(ctx, userID, itemID)

			// Assert
			assert.ErrorIs(t, err, sql.ErrNoRows)
		})
	})

	t.Run("ClearCart", func(t *testing.T) {
		// Arrange
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id = $1")).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		// Act
		cleared, err := repo.ClearCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(3), cleared)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
