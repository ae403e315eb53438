package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateCartRequest) (*models.CartLine, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {

	lines, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return lines, nil
}

// AddItem merges into the existing (product, size) line, so repeated adds
// never create duplicates.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddToCartRequest) (*models.CartLine, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ProductNotFoundError(req.ProductID.String(), http.StatusNotFound).WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if !product.HasSize(req.Size) {
		return nil, appErrors.AddValidationError("size", "size "+req.Size+" is not offered for this product")
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	line := &models.CartLine{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  quantity,
	}

	if err := s.cartRepo.UpsertLine(ctx, line); err != nil {
		return nil, appErrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	metrics.RecordCartMutation("add")

	return line, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateCartRequest) (*models.CartLine, error) {

	line, err := s.cartRepo.UpdateQuantity(ctx, userID, req.ItemID, req.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	metrics.RecordCartMutation("update")

	return line, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {

	if err := s.cartRepo.RemoveLine(ctx, userID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to remove item from cart").WithError(err)
	}

	metrics.RecordCartMutation("remove")

	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	if _, err := s.cartRepo.ClearCart(ctx, userID); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	metrics.RecordCartMutation("clear")

	return nil
}
