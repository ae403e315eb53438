package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-sync/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type productService struct {
	repo       repository.ProductRepository
	cache      cache.Cache
	catalogTTL time.Duration
	productTTL time.Duration
	loads      singleflight.Group
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, catalogTTL, productTTL time.Duration) ProductService {
	return &productService{repo: repo, cache: c, catalogTTL: catalogTTL, productTTL: productTTL}
}

// ListProducts serves the whole catalog from Redis, loading it from Postgres on
// a miss. Concurrent misses share one database read.
func (s *productService) ListProducts(ctx context.Context) ([]*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)

	var products []*models.Product

	hit, err := s.cache.Get(ctx, cache.CatalogKey, &products)
	if err != nil {
		logger.Warn("Catalog cache read failed", slog.String("error", err.Error()))
	}

	metrics.RecordCatalogCache(hit)

	if hit {
		return products, nil
	}

	v, err, _ := s.loads.Do(cache.CatalogKey, func() (any, error) {

		loaded, err := s.repo.ListProducts(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, cache.CatalogKey, loaded, s.catalogTTL); err != nil {
			logger.Warn("Catalog cache write failed", slog.String("error", err.Error()))
		}

		return loaded, nil
	})
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	return v.([]*models.Product), nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var product models.Product

	hit, err := s.cache.Get(ctx, key, &product)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if hit {
		return &product, nil
	}

	found, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to get product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, found, s.productTTL); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return found, nil
}
