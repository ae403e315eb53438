package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/events"
	"github.com/aaravmahajanofficial/storefront-sync/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-sync/pkg/sendgrid"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// postCommitTimeout bounds the best-effort work done after an order commits.
const postCommitTimeout = 10 * time.Second

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type OrderServiceConfig struct {
	DeliveryFee decimal.Decimal
	Currency    string
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	publisher events.Publisher
	mailer    sendgrid.EmailService
	policy    *bluemonday.Policy
	validator *validator.Validate
	cfg       OrderServiceConfig
}

// NewOrderService wires the commit path. mailer may be nil when email is not configured.
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, publisher events.Publisher,
	mailer sendgrid.EmailService, cfg OrderServiceConfig) OrderService {

	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		publisher: publisher,
		mailer:    mailer,
		policy:    bluemonday.StrictPolicy(),
		validator: validator.New(),
		cfg:       cfg,
	}
}

// CreateOrder commits the user's cart as an order. Prices and totals are
// always recomputed from the catalog; whatever total the client displayed is
// ignored.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	address := s.sanitizeAddress(req.ShippingAddress)

	// Markup-only fields sanitize to empty, so the stored value is what gets validated.
	if err := s.validator.Struct(address); err != nil {
		logger.Warn("Shipping address invalid after sanitizing", slog.String("error", err.Error()))
		return nil, addressError(err)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCOD
	}

	order, err := s.orderRepo.CommitCart(ctx, userID, func(lines []models.CartLine, products map[uuid.UUID]*models.Product) (*models.Order, error) {
		return s.buildOrder(userID, address, paymentMethod, lines, products)
	})
	if err != nil {
		return nil, s.commitError(err)
	}

	if req.TotalAmount != nil && !req.TotalAmount.Equal(order.TotalAmount) {
		logger.Info("Client total differs from committed total",
			slog.String("orderId", order.ID.String()),
			slog.String("clientTotal", req.TotalAmount.String()),
			slog.String("total", order.TotalAmount.String()))
	}

	metrics.RecordOrderCommitted(string(order.PaymentMethod))
	logger.Info("Order committed", slog.String("orderId", order.ID.String()), slog.Int("items", len(order.Items)))

	s.afterCommit(ctx, order)

	return order, nil
}

func (s *orderService) buildOrder(userID uuid.UUID, address models.ShippingAddress, method models.PaymentMethod,
	lines []models.CartLine, products map[uuid.UUID]*models.Product) (*models.Order, error) {

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: address,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		Items:           make([]models.OrderItem, 0, len(lines)),
		Subtotal:        decimal.Zero,
		DeliveryFee:     s.cfg.DeliveryFee,
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, appErrors.ProductNotFoundError(line.ProductID.String(), http.StatusBadRequest)
		}

		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})

		order.Subtotal = order.Subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order.TotalAmount = order.Subtotal.Add(order.DeliveryFee)

	return order, nil
}

func (s *orderService) commitError(err error) error {

	if errors.Is(err, repository.ErrEmptyCart) {
		metrics.RecordCheckoutFailure("empty_cart")
		return appErrors.EmptyCartError().WithError(err)
	}

	if appErr, ok := appErrors.IsAppError(err); ok {
		metrics.RecordCheckoutFailure("product_not_found")
		return appErr
	}

	metrics.RecordCheckoutFailure("database")

	return appErrors.DatabaseError("Failed to place order").WithError(err)
}

// afterCommit publishes the order event and mails the confirmation. Both are
// best effort: the order is already committed and failures are only logged.
func (s *orderService) afterCommit(ctx context.Context, order *models.Order) {

	logger := middleware.LoggerFromContext(ctx)

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(bg)

	g.Go(func() error {
		event := events.OrderCreated{
			OrderID:     order.ID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			CreatedAt:   order.CreatedAt,
		}
		if err := s.publisher.PublishOrderCreated(gctx, event); err != nil {
			logger.Warn("Failed to publish order event", slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
		}
		return nil
	})

	if s.mailer != nil {
		g.Go(func() error {
			user, err := s.userRepo.GetUserByID(gctx, order.UserID)
			if err != nil {
				logger.Warn("Failed to load user for confirmation email", slog.String("error", err.Error()))
				return nil
			}
			if err := s.mailer.SendOrderConfirmation(gctx, user.Email, user.Name, s.cfg.Currency, order); err != nil {
				logger.Warn("Failed to send confirmation email", slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (s *orderService) sanitizeAddress(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		Name:       s.clean(a.Name),
		Address:    s.clean(a.Address),
		City:       s.clean(a.City),
		State:      s.clean(a.State),
		PostalCode: s.clean(a.PostalCode),
		Country:    s.clean(a.Country),
		Phone:      s.clean(a.Phone),
		Email:      s.clean(a.Email),
	}
}

func (s *orderService) clean(v string) string {
	return strings.TrimSpace(s.policy.Sanitize(v))
}

func addressError(err error) *appErrors.AppError {

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		return appErrors.AddValidationError("shippingAddress."+first.Field(), first.Tag()).WithError(err)
	}

	return appErrors.ValidationError("Invalid shipping address").WithError(err)
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, total, nil
}

// CancelOrder is allowed only while the order is PENDING or PROCESSING.
func (s *orderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.Cancellable() {
		return nil, appErrors.BadRequestError("Cannot cancel order at this stage")
	}

	if err := s.orderRepo.CancelOrder(ctx, userID, orderID); err != nil {
		// The status moved on between the read and the conditional update.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.BadRequestError("Cannot cancel order at this stage").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to cancel order").WithError(err)
	}

	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	return order, nil
}
