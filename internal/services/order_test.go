package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/events"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-sync/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-sync/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/pkg/sendgrid"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderCreated
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, e events.OrderCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	sendgrid.EmailService
	to    string
	order *models.Order
	err   error
}

func (m *recordingMailer) SendOrderConfirmation(_ context.Context, to, _, _ string, order *models.Order) error {
	m.to, m.order = to, order
	return m.err
}

func validOrderRequest() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		ShippingAddress: models.ShippingAddress{
			Name: "Jane <b>Doe</b>", Address: "1 Main St", City: "Springfield", State: "IL",
			PostalCode: "62701", Country: "US", Phone: "5551234567",
		},
	}
}

// commitWith makes the CommitCart mock run the service's build callback
// against the given claimed lines and catalog.
func commitWith(lines []models.CartLine, products map[uuid.UUID]*models.Product) func(context.Context, uuid.UUID, repository.BuildOrderFunc) (*models.Order, error) {
	return func(_ context.Context, _ uuid.UUID, build repository.BuildOrderFunc) (*models.Order, error) {
		return build(lines, products)
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	userID := uuid.New()
	cfg := service.OrderServiceConfig{DeliveryFee: decimal.NewFromInt(10), Currency: "$"}
	p1 := &models.Product{ID: uuid.New(), Name: "Shirt", Price: decimal.NewFromInt(100)}

	t.Run("Success - Uses current price and ignores client total", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		userRepo := mocks.NewUserRepository(t)
		publisher := &recordingPublisher{}
		mailer := &recordingMailer{}
		svc := service.NewOrderService(orderRepo, userRepo, publisher, mailer, cfg)

		req := validOrderRequest()
		clientTotal := decimal.NewFromInt(1)
		req.TotalAmount = &clientTotal

		lines := []models.CartLine{{ID: uuid.New(), ProductID: p1.ID, Size: "M", Quantity: 2}}
		orderRepo.On("CommitCart", mock.Anything, userID, mock.Anything).
			Return(commitWith(lines, map[uuid.UUID]*models.Product{p1.ID: p1}), nil).Once()
		userRepo.On("GetUserByID", mock.Anything, userID).
			Return(&models.User{ID: userID, Name: "Jane", Email: "jane@example.com"}, nil).Once()

		// Act
		order, err := svc.CreateOrder(t.Context(), userID, req)

		// Assert
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(200).Equal(order.Subtotal))
		assert.True(t, decimal.NewFromInt(210).Equal(order.TotalAmount))
		assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, "Jane Doe", order.ShippingAddress.Name)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].OrderID)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, order.ID, publisher.events[0].OrderID)
		assert.Equal(t, "jane@example.com", mailer.to)
		assert.Equal(t, order, mailer.order)
	})

	t.Run("Success - Side effect failures do not fail the order", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		userRepo := mocks.NewUserRepository(t)
		publisher := &recordingPublisher{err: errors.New("broker down")}
		mailer := &recordingMailer{err: errors.New("sendgrid down")}
		svc := service.NewOrderService(orderRepo, userRepo, publisher, mailer, cfg)

		lines := []models.CartLine{{ID: uuid.New(), ProductID: p1.ID, Size: "M", Quantity: 1}}
		orderRepo.On("CommitCart", mock.Anything, userID, mock.Anything).
			Return(commitWith(lines, map[uuid.UUID]*models.Product{p1.ID: p1}), nil).Once()
		userRepo.On("GetUserByID", mock.Anything, userID).Return(&models.User{Email: "jane@example.com"}, nil).Once()

		// Act
		order, err := svc.CreateOrder(t.Context(), userID, validOrderRequest())

		// Assert
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(110).Equal(order.TotalAmount))
	})

	t.Run("Failure - Empty cart", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		publisher := &recordingPublisher{}
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), publisher, nil, cfg)

		orderRepo.On("CommitCart", mock.Anything, userID, mock.Anything).Return(nil, repository.ErrEmptyCart).Once()

		// Act
		order, err := svc.CreateOrder(t.Context(), userID, validOrderRequest())

		// Assert
		assert.Nil(t, order)
		requireAppError(t, err, appErrors.ErrCodeEmptyCart, http.StatusBadRequest)
		assert.Empty(t, publisher.events)
	})

	t.Run("Failure - Markup-only address", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		publisher := &recordingPublisher{}
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), publisher, nil, cfg)

		req := validOrderRequest()
		req.ShippingAddress.Name = "<script>x</script>"
		req.ShippingAddress.City = "<img src=x>"

		// Act
		order, err := svc.CreateOrder(t.Context(), userID, req)

		// Assert
		assert.Nil(t, order)
		requireAppError(t, err, appErrors.ErrCodeValidation, http.StatusBadRequest)
		orderRepo.AssertNotCalled(t, "CommitCart", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, publisher.events)
	})

	t.Run("Failure - Whitespace-only address field", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), nil, nil, cfg)

		req := validOrderRequest()
		req.ShippingAddress.PostalCode = "   "

		// Act
		_, err := svc.CreateOrder(t.Context(), userID, req)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeValidation, http.StatusBadRequest)
		orderRepo.AssertNotCalled(t, "CommitCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product removed from catalog", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		publisher := &recordingPublisher{}
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), publisher, nil, cfg)

		lines := []models.CartLine{
			{ID: uuid.New(), ProductID: p1.ID, Size: "M", Quantity: 1},
			{ID: uuid.New(), ProductID: uuid.New(), Size: "S", Quantity: 1},
		}
		orderRepo.On("CommitCart", mock.Anything, userID, mock.Anything).
			Return(commitWith(lines, map[uuid.UUID]*models.Product{p1.ID: p1}), nil).Once()

		// Act
		order, err := svc.CreateOrder(t.Context(), userID, validOrderRequest())

		// Assert
		assert.Nil(t, order)
		requireAppError(t, err, appErrors.ErrCodeProductNotFound, http.StatusBadRequest)
		assert.Empty(t, publisher.events)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), nil, nil, cfg)
		orderRepo.On("CommitCart", mock.Anything, userID, mock.Anything).Return(nil, errors.New("tx aborted")).Once()

		// Act
		_, err := svc.CreateOrder(t.Context(), userID, validOrderRequest())

		// Assert
		requireAppError(t, err, appErrors.ErrCodeDatabaseError, http.StatusInternalServerError)
	})
}

func TestOrderService_Queries(t *testing.T) {
	userID := uuid.New()
	cfg := service.OrderServiceConfig{DeliveryFee: decimal.NewFromInt(10)}

	t.Run("Failure - GetOrder of another user's order", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), nil, nil, cfg)
		orderID := uuid.New()
		orderRepo.On("GetOrderByID", mock.Anything, userID, orderID).Return(nil, sql.ErrNoRows).Once()

		// Act
		_, err := svc.GetOrder(t.Context(), userID, orderID)

		// Assert
		requireAppError(t, err, appErrors.ErrCodeNotFound, http.StatusNotFound)
	})

	t.Run("Success - ListOrders", func(t *testing.T) {
		// Arrange
		orderRepo := mocks.NewOrderRepository(t)
		svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), nil, nil, cfg)
		orderRepo.On("ListOrdersByUser", mock.Anything, userID, 1, 10).Return([]models.Order{{ID: uuid.New()}}, 1, nil).Once()

		// Act
		orders, total, err := svc.ListOrders(t.Context(), userID, 1, 10)

		// Assert
		require.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, 1, total)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	userID := uuid.New()
	cfg := service.OrderServiceConfig{DeliveryFee: decimal.NewFromInt(10)}

	tests := []struct {
		name       string
		status     models.OrderStatus
		getErr     error
		cancelErr  error
		callCancel bool
		code       string
		httpStatus int
	}{
		{name: "Success - Pending order", status: models.OrderStatusPending, callCancel: true},
		{name: "Success - Processing order", status: models.OrderStatusProcessing, callCancel: true},
		{name: "Failure - Shipped order", status: models.OrderStatusShipped, code: appErrors.ErrCodeBadRequest, httpStatus: http.StatusBadRequest},
		{name: "Failure - Already cancelled", status: models.OrderStatusCancelled, code: appErrors.ErrCodeBadRequest, httpStatus: http.StatusBadRequest},
		{name: "Failure - Status moved on concurrently", status: models.OrderStatusPending, callCancel: true, cancelErr: sql.ErrNoRows, code: appErrors.ErrCodeBadRequest, httpStatus: http.StatusBadRequest},
		{name: "Failure - Unknown order", getErr: sql.ErrNoRows, code: appErrors.ErrCodeNotFound, httpStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			orderRepo := mocks.NewOrderRepository(t)
			svc := service.NewOrderService(orderRepo, mocks.NewUserRepository(t), nil, nil, cfg)
			orderID := uuid.New()

			if tc.getErr != nil {
				orderRepo.On("GetOrderByID", mock.Anything, userID, orderID).Return(nil, tc.getErr).Once()
			} else {
				orderRepo.On("GetOrderByID", mock.Anything, userID, orderID).
					Return(&models.Order{ID: orderID, UserID: userID, Status: tc.status}, nil).Once()
			}

			if tc.callCancel {
				orderRepo.On("CancelOrder", mock.Anything, userID, orderID).Return(tc.cancelErr).Once()
			}

			// Act
			order, err := svc.CancelOrder(t.Context(), userID, orderID)

			// Assert
			if tc.code == "" {
				require.NoError(t, err)
				assert.Equal(t, models.OrderStatusCancelled, order.Status)
				return
			}

			assert.Nil(t, order)
			requireAppError(t, err, tc.code, tc.httpStatus)
		})
	}
}
