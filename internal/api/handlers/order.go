package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder godoc
//	@Summary		Place an order from the cart
//	@Description	Atomically claims the user's cart, prices it from the catalog and records the order. Client totals are advisory only.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.CreateOrderRequest							true	"Shipping and payment details"
//	@Success		201		{object}	response.APIResponse{data=models.CreateOrderResponse}	"Order placed"
//	@Failure		400		{object}	response.ErrorResponse								"Validation error, empty cart or unknown product"
//	@Failure		401		{object}	response.ErrorResponse								"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse								"Internal server error"
//	@Security		BearerAuth
//	@Router			/order/create [post]
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create order input")
			return
		}

		order, err := h.orderService.CreateOrder(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to create order", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order created successfully", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, models.CreateOrderResponse{
			OrderID:     order.ID,
			TotalAmount: order.TotalAmount,
			Message:     "Order placed successfully",
		})
	}
}

// ListOrders godoc
//	@Summary		List the user's orders
//	@Tags			Orders
//	@Produce		json
//	@Param			page	query		int												false	"Page number"	default(1)
//	@Param			size	query		int												false	"Page size"		default(10)
//	@Success		200		{object}	response.APIResponse{data=models.PaginatedResponse}	"Orders, newest first"
//	@Failure		401		{object}	response.ErrorResponse							"Authentication required"
//	@Security		BearerAuth
//	@Router			/order/user-orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		page, size := parsePagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(orders, total, page, size))
	}
}

func parsePagination(r *http.Request) (int, int) {

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}

	return page, min(size, maxPageSize)
}

// GetOrder godoc
//	@Summary		Get an order
//	@Tags			Orders
//	@Produce		json
//	@Param			orderId	path		string									true	"Order ID"	Format(uuid)
//	@Success		200		{object}	response.APIResponse{data=models.Order}	"Order"
//	@Failure		400		{object}	response.ErrorResponse					"Invalid order ID"
//	@Failure		404		{object}	response.ErrorResponse					"Order not found"
//	@Security		BearerAuth
//	@Router			/order/{orderId} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		orderID, err := utils.ParseID(r, "orderId")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims.UserID, orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", orderID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// CancelOrder godoc
//	@Summary		Cancel an order
//	@Description	Only PENDING and PROCESSING orders can be cancelled.
//	@Tags			Orders
//	@Produce		json
//	@Param			orderId	path		string									true	"Order ID"	Format(uuid)
//	@Success		200		{object}	response.APIResponse{data=models.Order}	"Cancelled order"
//	@Failure		400		{object}	response.ErrorResponse					"Order can no longer be cancelled"
//	@Failure		404		{object}	response.ErrorResponse					"Order not found"
//	@Security		BearerAuth
//	@Router			/order/cancel/{orderId} [patch]
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		orderID, err := utils.ParseID(r, "orderId")
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid order ID format"))
			return
		}

		order, err := h.orderService.CancelOrder(r.Context(), claims.UserID, orderID)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.String("orderId", orderID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled", slog.String("orderId", orderID.String()))
		response.Success(w, http.StatusOK, order)
	}
}
