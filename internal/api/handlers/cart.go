package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// requireClaims writes a 401 and returns false when the request is not authenticated.
func requireClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized request: missing user claims")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, logger, false
	}

	return claims, logger.With(slog.String("userId", claims.UserID.String())), true
}

// GetCart godoc
//	@Summary		Get the cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.CartLine}	"Cart lines, oldest first"
//	@Failure		401	{object}	response.ErrorResponse							"Authentication required"
//	@Security		BearerAuth
//	@Router			/cart/get-cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		lines, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, lines)
	}
}

// AddToCart godoc
//	@Summary		Add an item to the cart
//	@Description	Adds quantity to the (product, size) line, creating it when absent.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddToCartRequest						true	"Item"
//	@Success		201		{object}	response.APIResponse{data=models.CartLine}	"Resulting line"
//	@Failure		400		{object}	response.ErrorResponse						"Validation error"
//	@Failure		401		{object}	response.ErrorResponse						"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse						"Product not found"
//	@Security		BearerAuth
//	@Router			/cart/add-to-cart [post]
func (h *CartHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		line, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart", slog.String("productId", req.ProductID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("lineId", line.ID.String()), slog.Int("quantity", line.Quantity))
		response.Success(w, http.StatusCreated, line)
	}
}

// UpdateCart godoc
//	@Summary		Set the quantity of a cart line
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateCartRequest					true	"Line and quantity"
//	@Success		200		{object}	response.APIResponse{data=models.CartLine}	"Updated line"
//	@Failure		400		{object}	response.ErrorResponse						"Validation error"
//	@Failure		404		{object}	response.ErrorResponse						"Cart item not found"
//	@Security		BearerAuth
//	@Router			/cart/update-cart [patch]
func (h *CartHandler) UpdateCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req models.UpdateCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update cart input")
			return
		}

		line, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to update cart", slog.String("lineId", req.ItemID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, line)
	}
}

// RemoveFromCart godoc
//	@Summary		Remove a cart line
//	@Tags			Cart
//	@Produce		json
//	@Param			itemId	path		string					true	"Cart line ID"	Format(uuid)
//	@Success		200		{object}	response.APIResponse	"Removed"
//	@Failure		404		{object}	response.ErrorResponse	"Cart item not found"
//	@Security		BearerAuth
//	@Router			/cart/remove-from-cart/{itemId} [delete]
func (h *CartHandler) RemoveFromCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		itemID, err := utils.ParseID(r, "itemId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID); err != nil {
			logger.Warn("Failed to remove cart line", slog.String("lineId", itemID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
	}
}

// ClearCart godoc
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	response.APIResponse	"Cleared"
//	@Security		BearerAuth
//	@Router			/cart/clear-cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := requireClaims(w, r)
		if !ok {
			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	}
}
