package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-sync/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	service "github.com/aaravmahajanofficial/storefront-sync/internal/services"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils/response"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts godoc
//	@Summary		List the catalog
//	@Description	Returns every product. Clients also use this endpoint as their liveness probe.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Product}	"Full catalog"
//	@Failure		500	{object}	response.ErrorResponse						"Internal server error"
//	@Router			/product/get-all-products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Debug("Products listed", slog.Int("count", len(products)))
		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	query		string										true	"Product ID"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.Product}	"Product"
//	@Failure		400	{object}	response.ErrorResponse						"Invalid product ID"
//	@Failure		404	{object}	response.ErrorResponse						"Product not found"
//	@Router			/product/get-single-product [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.URL.Query().Get("id")))
			response.Error(w, errors.BadRequestError("Invalid product ID format"))
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
