package shop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/endpoint"
	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/aaravmahajanofficial/storefront-sync/internal/utils/response"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const validToken = "valid-token"

// fakeBackend is an in-memory storefront speaking the real envelope.
type fakeBackend struct {
	mu       sync.Mutex
	server   *httptest.Server
	token    string
	fee      decimal.Decimal
	user     models.UserProfile
	products map[uuid.UUID]models.Product
	lines    []models.CartLine
	orders   []models.Order

	lastOrder *models.CreateOrderRequest
	cartGets  int
	mutations int

	// failStatus, when non-zero, makes every authenticated route answer
	// with that status.
	failStatus int

	// holdGet, when set, parks the next cart read after it has taken its
	// snapshot; getStarted reports that moment.
	holdGet    chan struct{}
	getStarted chan struct{}
}

func newFakeBackend(t *testing.T, products ...models.Product) *fakeBackend {
	t.Helper()

	f := &fakeBackend{
		token:    validToken,
		fee:      decimal.NewFromInt(10),
		user:     models.UserProfile{ID: uuid.New(), Name: "Jane", Email: "jane@example.com"},
		products: make(map[uuid.UUID]models.Product),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/product/get-all-products", f.listProducts)
	mux.HandleFunc("POST /api/v1/user/login", f.login)
	mux.HandleFunc("POST /api/v1/user/register", f.register)
	mux.HandleFunc("GET /api/v1/cart/get-cart", f.auth(f.getCart))
	mux.HandleFunc("POST /api/v1/cart/add-to-cart", f.auth(f.addToCart))
	mux.HandleFunc("PATCH /api/v1/cart/update-cart", f.auth(f.updateCart))
	mux.HandleFunc("DELETE /api/v1/cart/remove-from-cart/{itemId}", f.auth(f.removeFromCart))
	mux.HandleFunc("POST /api/v1/order/create", f.auth(f.createOrder))
	mux.HandleFunc("GET /api/v1/order/user-orders", f.auth(f.listOrders))
	mux.HandleFunc("PATCH /api/v1/order/cancel/{orderId}", f.auth(f.cancelOrder))

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeBackend) resolver() *fakeResolver {
	return &fakeResolver{result: endpoint.Result{BaseURL: f.server.URL, Reachable: true}}
}

func (f *fakeBackend) expireTokens() {
	f.mu.Lock()
	f.token = "rotated"
	f.mu.Unlock()
}

func (f *fakeBackend) failWith(status int) {
	f.mu.Lock()
	f.failStatus = status
	f.mu.Unlock()
}

func (f *fakeBackend) seedLine(productID uuid.UUID, size string, qty int) models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := models.CartLine{ID: uuid.New(), ProductID: productID, Size: size, Quantity: qty}
	f.lines = append(f.lines, line)
	return line
}

func (f *fakeBackend) snapshot() []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartLine(nil), f.lines...)
}

func (f *fakeBackend) counts() (cartGets, mutations int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartGets, f.mutations
}

func (f *fakeBackend) lastOrderRequest() *models.CreateOrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOrder
}

func (f *fakeBackend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+f.token
		status := f.failStatus
		f.mu.Unlock()

		if status != 0 {
			response.Error(w, appErrors.NewAppError(appErrors.ErrCodeInternal, "Service unavailable", status))
			return
		}

		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}
		next(w, r)
	}
}

func (f *fakeBackend) listProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	f.mu.Unlock()

	response.Success(w, http.StatusOK, out)
}

func (f *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Password != "secret" {
		response.Error(w, appErrors.UnauthorizedError("Invalid email or password"))
		return
	}

	f.mu.Lock()
	resp := models.AuthResponse{Token: f.token, User: f.user}
	f.mu.Unlock()

	response.Success(w, http.StatusOK, resp)
}

func (f *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.user = models.UserProfile{ID: uuid.New(), Name: req.Name, Email: req.Email}
	resp := models.AuthResponse{Token: f.token, User: f.user}
	f.mu.Unlock()

	response.Success(w, http.StatusCreated, resp)
}

func (f *fakeBackend) getCart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.cartGets++
	lines := append([]models.CartLine{}, f.lines...)
	hold, started := f.holdGet, f.getStarted
	f.holdGet, f.getStarted = nil, nil
	f.mu.Unlock()

	if hold != nil {
		close(started)
		<-hold
	}

	response.Success(w, http.StatusOK, lines)
}

func (f *fakeBackend) addToCart(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++

	if _, ok := f.products[req.ProductID]; !ok {
		response.Error(w, appErrors.ProductNotFoundError(req.ProductID.String(), http.StatusNotFound))
		return
	}

	if req.Quantity < 1 {
		req.Quantity = 1
	}

	for i := range f.lines {
		if f.lines[i].ProductID == req.ProductID && f.lines[i].Size == req.Size {
			f.lines[i].Quantity += req.Quantity
			response.Success(w, http.StatusCreated, f.lines[i])
			return
		}
	}

	line := models.CartLine{ID: uuid.New(), ProductID: req.ProductID, Size: req.Size, Quantity: req.Quantity}
	f.lines = append(f.lines, line)
	response.Success(w, http.StatusCreated, line)
}

func (f *fakeBackend) updateCart(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCartRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++

	for i := range f.lines {
		if f.lines[i].ID == req.ItemID {
			f.lines[i].Quantity = req.Quantity
			response.Success(w, http.StatusOK, f.lines[i])
			return
		}
	}

	response.Error(w, appErrors.NotFoundError("Cart item not found"))
}

func (f *fakeBackend) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, _ := uuid.Parse(r.PathValue("itemId"))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++

	for i := range f.lines {
		if f.lines[i].ID == id {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			response.Success(w, http.StatusOK, nil)
			return
		}
	}

	response.Error(w, appErrors.NotFoundError("Cart item not found"))
}

// createOrder claims the cart and prices it from its own catalog.
func (f *fakeBackend) createOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOrder = &req

	if len(f.lines) == 0 {
		response.Error(w, appErrors.EmptyCartError())
		return
	}

	subtotal := decimal.Zero
	for _, line := range f.lines {
		p, ok := f.products[line.ProductID]
		if !ok {
			response.Error(w, appErrors.ProductNotFoundError(line.ProductID.String(), http.StatusBadRequest))
			return
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	order := models.Order{
		ID:          uuid.New(),
		UserID:      f.user.ID,
		Status:      models.OrderStatusPending,
		Subtotal:    subtotal,
		DeliveryFee: f.fee,
		TotalAmount: subtotal.Add(f.fee),
	}
	f.orders = append(f.orders, order)
	f.lines = nil

	response.Success(w, http.StatusCreated, models.CreateOrderResponse{
		OrderID: order.ID, TotalAmount: order.TotalAmount, Message: "Order placed successfully",
	})
}

func (f *fakeBackend) listOrders(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	orders := append([]models.Order{}, f.orders...)
	f.mu.Unlock()

	response.Success(w, http.StatusOK, models.NewPaginatedResponse(orders, len(orders), 1, 10))
}

func (f *fakeBackend) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := uuid.Parse(r.PathValue("orderId"))

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == id {
			if !f.orders[i].Status.Cancellable() {
				response.Error(w, appErrors.BadRequestError("Cannot cancel order at this stage"))
				return
			}
			f.orders[i].Status = models.OrderStatusCancelled
			response.Success(w, http.StatusOK, f.orders[i])
			return
		}
	}

	response.Error(w, appErrors.NotFoundError("Order not found"))
}

type fakeResolver struct {
	mu     sync.Mutex
	result endpoint.Result
	calls  int
	resets int
}

func (r *fakeResolver) Resolve(context.Context) endpoint.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.result
}

func (r *fakeResolver) Reset() {
	r.mu.Lock()
	r.resets++
	r.mu.Unlock()
}
