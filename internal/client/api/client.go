package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const apiPrefix = "/api/v1"

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

// OrderPage is one page of the user's order history.
type OrderPage struct {
	Data     []models.Order `json:"data"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	HasMore  bool           `json:"hasMore"`
}

// TokenFunc returns the current bearer token, or "" when anonymous.
type TokenFunc func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

// NewHTTPClient returns an http.Client whose transport is traced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func New(baseURL string, httpClient *http.Client, token TokenFunc) *Client {

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if token == nil {
		token = func() string { return "" }
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, token: token}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/product/get-all-products", nil, &products, false)
	return products, err
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	path := "/product/get-single-product?id=" + url.QueryEscape(id.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &product, false); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetCart(ctx context.Context) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := c.do(ctx, http.MethodGet, "/cart/get-cart", nil, &lines, true)
	return lines, err
}

func (c *Client) AddToCart(ctx context.Context, req *models.AddToCartRequest) (*models.CartLine, error) {
	var line models.CartLine
	if err := c.do(ctx, http.MethodPost, "/cart/add-to-cart", req, &line, true); err != nil {
		return nil, err
	}
	return &line, nil
}

func (c *Client) UpdateCart(ctx context.Context, req *models.UpdateCartRequest) (*models.CartLine, error) {
	var line models.CartLine
	if err := c.do(ctx, http.MethodPatch, "/cart/update-cart", req, &line, true); err != nil {
		return nil, err
	}
	return &line, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/cart/remove-from-cart/"+itemID.String(), nil, nil, true)
}

func (c *Client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	var resp models.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/order/create", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListOrders(ctx context.Context, page, size int) (*OrderPage, error) {
	var resp OrderPage
	path := "/order/user-orders?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/order/"+orderID.String(), nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPatch, "/order/cancel/"+orderID.String(), nil, &order, true); err != nil {
		return nil, err
	}
	return &order, nil
}

// do performs one call and unwraps the response envelope into out. Every
// failure comes back as *Error.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authenticated bool) error {

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "Invalid request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return &Error{Kind: KindValidation, Message: "Invalid request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		token := c.token()
		if token == "" {
			return &Error{Kind: KindUnauthenticated, Message: "Login required"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unreachable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return unreachable(err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil {
			return fromStatus(resp.StatusCode, nil, authenticated)
		}
		return fromStatus(resp.StatusCode, env.Error, authenticated)
	}

	if decodeErr != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "Malformed response", Err: decodeErr}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "Malformed response", Err: fmt.Errorf("decode %s: %w", path, err)}
	}

	return nil
}
