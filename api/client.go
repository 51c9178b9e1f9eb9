// Package api is the HTTP client for the storefront backend: catalog
// lookups for guests and the server-backed cart for authenticated shoppers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/mpetrov/go_storefront/domain"
)

// TokenProvider supplies the bearer token for authenticated calls. Guests
// return the empty string.
type TokenProvider func() string

type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenProvider

	breaker *gobreaker.CircuitBreaker[domain.Product]
	sf      singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithTokenProvider(token TokenProvider) Option {
	return func(c *Client) { c.token = token }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[domain.Product](gobreaker.Settings{
		Name: "product-catalog",
	})
	return c
}

type cartRequest struct {
	ProductID int64  `json:"productId"`
	UserID    string `json:"userId"`
}

type CartItemResponse struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ReturnedImg string  `json:"returnedImg"`
}

// CartResponse is the server cart shape for authenticated shoppers. The
// guest cart's enriched view mirrors it, which is what keeps the two carts
// interchangeable for the UI.
type CartResponse struct {
	CartItems   []CartItemResponse `json:"cartItems"`
	TotalAmount float64            `json:"totalAmount"`
	Amount      float64            `json:"amount"`
	Discount    float64            `json:"discount"`
	CouponName  string             `json:"couponName"`
}

type PlaceOrderRequest struct {
	UserID           string `json:"userId"`
	Address          string `json:"address"`
	OrderDescription string `json:"orderDescription"`
}

type OrderResponse struct {
	ID         int64   `json:"id"`
	TrackingID string  `json:"trackingId"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"orderStatus"`
}

func (c *Client) GetCart(ctx context.Context, userID string) (*CartResponse, error) {
	var cart CartResponse
	if err := c.get(ctx, fmt.Sprintf("api/customer/cart/%s", userID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, userID string, productID int64) (*CartResponse, error) {
	var cart CartResponse
	req := cartRequest{ProductID: productID, UserID: userID}
	if err := c.post(ctx, "api/customer/cart", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) IncreaseQuantity(ctx context.Context, userID string, productID int64) (*CartResponse, error) {
	var cart CartResponse
	req := cartRequest{ProductID: productID, UserID: userID}
	if err := c.post(ctx, "api/customer/addition", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) DecreaseQuantity(ctx context.Context, userID string, productID int64) (*CartResponse, error) {
	var cart CartResponse
	req := cartRequest{ProductID: productID, UserID: userID}
	if err := c.post(ctx, "api/customer/deduction", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveItem(ctx context.Context, userID string, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("api/customer/cart/%s/%d", userID, productID), nil, nil)
}

func (c *Client) ApplyCoupon(ctx context.Context, userID, code string) (*CartResponse, error) {
	var cart CartResponse
	if err := c.get(ctx, fmt.Sprintf("api/customer/coupon/%s/%s", userID, code), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	var order OrderResponse
	if err := c.post(ctx, "api/customer/placeOrder", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) MyOrders(ctx context.Context, userID string) ([]OrderResponse, error) {
	var orders []OrderResponse
	if err := c.get(ctx, fmt.Sprintf("api/customer/myOrders/%s", userID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderedProducts lists the products of a placed order, for the review page.
func (c *Client) OrderedProducts(ctx context.Context, orderID int64) ([]domain.Product, error) {
	var resp struct {
		OrderAmount    float64           `json:"orderAmount"`
		ProductDtoList []productResponse `json:"productDtoList"`
	}
	if err := c.get(ctx, fmt.Sprintf("api/customer/ordered-products/%d", orderID), &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, len(resp.ProductDtoList))
	for i, p := range resp.ProductDtoList {
		products[i] = p.toProduct()
	}
	return products, nil
}

type ReviewRequest struct {
	ProductID   int64  `json:"productId"`
	UserID      string `json:"userId"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

func (c *Client) GiveReview(ctx context.Context, req ReviewRequest) error {
	return c.post(ctx, "api/customer/review", req, nil)
}

type wishlistRequest struct {
	ProductID int64  `json:"productId"`
	UserID    string `json:"userId"`
}

func (c *Client) AddToWishlist(ctx context.Context, userID string, productID int64) error {
	req := wishlistRequest{ProductID: productID, UserID: userID}
	return c.post(ctx, "api/customer/wishlist", req, nil)
}

func (c *Client) GetWishlist(ctx context.Context, userID string) ([]domain.Product, error) {
	var resp []productResponse
	if err := c.get(ctx, fmt.Sprintf("api/customer/wishlist/%s", userID), &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, len(resp))
	for i, p := range resp {
		products[i] = p.toProduct()
	}
	return products, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
