package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customer/cart/user-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(CartResponse{
			CartItems: []CartItemResponse{
				{ProductID: 1, ProductName: "Widget", Price: 5, Quantity: 2},
			},
			TotalAmount: 10,
			Amount:      10,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithTokenProvider(func() string { return "tok" }))
	cart, err := client.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 10.0, cart.TotalAmount)
}

func TestAddToCart_PostsDTO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customer/cart", r.URL.Path)

		var req cartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.ProductID)
		assert.Equal(t, "user-1", req.UserID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CartResponse{TotalAmount: 5})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	cart, err := client.AddToCart(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cart.TotalAmount)
}

func TestIncreaseDecreaseQuantity_Paths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode(CartResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	_, err := client.IncreaseQuantity(ctx, "user-1", 7)
	require.NoError(t, err)
	_, err = client.DecreaseQuantity(ctx, "user-1", 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/customer/addition", "/api/customer/deduction"}, paths)
}

func TestApplyCoupon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customer/coupon/user-1/SAVE10", r.URL.Path)
		_ = json.NewEncoder(w).Encode(CartResponse{TotalAmount: 10, Amount: 9, Discount: 1, CouponName: "SAVE10"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	cart, err := client.ApplyCoupon(context.Background(), "user-1", "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", cart.CouponName)
	assert.Equal(t, 1.0, cart.Discount)
}

func TestPlaceOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customer/placeOrder", r.URL.Path)
		_ = json.NewEncoder(w).Encode(OrderResponse{ID: 1, TrackingID: "trk", Amount: 10, Status: "Placed"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	order, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{UserID: "user-1", Address: "somewhere"})
	require.NoError(t, err)
	assert.Equal(t, "trk", order.TrackingID)
}

func TestMyOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customer/myOrders/user-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]OrderResponse{
			{ID: 1, TrackingID: "trk-1", Amount: 10, Status: "Delivered"},
			{ID: 2, TrackingID: "trk-2", Amount: 7, Status: "Placed"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	orders, err := client.MyOrders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "trk-2", orders[1].TrackingID)
}

func TestOrderedProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customer/ordered-products/3", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderAmount": 15,
			"productDtoList": []map[string]any{
				{"id": 1, "title": "Widget", "price": 5},
				{"id": 2, "title": "Gadget", "price": 10},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	products, err := client.OrderedProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[1].Title)
}

func TestGiveReview_PostsDTO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customer/review", r.URL.Path)

		var req ReviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.ProductID)
		assert.Equal(t, 5, req.Rating)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.GiveReview(context.Background(), ReviewRequest{
		ProductID:   7,
		UserID:      "user-1",
		Rating:      5,
		Description: "solid widget",
	})
	require.NoError(t, err)
}

func TestWishlist_AddAndGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/customer/wishlist", r.URL.Path)
			var req wishlistRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(7), req.ProductID)
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			assert.Equal(t, "/api/customer/wishlist/user-1", r.URL.Path)
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 7, "title": "Widget", "price": 5},
			})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, client.AddToWishlist(ctx, "user-1", 7))

	products, err := client.GetWishlist(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Title)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "coupon expired", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ApplyCoupon(context.Background(), "user-1", "OLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
	assert.Contains(t, err.Error(), "coupon expired")
}
