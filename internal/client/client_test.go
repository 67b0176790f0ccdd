package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomstore/internal/model"
)

func TestLogin_StoresToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Empty(t, r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ann@example.com", body["email"])

			json.NewEncoder(w).Encode(map[string]any{
				"message": "Login successful",
				"user":    model.PublicUser{ID: 7, Name: "Ann", Email: "ann@example.com", Role: model.RoleUser},
				"token":   "tok-123",
			})
		case "/orders":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]model.OrderView{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL})

	res, err := c.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", res.Token)
	assert.Equal(t, 7, res.User.ID)

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListProducts_BrotliAndFilters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))

		q := r.URL.Query()
		assert.Equal(t, "phone", q.Get("search"))
		assert.Equal(t, "10", q.Get("minPrice"))
		assert.Equal(t, "", q.Get("maxPrice"))
		assert.Equal(t, "electronics", q.Get("category"))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		defer bw.Close()
		json.NewEncoder(bw).Encode([]model.Product{
			{ID: 1, Name: "Phone", Price: decimal.RequireFromString("99.99"), Stock: 3, Category: "electronics"},
		})
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL + "/"})
	minPrice := decimal.NewFromInt(10)

	products, err := c.ListProducts(context.Background(), model.ProductFilter{
		Search:   "phone",
		MinPrice: &minPrice,
		Category: "electronics",
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Phone", products[0].Name)
	assert.True(t, decimal.RequireFromString("99.99").Equal(products[0].Price))
}

func TestPlaceOrder_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"insufficient_stock","message":"Insufficient stock"}`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, Token: "tok"})

	_, err := c.PlaceOrder(context.Background(), OrderRequest{ProductID: 1, Quantity: 2, DeliveryAddress: "Main St"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "insufficient_stock", apiErr.Code)
	assert.Equal(t, "Insufficient stock", apiErr.Message)
}

func TestCancelOrder_PlainTextError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL})

	_, err := c.CancelOrder(context.Background(), 3)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestCancelOrder_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/3", r.URL.Path)
		w.Write([]byte(`{"message":"Order cancelled successfully"}`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, Token: "tok"})

	msg, err := c.CancelOrder(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Order cancelled successfully", msg)
}

func TestDashboard(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/products":
			json.NewEncoder(w).Encode([]model.Product{{ID: 1, Name: "Phone"}, {ID: 2, Name: "Case"}})
		case "/orders":
			json.NewEncoder(w).Encode([]model.OrderView{{OrderID: 9, Product: "Phone", Quantity: 1}})
		}
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, Token: "tok"})

	d, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Products, 2)
	require.Len(t, d.Orders, 1)
	assert.Equal(t, 9, d.Orders[0].OrderID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDashboard_OneSideFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/orders" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"login required"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL})

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch orders")
}

func TestAdminCalls(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-tok", r.Header.Get("Authorization"))
		key := r.Method + " " + r.URL.Path

		var body map[string]any
		if r.Body != nil && r.ContentLength > 0 {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		}

		switch key {
		case "POST /products":
			assert.Equal(t, "Lamp", body["name"])
			assert.Equal(t, "19.5", body["price"])
			assert.EqualValues(t, 4, body["stock"])
			assert.Equal(t, "home", body["category"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(model.Product{ID: 9, Name: "Lamp", Price: decimal.RequireFromString("19.5"), Stock: 4})
		case "PUT /products/9":
			assert.Equal(t, map[string]any{
				"name": nil, "description": nil, "price": nil, "stock": float64(0), "category": nil,
			}, body)
			json.NewEncoder(w).Encode(model.Product{ID: 9, Name: "Lamp", Price: decimal.RequireFromString("19.5")})
		case "DELETE /products/9":
			json.NewEncoder(w).Encode(map[string]string{"message": "Product deleted"})
		case "PUT /orders/3/status":
			assert.Equal(t, "Shipped", body["status"])
			json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated to Shipped"})
		default:
			t.Errorf("unexpected request %s", key)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, Token: "admin-tok"})
	ctx := context.Background()

	p, err := c.CreateProduct(ctx, ProductRequest{
		Name: "Lamp", Price: decimal.RequireFromString("19.5"), Stock: 4, Category: "home",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, p.ID)

	stock := 0
	p, err = c.UpdateProduct(ctx, 9, model.ProductUpdate{Stock: &stock})
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	msg, err := c.DeleteProduct(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Product deleted", msg)

	msg, err = c.UpdateOrderStatus(ctx, 3, model.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, "Order status updated to Shipped", msg)
}

func TestUpdateOrderStatus_Forbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"forbidden","message":"admin access required"}`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, Token: "user-tok"})

	_, err := c.UpdateOrderStatus(context.Background(), 3, model.StatusDelivered)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
