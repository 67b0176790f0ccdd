// Package client talks to the ecomstore HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"

	"ecomstore/internal/model"
)

type Config struct {
	BaseURL string
	Token   string
}

type Client struct {
	client    *http.Client
	baseURL   string
	transport *AuthTransport
}

func NewClient(cfg Config) *Client {
	t := &AuthTransport{
		Token: cfg.Token,
		Base:  http.DefaultTransport,
	}
	return &Client{
		client: &http.Client{
			Transport: t,
			Timeout:   10 * time.Second,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		transport: t,
	}
}

// AuthTransport adds the bearer token and asks for brotli responses.
type AuthTransport struct {
	Token string
	Base  http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// Login stores the returned token on the client for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &res); err != nil {
		return nil, err
	}
	c.transport.Token = res.Token
	return &res, nil
}

func (c *Client) ListProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}

	path := "/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var products []model.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderPlaced, error) {
	var res OrderPlaced
	if err := c.do(ctx, http.MethodPost, "/orders", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.OrderView, error) {
	var orders []model.OrderView
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID int) (string, error) {
	var res messageResponse
	if err := c.do(ctx, http.MethodDelete, "/orders/"+strconv.Itoa(orderID), nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// CreateProduct needs an admin token.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodPost, "/products", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct changes only the fields set in u.
func (c *Client) UpdateProduct(ctx context.Context, id int, u model.ProductUpdate) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+strconv.Itoa(id), u, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) (string, error) {
	var res messageResponse
	if err := c.do(ctx, http.MethodDelete, "/products/"+strconv.Itoa(id), nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status model.OrderStatus) (string, error) {
	var res messageResponse
	body := map[string]model.OrderStatus{"status": status}
	if err := c.do(ctx, http.MethodPut, "/orders/"+strconv.Itoa(orderID)+"/status", body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Dashboard fetches the catalog and the caller's orders in parallel.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)
	var d Dashboard

	g.Go(func() error {
		var err error
		d.Products, err = c.ListProducts(ctx, model.ProductFilter{})
		if err != nil {
			return fmt.Errorf("failed to fetch products: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		d.Orders, err = c.ListOrders(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch orders: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
