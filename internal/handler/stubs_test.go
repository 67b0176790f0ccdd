package handler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecomstore/internal/auth"
	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubAuth struct {
	signup func(name, email, password string) (*model.User, error)
	login  func(email, password string) (*model.User, string, error)
}

func (s *stubAuth) Signup(_ context.Context, name, email, password string) (*model.User, error) {
	return s.signup(name, email, password)
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*model.User, string, error) {
	return s.login(email, password)
}

type stubProducts struct {
	list   func(f model.ProductFilter) ([]model.Product, error)
	get    func(id int) (*model.Product, error)
	create func(p *model.Product) error
	update func(id int, u model.ProductUpdate) (*model.Product, error)
	delete func(id int) error
}

func (s *stubProducts) List(_ context.Context, f model.ProductFilter) ([]model.Product, error) {
	return s.list(f)
}

func (s *stubProducts) Get(_ context.Context, id int) (*model.Product, error) {
	return s.get(id)
}

func (s *stubProducts) Create(_ context.Context, p *model.Product) error {
	return s.create(p)
}

func (s *stubProducts) Update(_ context.Context, id int, u model.ProductUpdate) (*model.Product, error) {
	return s.update(id, u)
}

func (s *stubProducts) Delete(_ context.Context, id int) error {
	return s.delete(id)
}

type stubOrders struct {
	create       func(req service.NewOrder) (*model.OrderSummary, error)
	cancel       func(orderID, userID int, role model.Role) error
	updateStatus func(orderID int, status model.OrderStatus) error
	list         func(userID int, role model.Role) ([]model.OrderView, error)
}

func (s *stubOrders) CreateOrder(_ context.Context, req service.NewOrder) (*model.OrderSummary, error) {
	return s.create(req)
}

func (s *stubOrders) CancelOrder(_ context.Context, orderID, userID int, role model.Role) error {
	return s.cancel(orderID, userID, role)
}

func (s *stubOrders) UpdateStatus(_ context.Context, orderID int, status model.OrderStatus) error {
	return s.updateStatus(orderID, status)
}

func (s *stubOrders) ListOrders(_ context.Context, userID int, role model.Role) ([]model.OrderView, error) {
	return s.list(userID, role)
}

type testEnv struct {
	h        *Handler
	tokens   *auth.TokenManager
	auth     *stubAuth
	products *stubProducts
	orders   *stubOrders
}

func newTestEnv(limiter *RateLimiter) *testEnv {
	env := &testEnv{
		tokens:   auth.NewTokenManager(testSecret, time.Hour),
		auth:     &stubAuth{},
		products: &stubProducts{},
		orders:   &stubOrders{},
	}
	env.h = NewHandler(
		Options{Tokens: env.tokens, AuthLimiter: limiter, CORSOrigin: "*"},
		NewAuthHandler(env.auth),
		NewProductHandler(env.products),
		NewOrderHandler(env.orders),
	)
	return env
}

func (e *testEnv) token(id int, role model.Role) string {
	t, err := e.tokens.Issue(model.User{ID: id, Name: "tester", Role: role})
	if err != nil {
		panic(err)
	}
	return t
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
