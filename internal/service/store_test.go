package service

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

type txMarker struct{}

// memStore is an in-memory stand-in for the Postgres repository. RunAtomic
// serializes transactions, which is what the row locks give the real store,
// and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users    map[int]model.User
	products map[int]model.Product
	orders   map[int]model.Order
	nextID   int

	failAdjust error
	failDelete error
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int]model.User{},
		products: map[int]model.Product{},
		orders:   map[int]model.Order{},
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	users, products, orders, nextID := maps.Clone(s.users), maps.Clone(s.products), maps.Clone(s.orders), s.nextID
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.mu.Lock()
		s.users, s.products, s.orders, s.nextID = users, products, orders, nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) addUser(name string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: s.id(), Name: name, Email: strings.ToLower(name) + "@example.com", Role: role, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProduct(name, price string, stock int) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Product{ID: s.id(), Name: name, Price: mustDecimal(price), Stock: stock, CreatedAt: time.Now()}
	s.products[p.ID] = p
	return p
}

func (s *memStore) stock(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// users

func (s *memStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *memStore) GetUser(_ context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// products

func (s *memStore) ListProducts(_ context.Context, f model.ProductFilter) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Product{}
	for _, p := range s.products {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(f.Search)) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetProduct(_ context.Context, id int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) GetProductForUpdate(ctx context.Context, id int) (*model.Product, error) {
	return s.GetProduct(ctx, id)
}

func (s *memStore) CreateProduct(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	p.CreatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *memStore) UpdateProduct(_ context.Context, id int, u model.ProductUpdate) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	s.products[id] = p
	return &p, nil
}

func (s *memStore) DeleteProduct(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	for _, o := range s.orders {
		if o.ProductID == id {
			return repository.ErrConflict
		}
	}
	delete(s.products, id)
	return nil
}

func (s *memStore) AdjustProductStock(_ context.Context, productID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdjust != nil {
		return s.failAdjust
	}
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrConflict
	}
	p.Stock += delta
	s.products[productID] = p
	return nil
}

// orders

func (s *memStore) InsertOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	o.ID = s.id()
	o.CreatedAt = time.Now()
	s.orders[o.ID] = *o
	return nil
}

func (s *memStore) GetOrderForUpdate(_ context.Context, id int) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (s *memStore) DeleteOrder(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		return s.failDelete
	}
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *memStore) UpdateOrderStatus(_ context.Context, id int, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	return nil
}

func (s *memStore) ListAllOrders(_ context.Context) ([]model.OrderView, error) {
	return s.views(func(model.Order) bool { return true }, true), nil
}

func (s *memStore) ListUserOrders(_ context.Context, userID int) ([]model.OrderView, error) {
	return s.views(func(o model.Order) bool { return o.UserID == userID }, false), nil
}

func (s *memStore) views(keep func(model.Order) bool, withCustomer bool) []model.OrderView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.OrderView{}
	for _, o := range s.orders {
		if !keep(o) {
			continue
		}
		v := model.OrderView{
			OrderID:         o.ID,
			Product:         s.products[o.ProductID].Name,
			Quantity:        o.Quantity,
			TotalPrice:      o.TotalPrice,
			DeliveryAddress: o.DeliveryAddress,
			Status:          o.Status,
			CreatedAt:       o.CreatedAt,
		}
		if withCustomer {
			v.Customer = s.users[o.UserID].Name
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return out
}
