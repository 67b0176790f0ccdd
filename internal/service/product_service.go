package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

// Largest values the products table can hold: NUMERIC(12, 2) and INTEGER.
var maxPrice = decimal.RequireFromString("9999999999.99")

const maxStock = math.MaxInt32

type ProductStore interface {
	ListProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, id int, u model.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) List(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, invalid("minPrice must not exceed maxPrice")
	}

	products, err := s.store.ListProducts(ctx, f)
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

// Create stores a new product. Name, price and stock are required by the
// caller; description and category may be empty.
func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("name, price, stock required")
	}
	if err := checkPrice(p.Price); err != nil {
		return err
	}
	if err := checkStock(p.Stock); err != nil {
		return err
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		err = outOfRange(err, "price or stock is out of range")
		failure(err).Str("name", p.Name).Msg("create product failed")
		return err
	}
	log.Info().Int("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return nil
}

func (s *ProductService) Update(ctx context.Context, id int, u model.ProductUpdate) (*model.Product, error) {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		u.Name = &name
	}
	if u.Price != nil {
		if err := checkPrice(*u.Price); err != nil {
			return nil, err
		}
	}
	if u.Stock != nil {
		if err := checkStock(*u.Stock); err != nil {
			return nil, err
		}
	}

	p, err := s.store.UpdateProduct(ctx, id, u)
	if err != nil {
		err = outOfRange(notFound(err, "product"), "price or stock is out of range")
		failure(err).Int("product_id", id).Msg("update product failed")
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, repository.ErrConflict) {
		err = &ConflictError{Msg: "product has orders and cannot be deleted"}
	}
	if err != nil {
		err = notFound(err, "product")
		failure(err).Int("product_id", id).Msg("delete product failed")
		return err
	}
	log.Info().Int("product_id", id).Msg("product deleted")
	return nil
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("price must not be negative")
	}
	if price.GreaterThan(maxPrice) {
		return invalid("price must not exceed %s", maxPrice.StringFixed(2))
	}
	return nil
}

func checkStock(stock int) error {
	if stock < 0 {
		return invalid("stock must not be negative")
	}
	if stock > maxStock {
		return invalid("stock must not exceed %d", maxStock)
	}
	return nil
}
