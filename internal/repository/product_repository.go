package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"ecomstore/internal/model"
)

const productColumns = "id, name, description, price, stock, category, created_at"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns the products matching every set field of f, ordered by id.
func (r *Repository) ListProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + likeEscaper.Replace(f.Search) + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= "+arg(*f.MaxPrice))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.getExecutor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	p, err := scanProduct(r.getExecutor(ctx).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", translateError(err))
	}
	return p, nil
}

// GetProductForUpdate locks the product row until the surrounding
// transaction ends.
func (r *Repository) GetProductForUpdate(ctx context.Context, id int) (*model.Product, error) {
	p, err := scanProduct(r.getExecutor(ctx).QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", translateError(err))
	}
	return p, nil
}

// CreateProduct inserts p and fills in its ID and CreatedAt.
func (r *Repository) CreateProduct(ctx context.Context, p *model.Product) error {
	err := r.getExecutor(ctx).QueryRow(ctx,
		"INSERT INTO products (name, description, price, stock, category) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at",
		p.Name, p.Description, p.Price, p.Stock, p.Category,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", translateError(err))
	}
	return nil
}

// UpdateProduct applies the non-nil fields of u and returns the stored row.
func (r *Repository) UpdateProduct(ctx context.Context, id int, u model.ProductUpdate) (*model.Product, error) {
	p, err := scanProduct(r.getExecutor(ctx).QueryRow(ctx, `
		UPDATE products SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			stock = COALESCE($4, stock),
			category = COALESCE($5, category)
		WHERE id = $6
		RETURNING `+productColumns,
		u.Name, u.Description, u.Price, u.Stock, u.Category, id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", translateError(err))
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete product: %w", ErrNotFound)
	}
	return nil
}

// AdjustProductStock adds delta (which may be negative) to the product's stock.
func (r *Repository) AdjustProductStock(ctx context.Context, productID, delta int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "UPDATE products SET stock = stock + $1 WHERE id = $2", delta, productID)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update product stock: %w", ErrNotFound)
	}
	return nil
}
