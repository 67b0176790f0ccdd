package repository

import (
	"context"
	"fmt"

	"ecomstore/internal/model"
)

// InsertOrder stores o and fills in its ID and CreatedAt.
func (r *Repository) InsertOrder(ctx context.Context, o *model.Order) error {
	err := r.getExecutor(ctx).QueryRow(ctx, `
		INSERT INTO orders (user_id, product_id, quantity, total_price, delivery_address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		o.UserID, o.ProductID, o.Quantity, o.TotalPrice, o.DeliveryAddress, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", translateError(err))
	}
	return nil
}

// GetOrderForUpdate locks the order row until the surrounding transaction ends.
func (r *Repository) GetOrderForUpdate(ctx context.Context, id int) (*model.Order, error) {
	var o model.Order
	err := r.getExecutor(ctx).QueryRow(ctx, `
		SELECT id, user_id, product_id, quantity, total_price, delivery_address, status, created_at
		FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.DeliveryAddress, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", translateError(err))
	}
	return &o, nil
}

func (r *Repository) DeleteOrder(ctx context.Context, id int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete order: %w", ErrNotFound)
	}
	return nil
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, id int, status model.OrderStatus) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "UPDATE orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update order status: %w", ErrNotFound)
	}
	return nil
}

// ListAllOrders returns every order with its customer and product names,
// newest first.
func (r *Repository) ListAllOrders(ctx context.Context) ([]model.OrderView, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT o.id, u.name, p.name, o.quantity, o.total_price, o.delivery_address, o.status, o.created_at
		FROM orders o
		JOIN users u ON o.user_id = u.id
		JOIN products p ON o.product_id = p.id
		ORDER BY o.created_at DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.OrderView{}
	for rows.Next() {
		var v model.OrderView
		if err := rows.Scan(&v.OrderID, &v.Customer, &v.Product, &v.Quantity, &v.TotalPrice, &v.DeliveryAddress, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListUserOrders returns the orders owned by userID, newest first.
func (r *Repository) ListUserOrders(ctx context.Context, userID int) ([]model.OrderView, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT o.id, p.name, o.quantity, o.total_price, o.delivery_address, o.status, o.created_at
		FROM orders o
		JOIN products p ON o.product_id = p.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.OrderView{}
	for rows.Next() {
		var v model.OrderView
		if err := rows.Scan(&v.OrderID, &v.Product, &v.Quantity, &v.TotalPrice, &v.DeliveryAddress, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
