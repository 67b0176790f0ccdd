package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"ecomstore/internal/model"
)

type OrderStore interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
	GetProductForUpdate(ctx context.Context, id int) (*model.Product, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	InsertOrder(ctx context.Context, o *model.Order) error
	AdjustProductStock(ctx context.Context, productID, delta int) error
	GetOrderForUpdate(ctx context.Context, id int) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int) error
	UpdateOrderStatus(ctx context.Context, id int, status model.OrderStatus) error
	ListAllOrders(ctx context.Context) ([]model.OrderView, error)
	ListUserOrders(ctx context.Context, userID int) ([]model.OrderView, error)
}

type OrderService struct {
	store OrderStore
}

func NewOrderService(store OrderStore) *OrderService {
	return &OrderService{store: store}
}

type NewOrder struct {
	UserID          int
	ProductID       int
	Quantity        int
	DeliveryAddress string
}

func (n NewOrder) validate() error {
	if n.UserID <= 0 || n.ProductID <= 0 || n.Quantity == 0 || strings.TrimSpace(n.DeliveryAddress) == "" {
		return invalid("user_id, product_id, quantity and delivery_address are required")
	}
	if n.Quantity < 0 {
		return invalid("quantity must be greater than 0")
	}
	return nil
}

// CreateOrder places an order and takes its quantity out of stock in one
// transaction. Nothing is written unless every step succeeds.
func (s *OrderService) CreateOrder(ctx context.Context, req NewOrder) (*model.OrderSummary, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var summary *model.OrderSummary
	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		// 1. Lock the product row so concurrent purchases queue behind us
		product, err := s.store.GetProductForUpdate(ctx, req.ProductID)
		if err != nil {
			return notFound(err, "product")
		}

		// 2. Check stock
		if product.Stock < req.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Stock,
			}
		}

		// 3. Check user
		if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
			return notFound(err, "user")
		}

		// 4. Freeze the total at today's price
		order := &model.Order{
			UserID:          req.UserID,
			ProductID:       product.ID,
			Quantity:        req.Quantity,
			TotalPrice:      product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			Status:          model.StatusPending,
		}

		// 5. Create order
		if err := s.store.InsertOrder(ctx, order); err != nil {
			return outOfRange(err, "order total is out of range")
		}

		// 6. Update stock
		if err := s.store.AdjustProductStock(ctx, product.ID, -req.Quantity); err != nil {
			return err
		}

		summary = &model.OrderSummary{
			OrderID:    order.ID,
			Product:    product.Name,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
			Status:     order.Status,
		}
		return nil
	})
	if err != nil {
		failure(err).Int("user_id", req.UserID).Int("product_id", req.ProductID).Msg("create order failed")
		return nil, err
	}

	log.Info().Int("order_id", summary.OrderID).Int("user_id", req.UserID).Int("quantity", summary.Quantity).Msg("order placed")
	return summary, nil
}

// CancelOrder gives the order's quantity back to its product and deletes the
// order. Only the owner or an admin may cancel.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID int, role model.Role) error {
	err := s.store.RunAtomic(ctx, func(ctx context.Context) error {
		order, err := s.store.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return notFound(err, "order")
		}

		if !role.IsAdmin() && order.UserID != userID {
			return &ForbiddenError{Msg: "only the order owner or an admin may cancel this order"}
		}

		// Restored even if the product changed since the order was placed.
		if err := s.store.AdjustProductStock(ctx, order.ProductID, order.Quantity); err != nil {
			return outOfRange(notFound(err, "product"), "restored stock is out of range")
		}

		if err := s.store.DeleteOrder(ctx, order.ID); err != nil {
			return notFound(err, "order")
		}
		return nil
	})
	if err != nil {
		failure(err).Int("order_id", orderID).Int("user_id", userID).Msg("cancel order failed")
		return err
	}

	log.Info().Int("order_id", orderID).Int("user_id", userID).Msg("order cancelled")
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status model.OrderStatus) error {
	if !status.Valid() {
		return invalid("invalid status value %q", status)
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		err = notFound(err, "order")
		failure(err).Int("order_id", orderID).Msg("update order status failed")
		return err
	}
	return nil
}

// ListOrders returns every order for an admin and only the caller's own
// orders for anyone else.
func (s *OrderService) ListOrders(ctx context.Context, userID int, role model.Role) ([]model.OrderView, error) {
	var (
		orders []model.OrderView
		err    error
	)
	if role.IsAdmin() {
		orders, err = s.store.ListAllOrders(ctx)
	} else {
		orders, err = s.store.ListUserOrders(ctx, userID)
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("list orders")
		return nil, err
	}
	return orders, nil
}
