package handler

import (
	"context"
	"fmt"
	"net/http"

	"ecomstore/internal/auth"
	"ecomstore/internal/model"
	"ecomstore/internal/service"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req service.NewOrder) (*model.OrderSummary, error)
	CancelOrder(ctx context.Context, orderID, userID int, role model.Role) error
	UpdateStatus(ctx context.Context, orderID int, status model.OrderStatus) error
	ListOrders(ctx context.Context, userID int, role model.Role) ([]model.OrderView, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type CreateOrderRequest struct {
	UserID          int    `json:"user_id"` // Optional, defaults to the caller
	ProductID       int    `json:"product_id"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"delivery_address"`
}

type OrderPlacedResponse struct {
	Message string `json:"message"`
	*model.OrderSummary
}

type UpdateStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	var req CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := req.UserID
	if userID == 0 {
		userID = caller.UserID
	}
	if userID != caller.UserID && !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden", "cannot place orders for another user")
		return
	}

	summary, err := h.svc.CreateOrder(r.Context(), service.NewOrder{
		UserID:          userID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, OrderPlacedResponse{
		Message:      "Order placed",
		OrderSummary: summary,
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())

	orders, err := h.svc.ListOrders(r.Context(), caller.UserID, caller.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.FromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.CancelOrder(r.Context(), id, caller.UserID, caller.Role); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Order cancelled successfully"})
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Order status updated to %s", req.Status)})
}
