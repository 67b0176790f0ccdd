package client

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ecomstore/internal/model"
)

type OrderRequest struct {
	ProductID       int    `json:"product_id"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"delivery_address"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
}

type OrderPlaced struct {
	Message string `json:"message"`
	model.OrderSummary
}

type LoginResult struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

type Dashboard struct {
	Products []model.Product
	Orders   []model.OrderView
}

type messageResponse struct {
	Message string `json:"message"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}
