package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is a checked-out cart, priced from a product snapshot taken at
// checkout time.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	CartID          uuid.UUID       `json:"cart_id"`
	OrderNumber     string          `json:"order_number"`
	Status          OrderStatus     `json:"status"`
	Total           float64         `json:"total"`
	Currency        string          `json:"currency"`
	Notes           string          `json:"notes,omitempty"`
	DeliveryAddress json.RawMessage `json:"delivery_address,omitempty"`
	Items           []*OrderItem    `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a single purchased variant within an order.
type OrderItem struct {
	ID         uuid.UUID         `json:"id"`
	OrderID    uuid.UUID         `json:"order_id"`
	ProductID  string            `json:"product_id"`
	VariantID  string            `json:"variant_id"`
	SKU        string            `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity"`
	UnitPrice  float64           `json:"unit_price"`
	LineTotal  float64           `json:"line_total"`
	CreatedAt  time.Time         `json:"created_at"`
}

// PlaceOrderRequest is the payload for checking out a cart.
type PlaceOrderRequest struct {
	CartID          string          `json:"cart_id" validate:"required,uuid"`
	Notes           string          `json:"notes,omitempty"`
	DeliveryAddress json.RawMessage `json:"delivery_address,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
