package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line is one cart entry. Attributes is the source of truth; VariantID is a
// cache that is re-derived against a live product before it is relied upon.
type Line struct {
	ProductID  string            `json:"productId"`
	VariantID  string            `json:"variantId,omitempty"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity"`
}

// Cart is a shopper's persisted list of lines. It outlives any product fetch.
type Cart struct {
	ID        uuid.UUID `json:"id"`
	Currency  string    `json:"currency"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quote is a cart priced against a fresh product snapshot.
type Quote struct {
	CartID   uuid.UUID    `json:"cart_id"`
	Currency string       `json:"currency"`
	Valid    bool         `json:"valid"`
	Errors   []string     `json:"errors"`
	Lines    []PricedLine `json:"lines"`
	Total    float64      `json:"total"`
}

// CreateCartRequest is the payload for opening a cart.
type CreateCartRequest struct {
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// AddLineRequest is the payload for adding a product selection to a cart.
type AddLineRequest struct {
	ProductID  string            `json:"productId" validate:"required"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity" validate:"required,min=1"`
}

// UpdateQuantityRequest sets a line's quantity; zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}
