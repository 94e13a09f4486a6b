package catalog

import (
	"encoding/json"
	"time"

	"github.com/georgemunganga/storefront-api/internal/modules/pricing"
	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

// Document is a backend product payload stored as received. CategoryID and
// IsActive are lifted out of the body for filtering only.
type Document struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"category_id,omitempty"`
	IsActive   bool            `json:"is_active"`
	Body       json.RawMessage `json:"body"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ListFilter narrows a product listing.
type ListFilter struct {
	CategoryID string
	IDs        []string
	ActiveOnly bool
	Limit      int
}

// Card is the list-view shape: a product summary with its "from" price.
type Card struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Image        string          `json:"image,omitempty"`
	Price        pricing.Display `json:"price"`
	Currency     string          `json:"currency"`
}

// OptionView is one choosable value of an attribute.
type OptionView struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

// AttributeView is one attribute dimension with its options.
type AttributeView struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"display_name"`
	Required    bool         `json:"required"`
	Options     []OptionView `json:"options"`
}

// OptionsView describes the selection state of a product detail screen.
type OptionsView struct {
	ProductID  string            `json:"product_id"`
	Selection  map[string]string `json:"selection"`
	Attributes []AttributeView   `json:"attributes"`
}

// PriceRequest asks for the price of a (possibly partial) selection.
type PriceRequest struct {
	Attributes map[string]string `json:"attributes"`
	Currency   string            `json:"currency" validate:"omitempty,len=3"`
}

// PriceView is a resolved price together with the variant it was taken from.
type PriceView struct {
	ProductID string                `json:"product_id"`
	Matched   bool                  `json:"matched"`
	Variant   *product.Variant      `json:"variant,omitempty"`
	Price     pricing.ResolvedPrice `json:"price"`
}
