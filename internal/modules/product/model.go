package product

// AttributeType is the input kind a storefront renders for an attribute.
type AttributeType string

const (
	AttributeSelect AttributeType = "select"
	AttributeText   AttributeType = "text"
	AttributeNumber AttributeType = "number"
)

// AttributeDef is a backend-declared selectable dimension such as size or color.
type AttributeDef struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"` // trimmed, lower-cased
	DisplayName string        `json:"displayName"`
	Type        AttributeType `json:"type"`
	Required    bool          `json:"required"`
	Options     []string      `json:"options"`
}

// Variant is a concrete purchasable SKU identified by its attribute combination.
type Variant struct {
	ID            string            `json:"_id"`
	SKU           string            `json:"sku"`
	Attributes    map[string]string `json:"attributes"`
	MerchantPrice *float64          `json:"merchantPrice"`
	Price         *float64          `json:"price"` // legacy fallback for MerchantPrice
	NubianMarkup  *float64          `json:"nubianMarkup"`
	DynamicMarkup *float64          `json:"dynamicMarkup"`
	FinalPrice    *float64          `json:"finalPrice"`
	DiscountPrice *float64          `json:"discountPrice"`
	Stock         int               `json:"stock"`
	Images        []string          `json:"images"`
	IsActive      bool              `json:"isActive"`
}

// Selectable reports whether a shopper may pick the variant.
func (v Variant) Selectable() bool {
	return v.IsActive && v.Stock > 0
}

// PricingFields holds the nullable price figures shared by simple products and
// the backend's product-level rollup.
type PricingFields struct {
	MerchantPrice *float64 `json:"merchantPrice"`
	FinalPrice    *float64 `json:"finalPrice"`
	NubianMarkup  *float64 `json:"nubianMarkup"`
	DynamicMarkup *float64 `json:"dynamicMarkup"`
	DiscountPrice *float64 `json:"discountPrice"`
}

// SimplePricing is populated only for products without variants.
type SimplePricing struct {
	Stock *int `json:"stock"`
	PricingFields
}

// NormalizedProduct is the strict shape every consumer works with. It is built
// fresh from each fetched payload and never mutated afterwards.
type NormalizedProduct struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	IsActive     bool     `json:"isActive"`
	DeletedAt    *string  `json:"deletedAt"`
	CategoryID   string   `json:"categoryId"`
	CategoryName string   `json:"categoryName,omitempty"`
	MerchantID   *string  `json:"merchantId"`
	Images       []string `json:"images"`

	AttributeDefs []AttributeDef `json:"attributeDefs"`
	Variants      []Variant      `json:"variants"`

	Simple              SimplePricing `json:"simple"`
	ProductLevelPricing PricingFields `json:"productLevelPricing"`

	// Server-computed display figures, shown verbatim when present.
	DisplayFinalPrice         *float64 `json:"displayFinalPrice"`
	DisplayOriginalPrice      *float64 `json:"displayOriginalPrice"`
	DisplayDiscountPercentage *float64 `json:"displayDiscountPercentage"`
}

// HasVariants reports whether pricing lives on the variants rather than on Simple.
func (p NormalizedProduct) HasVariants() bool {
	return len(p.Variants) > 0
}

// Visible reports whether the product is active and not soft-deleted.
func (p NormalizedProduct) Visible() bool {
	return p.IsActive && p.DeletedAt == nil
}

// SelectableVariants returns the variants a shopper may choose, in declared order.
func (p NormalizedProduct) SelectableVariants() []Variant {
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Selectable() {
			out = append(out, v)
		}
	}
	return out
}

// VariantByID looks a variant up by id regardless of its selectability.
func (p NormalizedProduct) VariantByID(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Selection maps attribute names to chosen values.
type Selection map[string]string
