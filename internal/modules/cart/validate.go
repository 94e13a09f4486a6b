package cart

import (
	"fmt"
	"math"

	"github.com/georgemunganga/storefront-api/internal/modules/pricing"
	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

// Products is a snapshot of live products keyed by id.
type Products map[string]product.NormalizedProduct

// ValidationResult collects every failing line rather than stopping at the
// first one.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PricedLine is a cart line re-resolved against a product snapshot.
type PricedLine struct {
	Index      int               `json:"index"`
	ProductID  string            `json:"productId"`
	VariantID  string            `json:"variantId,omitempty"`
	SKU        string            `json:"sku,omitempty"`
	Attributes map[string]string `json:"attributes"`
	Quantity   int               `json:"quantity"`
	UnitPrice  float64           `json:"unitPrice"`
	LineTotal  float64           `json:"lineTotal"`
}

// ValidateCart checks each line against the snapshot: the product must exist
// and be for sale, it must have variants, and the line's attributes must
// resolve to a selectable variant. The cached variant id is never consulted.
func ValidateCart(lines []Line, products Products) ValidationResult {
	res := ValidationResult{Valid: true, Errors: []string{}}
	fail := func(i int, format string, args ...any) {
		res.Valid = false
		res.Errors = append(res.Errors, fmt.Sprintf("Line %d: ", i+1)+fmt.Sprintf(format, args...))
	}

	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			fail(i, "product %s is no longer available", l.ProductID)
			continue
		}
		name := displayName(p)
		if !p.Visible() {
			fail(i, "%s is not currently for sale", name)
			continue
		}
		if !p.HasVariants() {
			fail(i, "%s cannot be purchased through the cart", name)
			continue
		}
		if product.MatchVariant(p, l.Attributes) != nil {
			continue
		}
		switch {
		case len(product.NormalizeSelection(l.Attributes)) == 0:
			fail(i, "choose options for %s", name)
		case product.MatchDeclaredVariant(p, l.Attributes) != nil:
			fail(i, "the selected option of %s is out of stock", name)
		default:
			fail(i, "the selected options for %s are not available", name)
		}
	}
	return res
}

// CartTotal sums the authoritative price of every line. Lines whose product is
// missing from the snapshot, or whose selection matches no buyable variant,
// contribute nothing.
func CartTotal(lines []Line, products Products) float64 {
	total := 0.0
	for _, pl := range PriceLines(lines, products) {
		total += pl.LineTotal
	}
	return round2(total)
}

// PriceLines re-resolves each line's variant and unit price. Lines whose
// product is missing are skipped. A variant product line that resolves to no
// selectable variant has nothing to buy and is priced at zero.
func PriceLines(lines []Line, products Products) []PricedLine {
	out := make([]PricedLine, 0, len(lines))
	for i, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			continue
		}
		v := product.MatchVariant(p, l.Attributes)
		price := pricing.ResolvePrice(pricing.Input{Product: p, SelectedVariant: v})
		qty := max(1, l.Quantity)
		if v == nil && p.HasVariants() {
			price.Final = 0
		}

		pl := PricedLine{
			Index:      i,
			ProductID:  l.ProductID,
			Attributes: l.Attributes,
			Quantity:   qty,
			UnitPrice:  price.Final,
			LineTotal:  round2(price.Final * float64(qty)),
		}
		if v != nil {
			pl.VariantID = v.ID
			pl.SKU = v.SKU
		}
		out = append(out, pl)
	}
	return out
}

// ReconcileLines refreshes each line's cached variant id from its attributes.
// Lines whose product is not in the snapshot are returned unchanged.
func ReconcileLines(lines []Line, products Products) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l
		p, ok := products[l.ProductID]
		if !ok {
			continue
		}
		out[i].VariantID = ""
		if v := product.MatchVariant(p, l.Attributes); v != nil {
			out[i].VariantID = v.ID
		}
	}
	return out
}

func displayName(p product.NormalizedProduct) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
