package pricing

import (
	"math"

	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

// Display is the list-card price. IsFrom marks a price range floor.
type Display struct {
	Price  float64 `json:"price"`
	IsFrom bool    `json:"isFrom"`
}

// DisplayPrice is the cheap list-view counterpart of ResolvePrice. A
// server-computed display price wins so cards and detail screens agree. For
// variant products it prefers the rollup final price, then the rollup
// merchant price, then the minimum positive price among variants a shopper
// can actually pick.
func DisplayPrice(p product.NormalizedProduct) Display {
	if p.DisplayFinalPrice != nil {
		return Display{Price: math.Max(0, *p.DisplayFinalPrice), IsFrom: p.HasVariants()}
	}
	if !p.HasVariants() {
		return Display{Price: ResolvePrice(Input{Product: p}).Final}
	}

	plp := p.ProductLevelPricing
	if f := value(plp.FinalPrice); f > 0 {
		return Display{Price: f, IsFrom: true}
	}
	if m := value(plp.MerchantPrice); m > 0 {
		return Display{Price: m, IsFrom: true}
	}

	lowest := 0.0
	for _, v := range p.SelectableVariants() {
		price := VariantUnitPrice(v)
		if price > 0 && (lowest == 0 || price < lowest) {
			lowest = price
		}
	}
	return Display{Price: lowest, IsFrom: true}
}
