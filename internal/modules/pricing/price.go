package pricing

import (
	"math"

	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

// DefaultNubianMarkup is the markup percentage assumed when the backend sends
// none. Every branch below reads it from here.
const DefaultNubianMarkup = 10.0

// Source names which branch produced a ResolvedPrice.
type Source string

const (
	SourceDefinitive Source = "definitive"
	SourceVariant    Source = "variant"
	SourceSimple     Source = "simple"
)

// Discount is attached only when Amount is positive.
type Discount struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Breakdown exposes the figures a selected variant was priced from.
type Breakdown struct {
	MerchantPrice float64 `json:"merchantPrice"`
	NubianMarkup  float64 `json:"nubianMarkup"`
	DynamicMarkup float64 `json:"dynamicMarkup"`
	FinalPrice    float64 `json:"finalPrice"`
}

// ResolvedPrice is the authoritative price for display and checkout.
type ResolvedPrice struct {
	Final             float64    `json:"final"`
	Merchant          float64    `json:"merchant"`
	Original          float64    `json:"original"`
	Currency          string     `json:"currency"`
	RequiresSelection bool       `json:"requiresSelection"`
	Source            Source     `json:"source"`
	Discount          *Discount  `json:"discount,omitempty"`
	Breakdown         *Breakdown `json:"breakdown,omitempty"`
}

// Input is what ResolvePrice prices. SelectedVariant is nil until the shopper
// has a full selection; Currency is passed through untouched.
type Input struct {
	Product         product.NormalizedProduct
	SelectedVariant *product.Variant
	Currency        string
}

// ResolvePrice computes the price to show and charge. Branches are exclusive
// and evaluated in order: a server-computed display price, "from" pricing for
// a variant product without a selection, the selected variant, and finally a
// simple product. It is total: absent figures resolve to zero.
func ResolvePrice(in Input) ResolvedPrice {
	p := in.Product
	switch {
	case in.SelectedVariant == nil && p.DisplayFinalPrice != nil:
		return definitivePrice(p, in.Currency)
	case p.HasVariants() && in.SelectedVariant == nil:
		plp := p.ProductLevelPricing
		rp := derive(value(plp.FinalPrice), value(plp.MerchantPrice), plp.NubianMarkup, plp.DiscountPrice != nil)
		rp.Currency = in.Currency
		rp.RequiresSelection = true
		rp.Source = SourceVariant
		return rp
	case p.HasVariants():
		v := *in.SelectedVariant
		final := VariantUnitPrice(v)
		merchant := value(v.MerchantPrice)
		if v.MerchantPrice == nil {
			merchant = value(v.Price)
		}
		rp := derive(final, merchant, v.NubianMarkup, v.DiscountPrice != nil)
		rp.Currency = in.Currency
		rp.Source = SourceVariant
		rp.Breakdown = &Breakdown{
			MerchantPrice: rp.Merchant,
			NubianMarkup:  markupOrDefault(v.NubianMarkup),
			DynamicMarkup: value(v.DynamicMarkup),
			FinalPrice:    rp.Final,
		}
		return rp
	default:
		s := p.Simple
		final := value(s.FinalPrice)
		if s.FinalPrice == nil {
			final = value(s.MerchantPrice)
		}
		rp := derive(final, value(s.MerchantPrice), s.NubianMarkup, s.DiscountPrice != nil)
		rp.Currency = in.Currency
		rp.Source = SourceSimple
		return rp
	}
}

// VariantUnitPrice is the price a selected variant is charged at:
// finalPrice, else merchantPrice, else the legacy price when nothing positive
// was found.
func VariantUnitPrice(v product.Variant) float64 {
	final := value(v.FinalPrice)
	if v.FinalPrice == nil {
		final = value(v.MerchantPrice)
	}
	if final <= 0 {
		final = value(v.Price)
	}
	return math.Max(0, final)
}

func definitivePrice(p product.NormalizedProduct, currency string) ResolvedPrice {
	final := math.Max(0, *p.DisplayFinalPrice)
	original := final
	if p.DisplayOriginalPrice != nil {
		original = math.Max(0, *p.DisplayOriginalPrice)
	}
	rp := ResolvedPrice{
		Final:             final,
		Merchant:          math.Max(0, value(p.ProductLevelPricing.MerchantPrice)),
		Original:          original,
		Currency:          currency,
		RequiresSelection: p.HasVariants(),
		Source:            SourceDefinitive,
		Discount:          discountOf(original, final),
	}
	if rp.Discount != nil && p.DisplayDiscountPercentage != nil {
		rp.Discount.Percentage = *p.DisplayDiscountPercentage
	}
	return rp
}

// derive applies the markup rule: the original price is merchant plus markup,
// shown only when a discount price exists or it exceeds the final price.
// Otherwise original equals final and no discount is displayed.
func derive(final, merchant float64, markup *float64, hasDiscountPrice bool) ResolvedPrice {
	final = round2(math.Max(0, final))
	merchant = round2(math.Max(0, merchant))
	computed := round2(merchant * (1 + markupOrDefault(markup)/100))

	original := final
	if hasDiscountPrice || computed > final {
		original = computed
	}
	return ResolvedPrice{
		Final:    final,
		Merchant: merchant,
		Original: original,
		Discount: discountOf(original, final),
	}
}

func discountOf(original, final float64) *Discount {
	amount := round2(math.Max(0, original-final))
	if amount <= 0 {
		return nil
	}
	pct := 0.0
	if original > 0 {
		pct = math.Round(amount / original * 100)
	}
	return &Discount{Amount: amount, Percentage: pct}
}

func markupOrDefault(m *float64) float64 {
	if m == nil {
		return DefaultNubianMarkup
	}
	return *m
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
