package product

// MatchVariant returns the first selectable variant, in declared order, that
// carries every pair in sel. An empty selection never matches: the shopper has
// to choose before anything can be bought.
func MatchVariant(p NormalizedProduct, sel map[string]string) *Variant {
	return matchIn(p.Variants, sel, true)
}

// MatchDeclaredVariant is MatchVariant without the selectability filter. It
// lets callers tell "no such combination" apart from "sold out".
func MatchDeclaredVariant(p NormalizedProduct, sel map[string]string) *Variant {
	return matchIn(p.Variants, sel, false)
}

func matchIn(variants []Variant, sel map[string]string, selectableOnly bool) *Variant {
	want := NormalizeSelection(sel)
	if len(want) == 0 {
		return nil
	}
	for i := range variants {
		v := variants[i]
		if selectableOnly && !v.Selectable() {
			continue
		}
		if matchesSelection(v, want) {
			return &v
		}
	}
	return nil
}

// PickDisplayVariant chooses the cheapest selectable variant for list pricing
// before any selection exists. Ties go to the earlier variant; variants with
// no usable price only win when nothing else is priced.
func PickDisplayVariant(p NormalizedProduct) *Variant {
	var best *Variant
	var bestPrice float64
	bestPriced := false
	for _, v := range p.SelectableVariants() {
		price, ok := v.ListPrice()
		switch {
		case best == nil:
		case ok && (!bestPriced || price < bestPrice):
		default:
			continue
		}
		best, bestPrice, bestPriced = &v, price, ok
	}
	return best
}

// ListPrice returns the first positive figure among finalPrice, discountPrice,
// merchantPrice and the legacy price.
func (v Variant) ListPrice() (float64, bool) {
	for _, f := range []*float64{v.FinalPrice, v.DiscountPrice, v.MerchantPrice, v.Price} {
		if f != nil && *f > 0 {
			return *f, true
		}
	}
	return 0, false
}
