package product

import (
	"encoding/json"
	"strings"
)

// Normalize converts a loosely-typed backend product payload into a
// NormalizedProduct. It never fails: anything it cannot read falls back to an
// empty string, false, an empty slice, nil or zero.
//
// raw may be a decoded JSON object, the raw JSON bytes, or an already
// normalized product, in which case the result is equivalent to the input.
func Normalize(raw any) NormalizedProduct {
	obj, ok := toDocument(raw)
	if !ok {
		return emptyProduct()
	}

	p := NormalizedProduct{
		ID:          asID(first(obj, "_id", "id")),
		Name:        strings.TrimSpace(pickString(obj, "name")),
		Description: pickString(obj, "description"),
		IsActive:    asBool(first(obj, "isActive"), true),
		DeletedAt:   asNullableString(first(obj, "deletedAt")),
		Images:      asStringSlice(first(obj, "images")),
	}

	p.CategoryID, p.CategoryName = coerceRef(obj, "category", "categoryId", "categoryName")
	if merchant, _ := coerceRef(obj, "merchant", "merchantId", ""); merchant != "" {
		p.MerchantID = &merchant
	}

	defsRaw, ok := pick(obj, "attributeDefs")
	if !ok {
		defsRaw, _ = pick(obj, "attributes")
	}
	p.AttributeDefs = coerceAttributeDefs(defsRaw)

	p.Variants = []Variant{}
	for _, it := range toAnySlice(first(obj, "variants")) {
		if vobj, ok := asObject(it); ok {
			p.Variants = append(p.Variants, coerceVariant(vobj, p.AttributeDefs))
		}
	}

	rollup, _ := asObject(first(obj, "productLevelPricing"))
	p.ProductLevelPricing = coercePricing(obj, rollup)

	if !p.HasVariants() {
		simple, _ := asObject(first(obj, "simple"))
		p.Simple = SimplePricing{PricingFields: coercePricing(obj, simple)}
		p.Simple.Stock = asIntPtr(first(obj, "stock"))
		if p.Simple.Stock == nil && simple != nil {
			p.Simple.Stock = asIntPtr(simple["stock"])
		}
	}

	p.DisplayFinalPrice = pickNum(obj, "displayFinalPrice")
	p.DisplayOriginalPrice = pickNum(obj, "displayOriginalPrice")
	p.DisplayDiscountPercentage = pickNum(obj, "displayDiscountPercentage")
	return p
}

// NormalizeJSON decodes data and normalizes it. Undecodable input yields an
// inert product.
func NormalizeJSON(data []byte) NormalizedProduct {
	return Normalize(json.RawMessage(data))
}

func emptyProduct() NormalizedProduct {
	return NormalizedProduct{
		Images:        []string{},
		AttributeDefs: []AttributeDef{},
		Variants:      []Variant{},
	}
}

func toDocument(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case json.RawMessage:
		return decodeDocument(v)
	case []byte:
		return decodeDocument(v)
	case NormalizedProduct:
		return reencode(v)
	case *NormalizedProduct:
		if v == nil {
			return nil, false
		}
		return reencode(*v)
	}
	return asObject(raw)
}

func decodeDocument(data []byte) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func reencode(p NormalizedProduct) (map[string]any, bool) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, false
	}
	return decodeDocument(data)
}

// first is pick without the presence flag.
func first(obj map[string]any, keys ...string) any {
	v, _ := pick(obj, keys...)
	return v
}

// coerceRef reads a reference that may be a bare id, an embedded object, or
// split id/name fields.
func coerceRef(obj map[string]any, key, idKey, nameKey string) (id, name string) {
	ref := first(obj, key)
	if refObj, ok := asObject(ref); ok {
		id = asID(refObj)
		name = strings.TrimSpace(pickString(refObj, "name"))
	} else {
		id = asID(ref)
	}
	if id == "" {
		id = asID(first(obj, idKey))
	}
	if name == "" && nameKey != "" {
		name = strings.TrimSpace(pickString(obj, nameKey))
	}
	return id, name
}

func coercePricing(obj, fallback map[string]any) PricingFields {
	num := func(key string) *float64 {
		if n := pickNum(obj, key); n != nil {
			return n
		}
		if fallback != nil {
			return pickNum(fallback, key)
		}
		return nil
	}
	return PricingFields{
		MerchantPrice: num("merchantPrice"),
		FinalPrice:    num("finalPrice"),
		NubianMarkup:  num("nubianMarkup"),
		DynamicMarkup: num("dynamicMarkup"),
		DiscountPrice: num("discountPrice"),
	}
}

func coerceVariant(obj map[string]any, defs []AttributeDef) Variant {
	return Variant{
		ID:            asID(first(obj, "_id", "id")),
		SKU:           strings.TrimSpace(pickString(obj, "sku")),
		Attributes:    coerceVariantAttributes(first(obj, "attributes", "attrs"), defs),
		MerchantPrice: pickNum(obj, "merchantPrice"),
		Price:         pickNum(obj, "price"),
		NubianMarkup:  pickNum(obj, "nubianMarkup"),
		DynamicMarkup: pickNum(obj, "dynamicMarkup"),
		FinalPrice:    pickNum(obj, "finalPrice"),
		DiscountPrice: pickNum(obj, "discountPrice"),
		Stock:         asInt(first(obj, "stock", "quantity")),
		Images:        asStringSlice(first(obj, "images")),
		IsActive:      asBool(first(obj, "isActive"), true),
	}
}
