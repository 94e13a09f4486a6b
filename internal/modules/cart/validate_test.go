package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

func snapshot() Products {
	return Products{
		"tee": product.NormalizeJSON([]byte(`{
			"_id": "tee", "name": "Classic Tee",
			"variants": [
				{"_id": "m", "sku": "TEE-M", "attributes": [{"name": "Size", "value": "M"}], "merchantPrice": 2000, "stock": 0},
				{"_id": "l", "sku": "TEE-L", "attributes": [{"name": "Size", "value": "L"}], "merchantPrice": 2500, "finalPrice": 2750, "stock": 5}
			]
		}`)),
		"mug":     product.NormalizeJSON([]byte(`{"_id": "mug", "name": "Mug", "merchantPrice": 100, "stock": 10}`)),
		"retired": product.NormalizeJSON([]byte(`{"_id": "retired", "name": "Old Tee", "isActive": false, "variants": [{"_id": "x", "stock": 1}]}`)),
	}
}

func TestValidateCart_Valid(t *testing.T) {
	res := ValidateCart([]Line{{ProductID: "tee", Attributes: map[string]string{"Size": "L"}, Quantity: 2}}, snapshot())

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateCart_SimpleProductRejected(t *testing.T) {
	res := ValidateCart([]Line{{ProductID: "mug", Quantity: 1}}, snapshot())

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Line 1: Mug cannot be purchased through the cart"}, res.Errors)
}

func TestValidateCart_CollectsEveryError(t *testing.T) {
	lines := []Line{
		{ProductID: "gone", Quantity: 1},
		{ProductID: "retired", Attributes: map[string]string{"size": "m"}, Quantity: 1},
		{ProductID: "tee", Quantity: 1},
		{ProductID: "tee", Attributes: map[string]string{"size": "m"}, Quantity: 1},
		{ProductID: "tee", Attributes: map[string]string{"size": "xxl"}, Quantity: 1},
		{ProductID: "tee", Attributes: map[string]string{"size": "l"}, Quantity: 1},
	}

	res := ValidateCart(lines, snapshot())

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"Line 1: product gone is no longer available",
		"Line 2: Old Tee is not currently for sale",
		"Line 3: choose options for Classic Tee",
		"Line 4: the selected option of Classic Tee is out of stock",
		"Line 5: the selected options for Classic Tee are not available",
	}, res.Errors)
}

func TestValidateCart_IgnoresStaleVariantCache(t *testing.T) {
	lines := []Line{{ProductID: "tee", VariantID: "l", Attributes: map[string]string{"size": "m"}, Quantity: 1}}

	res := ValidateCart(lines, snapshot())

	assert.False(t, res.Valid, "attributes are the source of truth, not the cached id")
}

func TestCartTotal(t *testing.T) {
	products := snapshot()

	assert.Equal(t, 0.0, CartTotal(nil, products))
	assert.Equal(t, 0.0, CartTotal([]Line{{ProductID: "gone", Quantity: 3}}, products))

	lines := []Line{
		{ProductID: "tee", Attributes: map[string]string{"size": "l"}, Quantity: 2},
		{ProductID: "tee", Attributes: map[string]string{"size": "L"}, Quantity: 0},
		{ProductID: "gone", Quantity: 4},
	}
	assert.Equal(t, 2750.0*3, CartTotal(lines, products))
}

func TestCartTotal_UnbuyableLinesAreFree(t *testing.T) {
	products := Products{
		"tee": product.NormalizeJSON([]byte(`{
			"_id": "tee", "name": "Classic Tee", "displayFinalPrice": 999,
			"variants": [
				{"_id": "m", "attributes": {"size": "M"}, "finalPrice": 2000, "stock": 0},
				{"_id": "l", "attributes": {"size": "L"}, "finalPrice": 2750, "stock": 5}
			]
		}`)),
	}
	lines := []Line{
		{ProductID: "tee", Attributes: map[string]string{"size": "m"}, Quantity: 2},
		{ProductID: "tee", Quantity: 1},
		{ProductID: "tee", Attributes: map[string]string{"size": "l"}, Quantity: 1},
	}

	assert.False(t, ValidateCart(lines, products).Valid)
	assert.Equal(t, 2750.0, CartTotal(lines, products), "the display figure is not a purchase price")

	priced := PriceLines(lines, products)
	require.Len(t, priced, 3)
	assert.Equal(t, 0.0, priced[0].UnitPrice)
	assert.Equal(t, 0.0, priced[0].LineTotal)
	assert.Equal(t, "", priced[0].VariantID)
	assert.Equal(t, 0.0, priced[1].LineTotal)
}

func TestPriceLines(t *testing.T) {
	lines := []Line{
		{ProductID: "gone", Quantity: 1},
		{ProductID: "tee", Attributes: map[string]string{"size": "l"}, Quantity: 3},
	}

	priced := PriceLines(lines, snapshot())

	require.Len(t, priced, 1)
	assert.Equal(t, PricedLine{
		Index:      1,
		ProductID:  "tee",
		VariantID:  "l",
		SKU:        "TEE-L",
		Attributes: map[string]string{"size": "l"},
		Quantity:   3,
		UnitPrice:  2750,
		LineTotal:  8250,
	}, priced[0])
}

func TestReconcileLines(t *testing.T) {
	lines := []Line{
		{ProductID: "tee", VariantID: "m", Attributes: map[string]string{"size": "l"}, Quantity: 1},
		{ProductID: "tee", VariantID: "l", Attributes: map[string]string{"size": "m"}, Quantity: 1},
		{ProductID: "gone", VariantID: "keep", Quantity: 1},
	}

	out := ReconcileLines(lines, snapshot())

	assert.Equal(t, "l", out[0].VariantID)
	assert.Equal(t, "", out[1].VariantID)
	assert.Equal(t, "keep", out[2].VariantID)
	assert.Equal(t, "m", lines[0].VariantID, "input must not be modified")
}
