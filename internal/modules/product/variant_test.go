package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shirt() NormalizedProduct {
	return NormalizeJSON([]byte(`{
		"_id": "shirt",
		"attributes": [{"name": "Size", "options": ["S", "M", "L", "XL"]}, {"name": "Color", "options": ["Red", "Blue"]}],
		"variants": [
			{"_id": "m-red",  "attributes": {"size": "M", "color": "Red"},  "finalPrice": 30, "stock": 2},
			{"_id": "m-blue", "attributes": {"size": "M", "color": "Blue"}, "finalPrice": 25, "stock": 4},
			{"_id": "l-red",  "attributes": {"size": "L", "color": "Red"},  "finalPrice": 25, "stock": 0},
			{"_id": "l-blue", "attributes": {"size": "L", "color": "Blue"}, "finalPrice": 20, "stock": 1, "isActive": false},
			{"_id": "s-red",  "attributes": {"size": "S", "color": "Red"},  "merchantPrice": 25, "stock": 9}
		]
	}`))
}

func TestMatchVariant_EmptySelection(t *testing.T) {
	p := shirt()
	assert.Nil(t, MatchVariant(p, nil))
	assert.Nil(t, MatchVariant(p, map[string]string{}))
	assert.Nil(t, MatchVariant(p, map[string]string{" ": "m", "size": " "}))
}

func TestMatchVariant_ExactSelection(t *testing.T) {
	p := NormalizeJSON([]byte(`{"variants":[{"_id":"v1","attributes":{"size":"M"},"stock":5,"isActive":true}]}`))

	v := MatchVariant(p, map[string]string{"size": "M"})
	require.NotNil(t, v)
	assert.Equal(t, "v1", v.ID)
}

func TestMatchVariant_SupersetFirstMatchWins(t *testing.T) {
	v := MatchVariant(shirt(), map[string]string{"Size": "m"})
	require.NotNil(t, v)
	assert.Equal(t, "m-red", v.ID)
}

func TestMatchVariant_SkipsUnselectable(t *testing.T) {
	p := shirt()
	assert.Nil(t, MatchVariant(p, map[string]string{"size": "l", "color": "red"}), "out of stock")
	assert.Nil(t, MatchVariant(p, map[string]string{"size": "l", "color": "blue"}), "inactive")

	declared := MatchDeclaredVariant(p, map[string]string{"size": "l", "color": "red"})
	require.NotNil(t, declared)
	assert.Equal(t, "l-red", declared.ID)
}

func TestMatchVariant_ReturnsCopy(t *testing.T) {
	p := shirt()
	v := MatchVariant(p, map[string]string{"size": "m", "color": "red"})
	require.NotNil(t, v)
	v.Stock = 0
	assert.Equal(t, 2, p.Variants[0].Stock)
}

func TestPickDisplayVariant(t *testing.T) {
	v := PickDisplayVariant(shirt())
	require.NotNil(t, v)
	assert.Equal(t, "m-blue", v.ID, "cheapest selectable, earlier variant wins the tie with s-red")

	none := NormalizeJSON([]byte(`{"variants":[{"_id":"x","stock":0}]}`))
	assert.Nil(t, PickDisplayVariant(none))

	unpriced := NormalizeJSON([]byte(`{"variants":[{"_id":"a","stock":1},{"_id":"b","price":5,"stock":1}]}`))
	require.NotNil(t, PickDisplayVariant(unpriced))
	assert.Equal(t, "b", PickDisplayVariant(unpriced).ID)
}

func TestVariant_ListPrice(t *testing.T) {
	price, ok := Variant{FinalPrice: ptr(0), DiscountPrice: ptr(8), MerchantPrice: ptr(10)}.ListPrice()
	assert.True(t, ok)
	assert.Equal(t, 8.0, price)

	_, ok = Variant{}.ListPrice()
	assert.False(t, ok)
}
