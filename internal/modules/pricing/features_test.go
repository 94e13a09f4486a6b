package pricing_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/georgemunganga/storefront-api/internal/modules/pricing"
	"github.com/georgemunganga/storefront-api/internal/modules/product"
)

type pricingTestContext struct {
	product   product.NormalizedProduct
	selection map[string]string
	matched   *product.Variant
	price     pricing.ResolvedPrice
}

func (c *pricingTestContext) reset() {
	c.product = product.NormalizedProduct{}
	c.selection = map[string]string{}
	c.matched = nil
	c.price = pricing.ResolvedPrice{}
}

func (c *pricingTestContext) aProductWithVariants(id string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("variant table needs a header and at least one row")
	}
	var header []string
	for _, cell := range table.Rows[0].Cells {
		header = append(header, cell.Value)
	}

	variants := []any{}
	for _, row := range table.Rows[1:] {
		v := map[string]any{}
		attrs := []any{}
		for i, cell := range row.Cells {
			switch col := header[i]; col {
			case "id":
				v["_id"] = cell.Value
			case "merchantPrice", "finalPrice", "stock":
				if cell.Value != "" {
					v[col] = cell.Value
				}
			case "isActive":
				v[col] = cell.Value == "true"
			default:
				attrs = append(attrs, map[string]any{"name": col, "value": cell.Value})
			}
		}
		v["attributes"] = attrs
		variants = append(variants, v)
	}
	c.product = product.Normalize(map[string]any{"_id": id, "name": id, "variants": variants})
	return nil
}

func (c *pricingTestContext) iPriceTheProductWithoutASelection() error {
	c.price = pricing.ResolvePrice(pricing.Input{Product: c.product, Currency: "SDG"})
	return nil
}

func (c *pricingTestContext) iSelectNothing() error {
	return c.resolve()
}

func (c *pricingTestContext) iSelect(attr, value string) error {
	c.selection[attr] = value
	return c.resolve()
}

func (c *pricingTestContext) iSelectTwo(attr1, value1, attr2, value2 string) error {
	c.selection[attr1] = value1
	c.selection[attr2] = value2
	return c.resolve()
}

func (c *pricingTestContext) resolve() error {
	c.matched = product.MatchVariant(c.product, c.selection)
	c.price = pricing.ResolvePrice(pricing.Input{Product: c.product, SelectedVariant: c.matched, Currency: "SDG"})
	return nil
}

func (c *pricingTestContext) theShopperHasChosen(attr, value string) error {
	c.selection[attr] = value
	return nil
}

func (c *pricingTestContext) thePriceSourceIs(source string) error {
	if string(c.price.Source) != source {
		return fmt.Errorf("expected source %q, got %q", source, c.price.Source)
	}
	return nil
}

func (c *pricingTestContext) aSelectionIsRequired() error {
	if !c.price.RequiresSelection {
		return fmt.Errorf("expected a selection to be required")
	}
	return nil
}

func (c *pricingTestContext) aSelectionIsNotRequired() error {
	if c.price.RequiresSelection {
		return fmt.Errorf("expected no selection to be required")
	}
	return nil
}

func (c *pricingTestContext) noVariantIsMatched() error {
	if c.matched != nil {
		return fmt.Errorf("expected no match, got variant %q", c.matched.ID)
	}
	return nil
}

func (c *pricingTestContext) variantIsMatched(id string) error {
	if c.matched == nil {
		return fmt.Errorf("expected variant %q, got no match", id)
	}
	if c.matched.ID != id {
		return fmt.Errorf("expected variant %q, got %q", id, c.matched.ID)
	}
	return nil
}

func (c *pricingTestContext) theFinalPriceIs(want float64) error {
	return expectAmount("final price", want, c.price.Final)
}

func (c *pricingTestContext) theMerchantPriceIs(want float64) error {
	return expectAmount("merchant price", want, c.price.Merchant)
}

func (c *pricingTestContext) theOriginalPriceIs(want float64) error {
	return expectAmount("original price", want, c.price.Original)
}

func (c *pricingTestContext) noDiscountIsShown() error {
	if c.price.Discount != nil {
		return fmt.Errorf("expected no discount, got %+v", *c.price.Discount)
	}
	return nil
}

func (c *pricingTestContext) theDiscountIs(amount float64, percentage int) error {
	if c.price.Discount == nil {
		return fmt.Errorf("expected a discount, got none")
	}
	if err := expectAmount("discount", amount, c.price.Discount.Amount); err != nil {
		return err
	}
	return expectAmount("discount percentage", float64(percentage), c.price.Discount.Percentage)
}

func (c *pricingTestContext) optionIs(attr, value, availability string) error {
	got := product.IsOptionAvailable(c.product, attr, value, c.selection)
	if want := availability == "available"; got != want {
		return fmt.Errorf("expected %s=%s to be %s", attr, value, availability)
	}
	return nil
}

func (c *pricingTestContext) theDisplayPriceIsFrom(want float64) error {
	d := pricing.DisplayPrice(c.product)
	if !d.IsFrom {
		return fmt.Errorf("expected a \"from\" price")
	}
	return expectAmount("display price", want, d.Price)
}

func (c *pricingTestContext) theDisplayVariantIs(id string) error {
	v := product.PickDisplayVariant(c.product)
	if v == nil || v.ID != id {
		return fmt.Errorf("expected display variant %q, got %v", id, v)
	}
	return nil
}

func expectAmount(what string, want, got float64) error {
	if want != got {
		return fmt.Errorf("expected %s %s, got %s", what,
			strconv.FormatFloat(want, 'f', -1, 64), strconv.FormatFloat(got, 'f', -1, 64))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^a product "([^"]*)" with variants:$`, tc.aProductWithVariants)
	ctx.Step(`^I price the product without a selection$`, tc.iPriceTheProductWithoutASelection)
	ctx.Step(`^I select nothing$`, tc.iSelectNothing)
	ctx.Step(`^I select "([^"]*)" = "([^"]*)"$`, tc.iSelect)
	ctx.Step(`^I select "([^"]*)" = "([^"]*)" and "([^"]*)" = "([^"]*)"$`, tc.iSelectTwo)
	ctx.Step(`^the shopper has chosen "([^"]*)" = "([^"]*)"$`, tc.theShopperHasChosen)
	ctx.Step(`^the price source is "([^"]*)"$`, tc.thePriceSourceIs)
	ctx.Step(`^a selection is required$`, tc.aSelectionIsRequired)
	ctx.Step(`^a selection is not required$`, tc.aSelectionIsNotRequired)
	ctx.Step(`^no variant is matched$`, tc.noVariantIsMatched)
	ctx.Step(`^variant "([^"]*)" is matched$`, tc.variantIsMatched)
	ctx.Step(`^the final price is (\d+(?:\.\d+)?)$`, tc.theFinalPriceIs)
	ctx.Step(`^the merchant price is (\d+(?:\.\d+)?)$`, tc.theMerchantPriceIs)
	ctx.Step(`^the original price is (\d+(?:\.\d+)?)$`, tc.theOriginalPriceIs)
	ctx.Step(`^no discount is shown$`, tc.noDiscountIsShown)
	ctx.Step(`^the discount is (\d+(?:\.\d+)?) or (\d+) percent$`, tc.theDiscountIs)
	ctx.Step(`^option "([^"]*)" = "([^"]*)" is (available|unavailable)$`, tc.optionIs)
	ctx.Step(`^the display price is (\d+(?:\.\d+)?) from$`, tc.theDisplayPriceIsFrom)
	ctx.Step(`^the display variant is "([^"]*)"$`, tc.theDisplayVariantIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
