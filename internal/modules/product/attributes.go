package product

// AttributeOptions returns every known attribute name with the options a
// shopper can pick. Declared definitions come first and fix the order; values
// observed on selectable variants supplement them. For products with variants
// a declared option no selectable variant carries is left out, since the
// definition is only a hint and the variants decide what can be bought.
func AttributeOptions(p NormalizedProduct) map[string][]string {
	out := make(map[string][]string, len(p.AttributeDefs))

	if !p.HasVariants() {
		for _, d := range p.AttributeDefs {
			out[d.Name] = append([]string{}, d.Options...)
		}
		return out
	}

	observed := map[string]map[string]bool{}
	valuesInOrder := map[string][]string{}
	var order []string
	for _, v := range p.SelectableVariants() {
		for k, val := range v.Attributes {
			if observed[k] == nil {
				observed[k] = map[string]bool{}
				order = append(order, k)
			}
			if !observed[k][val] {
				observed[k][val] = true
				valuesInOrder[k] = append(valuesInOrder[k], val)
			}
		}
	}

	for _, d := range p.AttributeDefs {
		opts := []string{}
		for _, o := range d.Options {
			if observed[d.Name][o] {
				opts = append(opts, o)
			}
		}
		out[d.Name] = opts
	}
	for _, k := range order {
		listed := map[string]bool{}
		for _, o := range out[k] {
			listed[o] = true
		}
		for _, val := range valuesInOrder[k] {
			if !listed[val] {
				out[k] = append(out[k], val)
			}
		}
	}
	return out
}

// IsOptionAvailable reports whether choosing attr=value still leaves at least
// one selectable variant that agrees with every other current selection.
// Products without variants have no combinations to rule out.
func IsOptionAvailable(p NormalizedProduct, attr, value string, current map[string]string) bool {
	if !p.HasVariants() {
		return true
	}
	key := NormalizeKey(attr)
	val := NormalizeKey(value)
	if val == "" {
		return false
	}
	others := NormalizeSelection(current)
	delete(others, key)

	for _, v := range p.SelectableVariants() {
		if v.Attributes[key] != val {
			continue
		}
		if matchesSelection(v, others) {
			return true
		}
	}
	return false
}

// matchesSelection reports whether v carries every selected pair. Attributes
// on v that the selection does not mention are ignored.
func matchesSelection(v Variant, sel Selection) bool {
	for k, want := range sel {
		if v.Attributes[k] != want {
			return false
		}
	}
	return true
}
