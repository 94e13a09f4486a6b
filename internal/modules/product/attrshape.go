package product

import (
	"sort"
	"strings"
)

// attrShape tags the runtime shape an attribute payload arrived in. Each shape
// has exactly one coercion function below.
type attrShape int

const (
	shapeUnknown attrShape = iota
	shapeArray             // [{name, value}, ...] or ["XL"]
	shapeObject            // {"Size": "XL"} decoded from JSON
	shapeMap               // map[string]string handed in by Go callers
	shapeString            // "XL" when only one dimension exists
)

func classifyAttributes(raw any) attrShape {
	switch raw.(type) {
	case []any, []string:
		return shapeArray
	case map[string]any:
		return shapeObject
	case map[string]string, Selection:
		return shapeMap
	case string:
		return shapeString
	}
	return shapeUnknown
}

// coerceVariantAttributes turns any tolerated shape into a normalized
// name -> value mapping. Bare strings are only attributed when a single
// definition exists; with several candidates nothing is guessed.
func coerceVariantAttributes(raw any, defs []AttributeDef) map[string]string {
	switch classifyAttributes(raw) {
	case shapeArray:
		return attrsFromArray(toAnySlice(raw), defs)
	case shapeObject:
		return attrsFromObject(raw.(map[string]any))
	case shapeMap:
		return attrsFromMap(toStringMap(raw))
	case shapeString:
		return attrsFromString(raw.(string), defs)
	}
	return map[string]string{}
}

func attrsFromArray(items []any, defs []AttributeDef) map[string]string {
	out := map[string]string{}
	var bare []string
	for _, it := range items {
		if obj, ok := asObject(it); ok {
			key := NormalizeKey(pickString(obj, "name", "key", "attr"))
			val := NormalizeKey(attrValue(obj))
			if key != "" && val != "" {
				out[key] = val
			}
			continue
		}
		if s := NormalizeKey(asString(it)); s != "" {
			bare = append(bare, s)
		}
	}
	if len(bare) > 0 && len(defs) == 1 {
		if _, set := out[defs[0].Name]; !set {
			out[defs[0].Name] = bare[0]
		}
	}
	return out
}

func attrsFromObject(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		key := NormalizeKey(k)
		var val string
		if inner, ok := asObject(v); ok {
			val = attrValue(inner)
		} else {
			val = asString(v)
		}
		if val = NormalizeKey(val); key != "" && val != "" {
			out[key] = val
		}
	}
	return out
}

func attrsFromMap(m map[string]string) map[string]string {
	return map[string]string(NormalizeSelection(m))
}

func attrsFromString(s string, defs []AttributeDef) map[string]string {
	out := map[string]string{}
	if v := NormalizeKey(s); v != "" && len(defs) == 1 {
		out[defs[0].Name] = v
	}
	return out
}

func attrValue(obj map[string]any) string {
	return pickString(obj, "value", "val", "option", "label")
}

func toAnySlice(raw any) []any {
	switch items := raw.(type) {
	case []any:
		return items
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	}
	return nil
}

func toStringMap(raw any) map[string]string {
	switch m := raw.(type) {
	case map[string]string:
		return m
	case Selection:
		return m
	}
	return nil
}

// coerceAttributeDefs reads product-level definitions delivered either as an
// array of definition objects or as a map of name -> options.
func coerceAttributeDefs(raw any) []AttributeDef {
	defs := []AttributeDef{}
	seen := map[string]bool{}
	add := func(d AttributeDef) {
		if d.Name == "" || seen[d.Name] {
			return
		}
		seen[d.Name] = true
		defs = append(defs, d)
	}

	switch classifyAttributes(raw) {
	case shapeArray:
		for _, it := range toAnySlice(raw) {
			if obj, ok := asObject(it); ok {
				add(defFromObject(obj))
				continue
			}
			name := strings.TrimSpace(asString(it))
			add(AttributeDef{Name: NormalizeKey(name), DisplayName: name, Type: AttributeSelect, Options: []string{}})
		}
	case shapeObject:
		obj := raw.(map[string]any)
		names := make([]string, 0, len(obj))
		for k := range obj {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			d := AttributeDef{
				Name:        NormalizeKey(k),
				DisplayName: strings.TrimSpace(k),
				Type:        AttributeSelect,
			}
			if inner, ok := asObject(obj[k]); ok {
				named := make(map[string]any, len(inner)+1)
				for ik, iv := range inner {
					named[ik] = iv
				}
				named["name"] = k
				d = defFromObject(named)
			} else {
				d.Options = normalizeOptions(obj[k])
			}
			add(d)
		}
	}
	return defs
}

func defFromObject(obj map[string]any) AttributeDef {
	rawName := strings.TrimSpace(pickString(obj, "name", "key", "attr"))
	display := strings.TrimSpace(pickString(obj, "displayName", "label"))
	if display == "" {
		display = rawName
	}
	optsRaw, _ := pick(obj, "options", "values")
	req, _ := pick(obj, "required")
	typ, _ := pick(obj, "type")
	return AttributeDef{
		ID:          asID(obj["_id"]),
		Name:        NormalizeKey(rawName),
		DisplayName: display,
		Type:        coerceAttributeType(typ),
		Required:    asBool(req, false),
		Options:     normalizeOptions(optsRaw),
	}
}

func coerceAttributeType(v any) AttributeType {
	switch t := AttributeType(NormalizeKey(asString(v))); t {
	case AttributeSelect, AttributeText, AttributeNumber:
		return t
	}
	return AttributeSelect
}

// normalizeOptions returns a de-duplicated, order-preserving option set.
func normalizeOptions(v any) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range asStringSlice(v) {
		n := NormalizeKey(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
