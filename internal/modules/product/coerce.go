package product

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// asNum returns nil for anything that is not a finite number so callers can
// tell "absent" apart from an explicit zero.
func asNum(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case *float64:
		if n == nil {
			return nil
		}
		f = *n
	case map[string]any:
		// relaxed extended JSON numbers: {"$numberDecimal": "12.50"}
		for _, k := range []string{"$numberDecimal", "$numberDouble", "$numberLong", "$numberInt"} {
			if w, ok := n[k]; ok {
				return asNum(w)
			}
		}
		return nil
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func asInt(v any) int {
	if f := asNum(v); f != nil {
		return toInt(*f)
	}
	return 0
}

func asIntPtr(v any) *int {
	if f := asNum(v); f != nil {
		n := toInt(*f)
		return &n
	}
	return nil
}

// toInt truncates f, saturating at the int range.
func toInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(math.Trunc(f))
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case map[string]any:
		// extended JSON wrappers: {"$date": "..."}, {"$oid": "..."}
		if v, ok := s["$date"]; ok {
			return asString(v)
		}
		if v, ok := s["$oid"]; ok {
			return asString(v)
		}
	}
	return ""
}

// asID accepts a bare id, a number, a Mongo extended-JSON {"$oid": ...}
// wrapper, or an embedded document carrying its own _id.
func asID(v any) string {
	if obj, ok := asObject(v); ok {
		if oid, ok := pick(obj, "$oid"); ok {
			return strings.TrimSpace(asString(oid))
		}
		if id, ok := pick(obj, "_id", "id"); ok {
			return asID(id)
		}
		return ""
	}
	return strings.TrimSpace(asString(v))
}

func asNullableString(v any) *string {
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return nil
	}
	return &s
}

func asBool(v any, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return def
		}
		return parsed
	case float64:
		return b != 0
	case int:
		return b != 0
	case *bool:
		if b != nil {
			return *b
		}
	}
	return def
}

// asStringSlice keeps the order of the input and drops blanks. Objects are
// read through their url/src/value/label field, which covers image payloads.
func asStringSlice(v any) []string {
	out := []string{}
	switch items := v.(type) {
	case string:
		if s := strings.TrimSpace(items); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, it := range items {
			if s := strings.TrimSpace(it); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range items {
			var s string
			if obj, ok := asObject(it); ok {
				if val, ok := pick(obj, "url", "src", "value", "label", "name"); ok {
					s = asString(val)
				}
			} else {
				s = asString(it)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case map[string]string:
		out := make(map[string]any, len(obj))
		for k, s := range obj {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// pick returns the first non-nil value among keys, trying exact names before
// a case-insensitive scan. The scan visits names in sorted order so payloads
// carrying several spellings of a key resolve the same way every time.
func pick(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, k := range keys {
		for _, name := range names {
			if v := obj[name]; v != nil && strings.EqualFold(name, k) {
				return v, true
			}
		}
	}
	return nil, false
}

func pickNum(obj map[string]any, keys ...string) *float64 {
	v, _ := pick(obj, keys...)
	return asNum(v)
}

func pickString(obj map[string]any, keys ...string) string {
	v, _ := pick(obj, keys...)
	return asString(v)
}

// NormalizeKey is the single normalization applied to attribute names and
// values wherever they are compared.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSelection normalizes keys and values and drops blank entries.
func NormalizeSelection(sel map[string]string) Selection {
	out := make(Selection, len(sel))
	for k, v := range sel {
		key := NormalizeKey(k)
		val := NormalizeKey(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}
