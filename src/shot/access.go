package shot

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SafeGet walks a decoded JSON tree along path and returns the value found there.
// Any missing key, or an intermediate value that is not an object, yields ok=false.
// An empty path returns the node itself.
func SafeGet(node any, path []string) (any, bool) {
	cur := node
	for _, k := range path {
		m, isMap := cur.(map[string]any)
		if !isMap {
			return nil, false
		}
		v, found := m[k]
		if !found {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// GetOr is SafeGet with a default for the not-found case. A JSON null counts as found.
func GetOr(node any, path []string, def any) any {
	if v, ok := SafeGet(node, path); ok {
		return v
	}
	return def
}

// Object returns the object at path, or nil when absent or not an object.
func Object(node any, path []string) map[string]any {
	v, ok := SafeGet(node, path)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// Float returns the numeric value at path. Booleans count as 0/1 and numeric strings are
// parsed; everything else (null, objects, arrays, NaN text) is not a number.
func Float(node any, path []string) (float64, bool) {
	v, ok := SafeGet(node, path)
	if !ok {
		return math.NaN(), false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return math.NaN(), false
		}
		return x, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return math.NaN(), false
		}
		return f, true
	}
	return math.NaN(), false
}

// ParsePath splits a dotted key ("shot.setpoints.flow") into a path.
func ParsePath(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}
