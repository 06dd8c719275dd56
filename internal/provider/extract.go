package provider

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractValue normalizes a stat value from the shapes the data sources emit.
//
// CSV cells arrive as strings, JSON bodies as float64 or json.Number, and
// in-process tables as ints. Nested objects like {"total": 15} resolve to
// their aggregate.
//
// Returns the scalar float64 value, and ok=false if not extractable. NaN is
// never a value.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	case float32:
		return ExtractValue(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		return ExtractValue(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case map[string]interface{}:
		for _, key := range []string{"total", "all", "count"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// Text returns the string form of an identifier or name cell. Empty strings
// and nil are null.
func Text(val interface{}) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		s := fmt.Sprint(v)
		return s, s != ""
	}
}
