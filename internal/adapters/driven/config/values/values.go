// Package values converts loosely typed configuration values.
//
// Each function takes the (value, found) pair returned by a map lookup so
// stores can write values.Int(s.Get(key)). Missing keys and values of the
// wrong type yield the zero value.
package values

// String returns v if it is a string.
func String(v any, found bool) string {
	s, _ := v.(string)
	if !found {
		return ""
	}
	return s
}

// Int returns v as an int. TOML decodes integers as int64, YAML as int,
// and JSON as float64.
func Int(v any, found bool) int {
	if !found {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// Float returns v as a float64, converting integers.
func Float(v any, found bool) float64 {
	if !found {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Bool returns v if it is a bool.
func Bool(v any, found bool) bool {
	b, _ := v.(bool)
	return found && b
}
