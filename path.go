package formula

import (
	"reflect"
	"strings"
)

// Bindings maps variable names to values for one evaluation. Values are
// numbers, numeric strings, booleans, or nested maps keyed by strings for
// dotted names. Evaluation never modifies Bindings.
type Bindings map[string]any

// Resolve finds the value bound to a variable name. An exact key match wins.
// Otherwise, a dotted name is looked up one segment at a time through nested
// maps. The result is false if any segment is missing or reaches a value that
// is not a map.
func Resolve(b Bindings, name string) (any, bool) {
	if v, ok := b[name]; ok {
		return v, true
	}
	if !strings.Contains(name, ".") {
		return nil, false
	}
	var cur any = b
	for _, seg := range strings.Split(name, ".") {
		v, ok := lookupKey(cur, seg)
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// lookupKey gets one key from a map with string keys.
func lookupKey(m any, key string) (any, bool) {
	switch m := m.(type) {
	case Bindings:
		v, ok := m[key]
		return v, ok
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]float64:
		v, ok := m[key]
		return v, ok
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}
