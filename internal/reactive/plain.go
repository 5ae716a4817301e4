package reactive

import (
	"reflect"
)

// ToPlain returns a copy of v with every reactive value, at any depth,
// replaced by its current value. Maps keyed by strings become map[string]any
// and slices (other than []byte) become []any; everything else is returned
// as is. Reading through ToPlain registers dependencies like Unwrap.
func ToPlain(v any) any {
	v = Unwrap(v)
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ToPlain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToPlain(e)
		}
		return out
	case []byte, string:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = ToPlain(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = ToPlain(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}
