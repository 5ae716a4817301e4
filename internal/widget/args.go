package widget

import (
	"fmt"
	"math"
	"strconv"
)

// Arg returns args[i], or nil when out of range.
func Arg(args []any, i int) any {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i]
}

// ToInt coerces v into an int. Script runtimes hand numbers over as int64 or
// float64, YAML as int.
func ToInt(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		if n > math.MaxInt {
			return def
		}
		return int(n)
	case float32:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return def
		}
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// ToString coerces v into a string; nil becomes def.
func ToString(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// ToBool coerces v into a bool; only bools are accepted.
func ToBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
