package widget

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// Reflect adapts an arbitrary Go value into a Widget whose methods are the
// value's exported methods, addressed by their lowerCamel names ("setValue"
// resolves SetValue). Arguments are converted to the parameter types where
// Go allows it; missing or unconvertible arguments become zero values.
// Calls return the first result, or nil.
//
// The result also implements Destroyer when v does.
func Reflect(v any) Widget {
	r := &reflected{value: reflect.ValueOf(v)}
	if d, ok := v.(Destroyer); ok {
		return &reflectedDestroyer{reflected: r, destroyer: d}
	}
	return r
}

type reflected struct {
	value reflect.Value
}

type reflectedDestroyer struct {
	*reflected
	destroyer Destroyer
}

func (r *reflectedDestroyer) Destroy() {
	r.destroyer.Destroy()
}

func (r *reflected) Method(name string) (Method, bool) {
	if !r.value.IsValid() || name == "" {
		return nil, false
	}
	m := r.value.MethodByName(exportedName(name))
	if !m.IsValid() {
		return nil, false
	}
	return func(args ...any) any {
		out := m.Call(convertArgs(m.Type(), args))
		if len(out) == 0 {
			return nil
		}
		return out[0].Interface()
	}, true
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func convertArgs(t reflect.Type, args []any) []reflect.Value {
	n := t.NumIn()
	if t.IsVariadic() {
		fixed := n - 1
		in := make([]reflect.Value, 0, max(len(args), fixed))
		for i := 0; i < fixed; i++ {
			in = append(in, convertArg(t.In(i), argAt(args, i)))
		}
		elem := t.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			in = append(in, convertArg(elem, args[i]))
		}
		return in
	}
	in := make([]reflect.Value, n)
	for i := range in {
		in[i] = convertArg(t.In(i), argAt(args, i))
	}
	return in
}

func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func convertArg(t reflect.Type, arg any) reflect.Value {
	if arg == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(t):
		return v
	case v.Type().ConvertibleTo(t) && convertible(v.Kind(), t.Kind()):
		return v.Convert(t)
	default:
		return reflect.Zero(t)
	}
}

// convertible limits conversions to numeric<->numeric and string<->string;
// reflect would otherwise happily turn an int into a one-rune string.
func convertible(from, to reflect.Kind) bool {
	return (numeric(from) && numeric(to)) || (from == reflect.String && to == reflect.String)
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
