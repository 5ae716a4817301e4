package binding

import (
	"maps"

	"github.com/joeycumines/widgetbind/internal/reactive"
)

// BuildOptions resolves the live options of one binding instance: a shallow
// copy of global, overlaid with the binding value.
//
// The value is unwrapped once and passed through d.OptionsFilter. If the
// result is not an options object, or d.DefaultOption is set and missing from
// it, the raw accessor value (observable intact) is stored under
// d.DefaultOption. Otherwise the object's keys are merged over the defaults.
// A non-object value with no DefaultOption to receive it is dropped.
//
// The returned options still hold observables; see CleanOptions.
func BuildOptions(d Descriptor, global Options, valueAccessor func() any) Options {
	options := maps.Clone(global)
	if options == nil {
		options = make(Options)
	}

	var raw any
	if valueAccessor != nil {
		raw = valueAccessor()
	}
	valueOrOptions := reactive.Unwrap(raw)
	if d.OptionsFilter != nil {
		valueOrOptions = d.OptionsFilter(valueOrOptions)
	}

	obj, isObject := asOptions(valueOrOptions)
	if !isObject || (d.DefaultOption != "" && !hasKey(obj, d.DefaultOption)) {
		if d.DefaultOption != "" {
			options[d.DefaultOption] = raw
		}
		return options
	}
	maps.Copy(options, obj)
	return options
}

// CleanOptions returns the construction options for the widget: a copy of
// options with exactly one layer of observables unwrapped. Handlers and other
// non-observable values pass through unchanged.
func CleanOptions(options Options) Options {
	clean := make(Options, len(options))
	for k, v := range options {
		clean[k] = reactive.Unwrap(v)
	}
	return clean
}

func asOptions(v any) (Options, bool) {
	switch t := v.(type) {
	case Options:
		return t, t != nil
	case map[string]any:
		return Options(t), t != nil
	default:
		return nil, false
	}
}

func hasKey(options Options, key string) bool {
	_, ok := options[key]
	return ok
}
