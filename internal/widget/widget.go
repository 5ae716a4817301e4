// Package widget defines the contract of imperative widgets as bindings see
// them: instances constructed by name from an options bag, exposing named
// methods called with positional arguments, reading event handlers from
// their options, and optionally destroyable.
package widget

// Method is a named widget capability.
type Method func(args ...any) any

// Widget resolves methods by name. A widget that lacks a capability reports
// false rather than failing.
type Widget interface {
	Method(name string) (Method, bool)
}

// Destroyer is implemented by widgets that release resources when their
// element goes away.
type Destroyer interface {
	Destroy()
}

// Handler is the event handler type widgets look for in their options.
type Handler func(args ...any)

// Host is where constructed instances are attached, keyed by widget name.
type Host interface {
	Data(key string) (any, bool)
	SetData(key string, value any)
}

// Methods is a Widget backed by a method table.
type Methods map[string]Method

// Method implements Widget.
func (m Methods) Method(name string) (Method, bool) {
	fn, ok := m[name]
	return fn, ok && fn != nil
}

// Call invokes name on w, returning false when w is nil or lacks the method.
func Call(w Widget, name string, args ...any) (any, bool) {
	if w == nil {
		return nil, false
	}
	fn, ok := w.Method(name)
	if !ok {
		return nil, false
	}
	return fn(args...), true
}

// Invoke calls handler with args if it is a supported function type and
// reports whether it did.
func Invoke(handler any, args ...any) bool {
	switch h := handler.(type) {
	case Handler:
		h(args...)
	case func(...any):
		h(args...)
	case func():
		h()
	case func(any):
		var arg any
		if len(args) > 0 {
			arg = args[0]
		}
		h(arg)
	default:
		return false
	}
	return true
}

// Trigger fires event by invoking the handler stored under that key in
// options, if any.
func Trigger(options map[string]any, event string, args ...any) bool {
	if options == nil {
		return false
	}
	return Invoke(options[event], args...)
}
