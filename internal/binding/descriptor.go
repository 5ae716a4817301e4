// Package binding turns a widget type descriptor into a bidirectional
// binding between observables and an imperative widget instance.
//
// A Factory registers one Binding per Descriptor in a Handlers table. Each
// time the table is applied to an element declaring that binding, Init
// resolves the widget options, wraps event handlers so widget events write
// back into observables, constructs (or, for child bindings, locates) the
// widget, installs one watcher per watched option that pushes observable
// changes into the widget, and ties the widget's destruction to the
// element's removal.
//
// Everything here runs on the UI loop goroutine; see internal/reactive.
package binding

import (
	"math"

	"github.com/joeycumines/widgetbind/internal/widget"
)

// Options is a widget options bag.
type Options map[string]any

// Callback is a free-form watch action.
type Callback func(value any, options Options, w widget.Widget)

// ActionKind tags the variant held by an Action.
type ActionKind int

const (
	// ActionMethod calls one widget method with the new value.
	ActionMethod ActionKind = iota + 1
	// ActionToggle calls one of two widget methods depending on truthiness.
	ActionToggle
	// ActionCallback runs a Callback.
	ActionCallback
)

func (k ActionKind) String() string {
	switch k {
	case ActionMethod:
		return "method"
	case ActionToggle:
		return "toggle"
	case ActionCallback:
		return "callback"
	default:
		return "invalid"
	}
}

// Action is what a watched option does to the widget when it changes.
type Action struct {
	kind     ActionKind
	method   string
	whenNot  string
	callback Callback
}

// Method is the action calling the widget method name.
func Method(name string) Action {
	return Action{kind: ActionMethod, method: name}
}

// Toggle is the action calling whenTruthy or whenFalsy depending on the
// truthiness of the new value, e.g. Toggle("open", "close").
func Toggle(whenTruthy, whenFalsy string) Action {
	return Action{kind: ActionToggle, method: whenTruthy, whenNot: whenFalsy}
}

// Func is the action running fn.
func Func(fn Callback) Action {
	return Action{kind: ActionCallback, callback: fn}
}

// Kind returns the variant tag.
func (a Action) Kind() ActionKind {
	return a.kind
}

// Methods returns the method names an action may call: one for Method, two
// for Toggle, none for Func.
func (a Action) Methods() []string {
	switch a.kind {
	case ActionMethod:
		return []string{a.method}
	case ActionToggle:
		return []string{a.method, a.whenNot}
	default:
		return nil
	}
}

// methodFor returns the method to call for value.
func (a Action) methodFor(value any) string {
	if a.kind == ActionToggle && !Truthy(value) {
		return a.whenNot
	}
	return a.method
}

// EventSpec describes a widget event that writes back into an observable.
// If Value is a string naming a method of the live widget, the method's
// result is written; otherwise Value itself is.
type EventSpec struct {
	Value   any
	WriteTo string
}

// Event is the shorthand spec where the method and the observable share a
// name, e.g. Event("value") for a change event.
func Event(name string) EventSpec {
	return EventSpec{Value: name, WriteTo: name}
}

// Descriptor is the static configuration of one widget type.
type Descriptor struct {
	// Name locates and constructs the widget, and is the default binding name.
	Name string
	// BindingName overrides the registered binding name.
	BindingName string
	// Parent, when set, makes this a child binding addressing the widget
	// owned by the nearest ancestor declaring the Parent binding.
	Parent string
	// DefaultOption receives the raw binding value when that value is not
	// an options object or lacks this key.
	DefaultOption string
	// OptionsFilter pre-processes the unwrapped binding value. It must not
	// mutate its argument.
	OptionsFilter func(v any) any
	// Watch maps option keys to the action run when their observable changes.
	Watch map[string]Action
	// Events maps widget event names to observable write-backs.
	Events map[string]EventSpec
	// Async defers widget construction to the next turn of the UI loop.
	Async bool
}

// RegisteredName is the name the binding is registered under.
func (d Descriptor) RegisteredName() string {
	if d.BindingName != "" {
		return d.BindingName
	}
	return d.Name
}

// WidgetName is the widget implementation the binding depends on.
func (d Descriptor) WidgetName() string {
	if d.Parent != "" {
		return d.Parent
	}
	return d.Name
}

// WatchedKeys returns the watched option keys, sorted.
func (d Descriptor) WatchedKeys() []string {
	return sortedKeys(d.Watch)
}

// EventNames returns the mapped event names, sorted.
func (d Descriptor) EventNames() []string {
	return sortedKeys(d.Events)
}

// Truthy reports whether v counts as true for Toggle actions: false, nil,
// numeric zero, NaN and "" are falsy; every other value is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}
