package binding

import (
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// HandleEvents installs, for every event whose WriteTo names a writable
// observable in options, a handler that writes the event value back into the
// observable and then calls whatever handler options held before.
//
// It must run before the widget is constructed: widgets read their handlers
// from the construction options. widgetAccessor is resolved lazily, on each
// event, because the widget does not exist yet when the handler is wrapped.
func HandleEvents(events map[string]EventSpec, options Options, widgetAccessor func() widget.Widget) {
	for _, event := range sortedKeys(events) {
		spec := events[event]
		target, ok := options[spec.WriteTo].(reactive.Writable)
		if !ok {
			continue
		}
		handleOneEvent(event, spec, target, options, widgetAccessor)
	}
}

func handleOneEvent(event string, spec EventSpec, target reactive.Writable, options Options, widgetAccessor func() widget.Widget) {
	existing := options[event]
	options[event] = widget.Handler(func(args ...any) {
		value := spec.Value
		if name, ok := spec.Value.(string); ok && widgetAccessor != nil {
			if result, called := widget.Call(widgetAccessor(), name); called {
				value = result
			}
		}

		target.Set(value)

		if existing != nil {
			widget.Invoke(existing, args...)
		}
	})
}
