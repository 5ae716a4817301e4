package binding

import (
	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// WatchValues installs one watcher per watched option that holds an
// observable. Each watcher is a computed cell scoped to el: it runs its
// action once immediately, again on every change of the observable, and
// never after el is removed.
func WatchValues(w widget.Widget, options Options, d Descriptor, el *dom.Node) []*reactive.Computed {
	var watchers []*reactive.Computed
	for _, prop := range d.WatchedKeys() {
		if !reactive.IsObservable(options[prop]) {
			continue
		}
		watchers = append(watchers, watchOneValue(prop, d.Watch[prop], w, options, d, el))
	}
	return watchers
}

func watchOneValue(prop string, action Action, w widget.Widget, options Options, d Descriptor, el *dom.Node) *reactive.Computed {
	return reactive.NewComputed(func() any {
		value := reactive.Unwrap(options[prop])

		if action.Kind() == ActionCallback {
			if action.callback != nil {
				action.callback(value, options, w)
			}
			return nil
		}

		// child widget APIs address the item by element
		params := []any{value}
		if d.Parent != "" {
			params = []any{el, value}
		}
		widget.Call(w, action.methodFor(value), params...)
		return nil
	}, reactive.DisposeWhenRemoved(el))
}
