package binding

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// Binding is the registered binding for one descriptor.
type Binding struct {
	// Descriptor is the descriptor the binding was created from.
	Descriptor Descriptor

	// Options are the global default options of this widget type, shared by
	// reference across every instance. Mutations apply to instances resolved
	// afterwards, never to already resolved ones; an async instance resolves
	// before its deferral, so a mutation made in between does not reach it.
	Options Options

	factory *Factory
}

// Init binds el to a new widget instance using the binding value returned by
// valueAccessor. The other bindings declared on el are not consulted.
func (b *Binding) Init(el *dom.Node, valueAccessor func() any, _ AllBindings) {
	reactive.Ignore(func() {
		options := BuildOptions(b.Descriptor, b.Options, valueAccessor)

		if b.async(options) && b.factory.scheduler != nil {
			b.factory.scheduler.Defer(func() {
				if el.Removed() {
					b.factory.logger.Debug("element removed before deferred setup",
						slog.String("binding", b.Descriptor.RegisteredName()))
					return
				}
				reactive.Ignore(func() { b.setup(el, options) })
			})
			return
		}

		b.setup(el, options)
	})
}

// async applies the async rule: an explicit async option wins, otherwise the
// descriptor decides.
func (b *Binding) async(options Options) bool {
	if v, ok := options["async"].(bool); ok {
		return v
	}
	return b.Descriptor.Async
}

func (b *Binding) setup(el *dom.Node, options Options) {
	d := b.Descriptor
	f := b.factory
	logger := f.logger.With(
		slog.String("binding", d.RegisteredName()),
		slog.String("instance", uuid.NewString()))

	var w widget.Widget
	HandleEvents(d.Events, options, func() widget.Widget {
		if w != nil {
			return w
		}
		return f.widgets.Locate(el, d.Name)
	})

	w = b.getWidget(el, options, logger)

	watchers := WatchValues(w, options, d, el)

	// child bindings address a widget they do not own
	if destroyer, ok := w.(widget.Destroyer); ok && d.Parent == "" {
		el.AddDisposeCallback(func() {
			logger.Debug("destroying widget")
			destroyer.Destroy()
		})
	}

	logger.Debug("binding initialised",
		slog.Bool("widget", w != nil),
		slog.Int("watchers", len(watchers)))
}

func (b *Binding) getWidget(el *dom.Node, options Options, logger *slog.Logger) widget.Widget {
	d := b.Descriptor
	var w widget.Widget
	if d.Parent != "" {
		if parent := el.Closest(d.Parent); parent != nil {
			w = b.factory.widgets.Locate(parent, d.Parent)
		}
		if w == nil {
			logger.Debug("parent widget not found", slog.String("parent", d.Parent))
		}
	} else {
		var err error
		w, err = b.factory.widgets.Construct(el, d.Name, CleanOptions(options))
		if err != nil {
			logger.Warn("widget construction failed", slog.Any("error", err))
			w = nil
		}
	}

	if slot, ok := options["widget"].(reactive.Writable); ok {
		slot.Set(w)
	}
	return w
}
