package binding

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/joeycumines/widgetbind/internal/widget"
)

// WidgetLibrary is the widget implementation a Factory drives.
type WidgetLibrary interface {
	// Has reports whether the widget called name is available.
	Has(name string) bool
	// Construct builds the widget called name and attaches it to host.
	Construct(host widget.Host, name string, options map[string]any) (widget.Widget, error)
	// Locate returns the widget called name attached to host, or nil.
	Locate(host widget.Host, name string) widget.Widget
}

// Factory creates bindings from descriptors and registers them.
type Factory struct {
	widgets   WidgetLibrary
	handlers  *Handlers
	scheduler Scheduler
	logger    *slog.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithHandlers registers bindings into handlers instead of a fresh table.
func WithHandlers(handlers *Handlers) Option {
	return func(f *Factory) {
		f.handlers = handlers
	}
}

// WithScheduler sets where async constructions are deferred to. Without a
// scheduler, async descriptors construct synchronously.
func WithScheduler(scheduler Scheduler) Option {
	return func(f *Factory) {
		f.scheduler = scheduler
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a factory over widgets.
func NewFactory(widgets WidgetLibrary, opts ...Option) *Factory {
	f := &Factory{widgets: widgets}
	for _, opt := range opts {
		opt(f)
	}
	if f.handlers == nil {
		f.handlers = NewHandlers()
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// Handlers returns the table bindings are registered in.
func (f *Factory) Handlers() *Handlers {
	return f.handlers
}

// Widgets returns the widget library.
func (f *Factory) Widgets() WidgetLibrary {
	return f.widgets
}

// CreateBinding creates the binding for d and registers it under
// d.RegisteredName(), replacing any previous registration. When the widget
// d depends on is not available it returns nil and registers nothing.
func (f *Factory) CreateBinding(d Descriptor) *Binding {
	if f.widgets == nil || !f.widgets.Has(d.WidgetName()) {
		f.logger.Debug("widget not available, binding skipped",
			slog.String("binding", d.RegisteredName()),
			slog.String("widget", d.WidgetName()))
		return nil
	}

	b := &Binding{
		Descriptor: d,
		Options:    make(Options),
		factory:    f,
	}
	f.handlers.Set(d.RegisteredName(), b)
	f.logger.Debug("binding registered",
		slog.String("binding", d.RegisteredName()),
		slog.String("widget", d.WidgetName()),
		slog.Int("watch", len(d.Watch)),
		slog.Int("events", len(d.Events)))
	return b
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
