package descriptor

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// Definition is a resolved descriptor plus the global options it starts
// with.
type Definition struct {
	Descriptor binding.Descriptor
	Options    binding.Options
}

// Loader resolves descriptor files into definitions.
type Loader struct {
	filters   map[string]func(any) any
	callbacks map[string]binding.Callback
	logger    *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFilter makes fn available as optionsFilter name.
func WithFilter(name string, fn func(any) any) LoaderOption {
	return func(l *Loader) { l.filters[name] = fn }
}

// WithCallback makes cb available as watch callback name.
func WithCallback(name string, cb binding.Callback) LoaderOption {
	return func(l *Loader) { l.callbacks[name] = cb }
}

// WithLogger sets the logger expression failures are reported to.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader knowing the "data" filter and the
// "setDataSource" callback.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		filters:   map[string]func(any) any{"data": binding.DataOptionFilter},
		callbacks: map[string]binding.Callback{"setDataSource": binding.SetDataSource},
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFromPath loads definitions from a file. Symlinks are rejected.
func (l *Loader) LoadFromPath(path string) ([]Definition, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat descriptor file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in descriptor path: %s", path)
	}
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor file: %w", err)
	}
	defer file.Close()

	defs, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// LoadFromReader parses and resolves a descriptor document.
func (l *Loader) LoadFromReader(r io.Reader) ([]Definition, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return l.Resolve(f)
}

// Resolve turns parsed specs into definitions, compiling expressions.
func (l *Loader) Resolve(f *File) ([]Definition, error) {
	defs := make([]Definition, 0, len(f.Widgets))
	for _, s := range f.Widgets {
		def, err := l.resolve(s)
		if err != nil {
			return nil, fmt.Errorf("widget %q: %w", s.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (l *Loader) resolve(s Spec) (Definition, error) {
	d := binding.Descriptor{
		Name:          s.Name,
		BindingName:   s.BindingName,
		Parent:        s.Parent,
		DefaultOption: s.DefaultOption,
		Async:         s.Async,
	}
	if s.OptionsFilter != "" {
		fn, ok := l.filters[s.OptionsFilter]
		if !ok {
			return Definition{}, fmt.Errorf("unknown options filter %q", s.OptionsFilter)
		}
		d.OptionsFilter = fn
	}
	if len(s.Watch) > 0 {
		d.Watch = make(map[string]binding.Action, len(s.Watch))
		for key, a := range s.Watch {
			action, err := l.action(key, a)
			if err != nil {
				return Definition{}, fmt.Errorf("watch %q: %w", key, err)
			}
			d.Watch[key] = action
		}
	}
	if len(s.Events) > 0 {
		d.Events = make(map[string]binding.EventSpec, len(s.Events))
		for name, e := range s.Events {
			d.Events[name] = binding.EventSpec{Value: e.Value, WriteTo: e.WriteTo}
		}
	}
	return Definition{Descriptor: d, Options: maps.Clone(binding.Options(s.Options))}, nil
}

func (l *Loader) action(key string, a ActionSpec) (binding.Action, error) {
	switch {
	case a.Method != "":
		return binding.Method(a.Method), nil
	case len(a.Toggle) == 2:
		return binding.Toggle(a.Toggle[0], a.Toggle[1]), nil
	case a.Callback != "":
		cb, ok := l.callbacks[a.Callback]
		if !ok {
			return binding.Action{}, fmt.Errorf("unknown callback %q", a.Callback)
		}
		return binding.Func(cb), nil
	case a.Expr != "":
		program, err := expr.Compile(a.Expr, expr.Env(exprEnv(nil, nil, nil)))
		if err != nil {
			return binding.Action{}, fmt.Errorf("failed to compile expression: %w", err)
		}
		return binding.Func(l.exprCallback(key, a.Expr, program)), nil
	default:
		return binding.Action{}, fmt.Errorf("empty action")
	}
}

func (l *Loader) exprCallback(key, source string, program *vm.Program) binding.Callback {
	return func(value any, options binding.Options, w widget.Widget) {
		if _, err := expr.Run(program, exprEnv(value, options, w)); err != nil {
			l.logger.Warn("watch expression failed",
				slog.String("key", key),
				slog.String("expression", source),
				slog.Any("error", err))
		}
	}
}

// exprEnv is what watch expressions see: the new value, the live options
// and call(method, args...) on the widget.
func exprEnv(value any, options binding.Options, w widget.Widget) map[string]any {
	return map[string]any{
		"value":   value,
		"options": map[string]any(options),
		"call": func(method string, args ...any) any {
			v, _ := widget.Call(w, method, args...)
			return v
		},
	}
}

// Register creates a binding for every definition and seeds its global
// options. Definitions whose widget is unavailable yield no binding.
func Register(f *binding.Factory, defs []Definition) []*binding.Binding {
	var out []*binding.Binding
	for _, def := range defs {
		b := f.CreateBinding(def.Descriptor)
		if b == nil {
			continue
		}
		maps.Copy(b.Options, def.Options)
		out = append(out, b)
	}
	return out
}
