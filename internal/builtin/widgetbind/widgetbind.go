// Package widgetbind provides the JavaScript surface of the binding layer.
//
// The module is exposed as "wb:widgetbind".
//
// # JavaScript API
//
//	const wb = require('wb:widgetbind');
//
//	// Observables are functions: call with no argument to read (and track),
//	// with one argument to write.
//	const text = wb.observable("hello");
//	text("world");
//	text.peek();
//	const off = text.subscribe(v => console.log(v));
//
//	const upper = wb.computed(() => text().toUpperCase());
//
//	wb.createBinding({
//	    name: "textarea",
//	    defaultOption: "value",
//	    watch: {value: "setValue", enabled: ["enable", "disable"]},
//	    events: {change: {value: "value", writeTo: "value"}},
//	});
//
//	const root = wb.element("div");
//	const editor = wb.element("textarea");
//	wb.append(root, editor);
//	wb.bind(editor, "textarea", () => ({value: text, width: 40}));
//	wb.applyBindings(root);
//
//	wb.widget(editor, "textarea").call("typeText", "!");
//	wb.remove(root);
//
// All functions must run on the UI loop.
package widgetbind

import (
	"log/slog"
	"maps"
	"sync"

	"github.com/dop251/goja"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
)

// Manager assigns ids to script-visible observables and elements so each
// Go value maps to a single wrapper. Elements are released when removed and
// computed observables when disposed; plain observables stay tracked for the
// life of the manager.
type Manager struct {
	factory *binding.Factory
	logger  *slog.Logger

	mu     sync.RWMutex
	nextID uint64
	values map[uint64]any
	ids    map[any]uint64
}

// NewManager creates a manager over factory.
func NewManager(factory *binding.Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		factory: factory,
		logger:  logger,
		values:  make(map[uint64]any),
		ids:     make(map[any]uint64),
	}
}

// Factory returns the factory bindings are created with.
func (m *Manager) Factory() *binding.Factory {
	return m.factory
}

// track returns the id of v, registering it on first sight. v must be a
// comparable pointer type.
func (m *Manager) track(v any) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids[v]; ok {
		return id
	}
	m.nextID++
	m.values[m.nextID] = v
	m.ids[v] = m.nextID
	return m.nextID
}

func (m *Manager) forget(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[id]; ok {
		delete(m.ids, v)
		delete(m.values, id)
	}
}

// Tracked returns the number of live observables and elements.
func (m *Manager) Tracked() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// module is one runtime's view of a Manager.
type module struct {
	runtime  *goja.Runtime
	manager  *Manager
	wrappers map[uint64]*goja.Object
}

// Require returns a CommonJS native module under "wb:widgetbind".
func Require(manager *Manager) func(runtime *goja.Runtime, module *goja.Object) {
	return func(runtime *goja.Runtime, mod *goja.Object) {
		m := &module{runtime: runtime, manager: manager, wrappers: make(map[uint64]*goja.Object)}
		exports := runtime.NewObject()
		_ = mod.Set("exports", exports)

		_ = exports.Set("observable", func(call goja.FunctionCall) goja.Value {
			return m.wrapObservable(reactive.NewObservable(m.toGo(call.Argument(0))))
		})

		_ = exports.Set("computed", func(call goja.FunctionCall) goja.Value {
			fn, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				panic(runtime.NewTypeError("computed: argument must be a function"))
			}
			c := reactive.NewComputed(func() any {
				v, err := fn(goja.Undefined())
				if err != nil {
					manager.logger.Warn("computed threw", slog.Any("error", err))
					return nil
				}
				return m.toGo(v)
			})
			return m.wrapObservable(c)
		})

		_ = exports.Set("isObservable", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(reactive.IsObservable(m.toGo(call.Argument(0))))
		})

		_ = exports.Set("unwrap", func(call goja.FunctionCall) goja.Value {
			return m.toJS(reactive.Unwrap(m.toGo(call.Argument(0))))
		})

		_ = exports.Set("toPlain", func(call goja.FunctionCall) goja.Value {
			return m.toJS(reactive.ToPlain(m.toGo(call.Argument(0))))
		})

		_ = exports.Set("createBinding", func(call goja.FunctionCall) goja.Value {
			obj := call.Argument(0).ToObject(runtime)
			d, options := m.descriptor(obj)
			b := manager.factory.CreateBinding(d)
			if b == nil {
				return runtime.ToValue(false)
			}
			maps.Copy(b.Options, options)
			return runtime.ToValue(true)
		})

		_ = exports.Set("hasBinding", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(manager.factory.Handlers().Has(call.Argument(0).String()))
		})

		_ = exports.Set("globalOptions", func(call goja.FunctionCall) goja.Value {
			b, ok := manager.factory.Handlers().Binding(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			if patch, ok := m.toGo(call.Argument(1)).(map[string]any); ok {
				maps.Copy(b.Options, patch)
			}
			return m.toJS(b.Options)
		})

		_ = exports.Set("element", func(call goja.FunctionCall) goja.Value {
			tag := "div"
			if arg := call.Argument(0); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
				tag = arg.String()
			}
			return m.wrapNode(dom.NewNode(tag))
		})

		_ = exports.Set("append", func(call goja.FunctionCall) goja.Value {
			parent := m.node(call.Argument(0), "append")
			child := m.node(call.Argument(1), "append")
			parent.Append(child)
			return call.Argument(0)
		})

		_ = exports.Set("bind", func(call goja.FunctionCall) goja.Value {
			el := m.node(call.Argument(0), "bind")
			name := call.Argument(1).String()
			el.Bind(name, m.valueAccessor(call.Argument(2)))
			return call.Argument(0)
		})

		_ = exports.Set("applyBindings", func(call goja.FunctionCall) goja.Value {
			manager.factory.Handlers().Apply(m.node(call.Argument(0), "applyBindings"))
			return goja.Undefined()
		})

		_ = exports.Set("remove", func(call goja.FunctionCall) goja.Value {
			m.node(call.Argument(0), "remove").Remove()
			return goja.Undefined()
		})

		_ = exports.Set("removed", func(call goja.FunctionCall) goja.Value {
			return runtime.ToValue(m.node(call.Argument(0), "removed").Removed())
		})

		_ = exports.Set("widget", func(call goja.FunctionCall) goja.Value {
			el := m.node(call.Argument(0), "widget")
			w := manager.factory.Widgets().Locate(el, call.Argument(1).String())
			if w == nil {
				return goja.Null()
			}
			return m.wrapWidget(w)
		})
	}
}

// node resolves an element argument or throws.
func (m *module) node(v goja.Value, fn string) *dom.Node {
	if n, ok := m.toGo(v).(*dom.Node); ok {
		return n
	}
	panic(m.runtime.NewTypeError(fn + ": argument must be an element"))
}

// valueAccessor turns the third argument of bind into the accessor the
// binding reads its options through. Functions are re-run on every read.
func (m *module) valueAccessor(v goja.Value) func() any {
	fn, ok := goja.AssertFunction(v)
	if !ok || m.isWrapper(v) {
		value := m.toGo(v)
		return func() any { return value }
	}
	return func() any {
		result, err := fn(goja.Undefined())
		if err != nil {
			m.manager.logger.Warn("binding value accessor threw", slog.Any("error", err))
			return nil
		}
		return m.toGo(result)
	}
}
