package widgetbind

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/dop251/goja"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
)

const (
	typeObservable = "observable"
	typeComputed   = "computed"
	typeElement    = "element"
	typeWidget     = "widget"
)

// wrapObservable returns the script function standing for s. The same
// function object is returned for the same observable.
func (m *module) wrapObservable(s reactive.Subscribable) goja.Value {
	id := m.manager.track(s)
	if obj, ok := m.wrappers[id]; ok {
		return obj
	}
	runtime := m.runtime
	obj := runtime.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return m.toJS(s.Get())
		}
		w, ok := s.(reactive.Writable)
		if !ok {
			panic(runtime.NewTypeError("cannot write to a computed observable"))
		}
		w.Set(m.toGo(call.Argument(0)))
		return goja.Undefined()
	}).(*goja.Object)

	kind := typeObservable
	if _, ok := s.(*reactive.Computed); ok {
		kind = typeComputed
	}
	m.stamp(obj, id, kind, s)
	_ = obj.Set("peek", func(goja.FunctionCall) goja.Value {
		return m.toJS(s.Peek())
	})
	_ = obj.Set("subscribe", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(runtime.NewTypeError("subscribe: argument must be a function"))
		}
		dispose := s.Subscribe(func(v any) {
			if _, err := fn(goja.Undefined(), m.toJS(v)); err != nil {
				m.manager.logger.Warn("subscriber threw", slog.Any("error", err))
			}
		})
		return runtime.ToValue(func(goja.FunctionCall) goja.Value {
			dispose()
			return goja.Undefined()
		})
	})
	if c, ok := s.(*reactive.Computed); ok {
		_ = obj.Set("dispose", func(goja.FunctionCall) goja.Value {
			c.Dispose()
			delete(m.wrappers, id)
			m.manager.forget(id)
			return goja.Undefined()
		})
	}
	m.wrappers[id] = obj
	return obj
}

// wrapNode returns the script object standing for n.
func (m *module) wrapNode(n *dom.Node) goja.Value {
	id := m.manager.track(n)
	if obj, ok := m.wrappers[id]; ok {
		return obj
	}
	obj := m.runtime.NewObject()
	m.stamp(obj, id, typeElement, n)
	_ = obj.Set("tag", n.Tag)
	n.AddDisposeCallback(func() {
		delete(m.wrappers, id)
		m.manager.forget(id)
	})
	m.wrappers[id] = obj
	return obj
}

// wrapWidget returns a method-call proxy for w.
func (m *module) wrapWidget(w widget.Widget) goja.Value {
	obj := m.runtime.NewObject()
	_ = obj.Set("_type", typeWidget)
	_ = obj.Set("call", func(call goja.FunctionCall) goja.Value {
		args := make([]any, 0, len(call.Arguments))
		for _, a := range call.Arguments[min(1, len(call.Arguments)):] {
			args = append(args, m.toGo(a))
		}
		v, ok := widget.Call(w, call.Argument(0).String(), args...)
		if !ok {
			return goja.Undefined()
		}
		return m.toJS(v)
	})
	_ = obj.Set("has", func(call goja.FunctionCall) goja.Value {
		_, ok := w.Method(call.Argument(0).String())
		return m.runtime.ToValue(ok)
	})
	return obj
}

// stamp marks obj as the wrapper of v. The Go value rides along in a hidden
// property so wrappers keep resolving after the manager forgot them.
func (m *module) stamp(obj *goja.Object, id uint64, kind string, v any) {
	_ = obj.Set("_id", id)
	_ = obj.Set("_type", kind)
	_ = obj.DefineDataProperty("_ref", m.runtime.ToValue(v), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
}

func (m *module) isWrapper(v goja.Value) bool {
	obj, ok := v.(*goja.Object)
	if !ok {
		return false
	}
	kind := obj.Get("_type")
	if kind == nil {
		return false
	}
	switch kind.String() {
	case typeObservable, typeComputed, typeElement:
		return true
	}
	return false
}

// toGo converts a script value into the Go representation the binding
// layer works with. Wrapped observables and elements map back to their Go
// values, wrapped Go pointers are returned as is, objects and arrays are
// converted element-wise and functions become widget.Handler values.
func (m *module) toGo(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if m.isWrapper(obj) {
		if ref := obj.Get("_ref"); ref != nil {
			return ref.Export()
		}
		return nil
	}
	if fn, ok := goja.AssertFunction(obj); ok {
		return widget.Handler(func(args ...any) {
			jsArgs := make([]goja.Value, len(args))
			for i, a := range args {
				jsArgs[i] = m.toJS(a)
			}
			if _, err := fn(goja.Undefined(), jsArgs...); err != nil {
				m.manager.logger.Warn("handler threw", slog.Any("error", err))
			}
		})
	}
	// Go values handed out through ToValue, e.g. a widget's data source,
	// go back unchanged.
	if t := obj.ExportType(); t != nil && t.Kind() == reflect.Pointer {
		return obj.Export()
	}
	switch obj.ClassName() {
	case "Array":
		n := obj.Get("length").ToInteger()
		out := make([]any, n)
		for i := range out {
			out[i] = m.toGo(obj.Get(strconv.Itoa(i)))
		}
		return out
	case "Object":
		out := make(map[string]any, len(obj.Keys()))
		for _, key := range obj.Keys() {
			out[key] = m.toGo(obj.Get(key))
		}
		return out
	}
	return obj.Export()
}

// toJS converts a Go value for the script side.
func (m *module) toJS(v any) goja.Value {
	switch t := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return t
	case reactive.Subscribable:
		return m.wrapObservable(t)
	case *dom.Node:
		return m.wrapNode(t)
	case binding.Options:
		return m.object(t)
	case map[string]any:
		return m.object(t)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = m.toJS(item)
		}
		return m.runtime.NewArray(items...)
	case widget.Handler:
		return m.runtime.ToValue(func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, a := range call.Arguments {
				args[i] = m.toGo(a)
			}
			t(args...)
			return goja.Undefined()
		})
	case *widget.DataSource:
		return m.runtime.ToValue(t)
	case widget.Widget:
		return m.wrapWidget(t)
	}
	return m.runtime.ToValue(v)
}

func (m *module) object(values map[string]any) *goja.Object {
	obj := m.runtime.NewObject()
	for _, key := range slices.Sorted(maps.Keys(values)) {
		_ = obj.Set(key, m.toJS(values[key]))
	}
	return obj
}
