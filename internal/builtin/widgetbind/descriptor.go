package widgetbind

import (
	"log/slog"

	"github.com/dop251/goja"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// namedFilters are the option filters scripts can name instead of passing
// a function.
var namedFilters = map[string]func(any) any{
	"data": binding.DataOptionFilter,
}

// namedCallbacks are the watch callbacks scripts can name.
var namedCallbacks = map[string]binding.Callback{
	"setDataSource": binding.SetDataSource,
}

// descriptor reads a createBinding argument. Malformed entries throw.
func (m *module) descriptor(obj *goja.Object) (binding.Descriptor, binding.Options) {
	runtime := m.runtime
	if obj == nil {
		panic(runtime.NewTypeError("createBinding: descriptor must be an object"))
	}
	d := binding.Descriptor{
		Name:          stringProp(obj, "name"),
		BindingName:   stringProp(obj, "bindingName"),
		Parent:        stringProp(obj, "parent"),
		DefaultOption: stringProp(obj, "defaultOption"),
	}
	if d.Name == "" {
		panic(runtime.NewTypeError("createBinding: name is required"))
	}
	if v := obj.Get("async"); v != nil {
		d.Async = v.ToBoolean()
	}

	if v := obj.Get("optionsFilter"); present(v) {
		if fn, ok := goja.AssertFunction(v); ok {
			d.OptionsFilter = m.scriptFilter(fn)
		} else if fn, ok := namedFilters[v.String()]; ok {
			d.OptionsFilter = fn
		} else {
			panic(runtime.NewTypeError("createBinding: unknown optionsFilter " + v.String()))
		}
	}

	if v := obj.Get("watch"); present(v) {
		watch := v.ToObject(runtime)
		d.Watch = make(map[string]binding.Action, len(watch.Keys()))
		for _, key := range watch.Keys() {
			d.Watch[key] = m.action(key, watch.Get(key))
		}
	}

	if v := obj.Get("events"); present(v) {
		events := v.ToObject(runtime)
		d.Events = make(map[string]binding.EventSpec, len(events.Keys()))
		for _, name := range events.Keys() {
			d.Events[name] = m.event(name, events.Get(name))
		}
	}

	var options binding.Options
	if v := obj.Get("options"); present(v) {
		if o, ok := m.toGo(v).(map[string]any); ok {
			options = o
		}
	}
	return d, options
}

func (m *module) action(key string, v goja.Value) binding.Action {
	runtime := m.runtime
	if fn, ok := goja.AssertFunction(v); ok {
		return binding.Func(func(value any, options binding.Options, w widget.Widget) {
			var jsWidget goja.Value = goja.Null()
			if w != nil {
				jsWidget = m.wrapWidget(w)
			}
			if _, err := fn(goja.Undefined(), m.toJS(value), m.toJS(options), jsWidget); err != nil {
				m.manager.logger.Warn("watch callback threw", slog.String("key", key), slog.Any("error", err))
			}
		})
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() == "Array" {
		methods, _ := m.toGo(obj).([]any)
		if len(methods) != 2 {
			panic(runtime.NewTypeError("createBinding: watch " + key + " toggle needs exactly two methods"))
		}
		return binding.Toggle(widget.ToString(methods[0], ""), widget.ToString(methods[1], ""))
	}
	if obj, ok := v.(*goja.Object); ok {
		if name := stringProp(obj, "callback"); name != "" {
			cb, ok := namedCallbacks[name]
			if !ok {
				panic(runtime.NewTypeError("createBinding: unknown callback " + name))
			}
			return binding.Func(cb)
		}
		panic(runtime.NewTypeError("createBinding: watch " + key + " must be a method name, a pair or a function"))
	}
	if !present(v) || v.String() == "" {
		panic(runtime.NewTypeError("createBinding: watch " + key + " has no method"))
	}
	return binding.Method(v.String())
}

func (m *module) event(name string, v goja.Value) binding.EventSpec {
	obj, ok := v.(*goja.Object)
	if !ok {
		if !present(v) {
			panic(m.runtime.NewTypeError("createBinding: event " + name + " has no target"))
		}
		return binding.Event(v.String())
	}
	spec := binding.EventSpec{Value: m.toGo(obj.Get("value")), WriteTo: stringProp(obj, "writeTo")}
	if spec.WriteTo == "" {
		panic(m.runtime.NewTypeError("createBinding: event " + name + " needs writeTo"))
	}
	return spec
}

func (m *module) scriptFilter(fn goja.Callable) func(any) any {
	return func(v any) any {
		result, err := fn(goja.Undefined(), m.toJS(v))
		if err != nil {
			m.manager.logger.Warn("options filter threw", slog.Any("error", err))
			return v
		}
		return m.toGo(result)
	}
}

func present(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

func stringProp(obj *goja.Object, key string) string {
	if v := obj.Get(key); present(v) {
		return v.String()
	}
	return ""
}
