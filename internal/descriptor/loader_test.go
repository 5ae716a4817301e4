package descriptor

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorYAML = `
widgets:
  - name: textarea
    bindingName: editor
    defaultOption: value
    options: {width: 40}
    watch:
      value: setValue
      enabled: [enable, disable]
      title: {expr: 'call("setPlaceholder", upper(value))'}
      items: {callback: setDataSource}
    events:
      change: value
      blur: {value: false, writeTo: focused}
  - name: list
    optionsFilter: data
    async: true
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(editorYAML))
	require.NoError(t, err)

	want := &File{Widgets: []Spec{
		{
			Name:          "textarea",
			BindingName:   "editor",
			DefaultOption: "value",
			Options:       map[string]any{"width": 40},
			Watch: map[string]ActionSpec{
				"value":   {Method: "setValue"},
				"enabled": {Toggle: []string{"enable", "disable"}},
				"title":   {Expr: `call("setPlaceholder", upper(value))`},
				"items":   {Callback: "setDataSource"},
			},
			Events: map[string]EventSpec{
				"change": {Value: "value", WriteTo: "value"},
				"blur":   {Value: false, WriteTo: "focused"},
			},
		},
		{Name: "list", OptionsFilter: "data", Async: true},
	}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"missing name":    "widgets:\n  - defaultOption: value\n",
		"short toggle":    "widgets:\n  - name: a\n    watch: {v: [one]}\n",
		"ambiguous":       "widgets:\n  - name: a\n    watch: {v: {expr: x, callback: y}}\n",
		"empty action":    "widgets:\n  - name: a\n    watch: {v: {}}\n",
		"event no target": "widgets:\n  - name: a\n    events: {change: {value: v}}\n",
		"unknown field":   "widgets:\n  - name: a\n    nope: 1\n",
		"not yaml":        "widgets: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			require.Error(t, err)
		})
	}

	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Widgets)
}

func TestResolve(t *testing.T) {
	defs, err := NewLoader().LoadFromReader(strings.NewReader(editorYAML))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	editor := defs[0].Descriptor
	assert.Equal(t, "editor", editor.RegisteredName())
	assert.Equal(t, binding.Options{"width": 40}, defs[0].Options)
	assert.Equal(t, []string{"enabled", "items", "title", "value"}, editor.WatchedKeys())
	assert.Equal(t, binding.ActionToggle, editor.Watch["enabled"].Kind())
	assert.Equal(t, binding.ActionCallback, editor.Watch["title"].Kind())
	assert.Equal(t, binding.ActionCallback, editor.Watch["items"].Kind())
	assert.Equal(t, binding.EventSpec{Value: false, WriteTo: "focused"}, editor.Events["blur"])

	list := defs[1].Descriptor
	assert.True(t, list.Async)
	require.NotNil(t, list.OptionsFilter)
	assert.Nil(t, defs[1].Options)
}

func TestResolve_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown filter":   "widgets:\n  - name: a\n    optionsFilter: nope\n",
		"unknown callback": "widgets:\n  - name: a\n    watch: {v: {callback: nope}}\n",
		"bad expression":   "widgets:\n  - name: a\n    watch: {v: {expr: 'call('}}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader().LoadFromReader(strings.NewReader(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), `widget "a"`)
		})
	}
}

func TestLoader_CustomFilterAndCallback(t *testing.T) {
	l := NewLoader(
		WithFilter("upper", func(v any) any { return binding.Options{"text": strings.ToUpper(v.(string))} }),
		WithCallback("record", func(any, binding.Options, widget.Widget) {}),
	)
	defs, err := l.LoadFromReader(strings.NewReader(
		"widgets:\n  - name: label\n    defaultOption: text\n    optionsFilter: upper\n    watch: {text: {callback: record}}\n"))
	require.NoError(t, err)

	d := defs[0].Descriptor
	assert.Equal(t, binding.ActionCallback, d.Watch["text"].Kind())
	assert.Equal(t, binding.Options{"text": "HI"}, binding.BuildOptions(d, nil, func() any { return "hi" }))
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(editorYAML), 0o600))

	defs, err := NewLoader().LoadFromPath(path)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	_, err = NewLoader().LoadFromPath(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(path, link))
	_, err = NewLoader().LoadFromPath(link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink not allowed")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("widgets:\n  - {}\n"), 0o600))
	_, err = NewLoader().LoadFromPath(bad)
	require.ErrorIs(t, err, ErrNoName)
	assert.Contains(t, err.Error(), bad)
}

// recorder is a widget that records method calls and keeps its options so
// tests can fire events.
type recorder struct {
	options map[string]any
	calls   []string
	args    [][]any
	state   map[string]any
}

func (r *recorder) Method(name string) (widget.Method, bool) {
	return func(args ...any) any {
		r.calls = append(r.calls, name)
		r.args = append(r.args, args)
		if len(args) == 0 {
			return r.state[name]
		}
		return nil
	}, true
}

func TestRegister_EndToEnd(t *testing.T) {
	lib := widget.NewLibrary()
	var w *recorder
	lib.Register("textarea", func(options map[string]any) (widget.Widget, error) {
		w = &recorder{options: options, state: map[string]any{"value": "typed"}}
		return w, nil
	})
	f := binding.NewFactory(lib)

	defs, err := NewLoader().LoadFromReader(strings.NewReader(editorYAML))
	require.NoError(t, err)
	bindings := Register(f, defs)
	require.Len(t, bindings, 1, "list has no widget implementation")
	assert.Equal(t, binding.Options{"width": 40}, bindings[0].Options)

	text := reactive.NewObservable("start")
	title := reactive.NewObservable("hello")
	el := dom.NewNode("textarea").Bind("editor", func() any {
		return binding.Options{"value": text, "title": title}
	})
	f.Handlers().Apply(el)

	require.NotNil(t, w)
	assert.Equal(t, 40, w.options["width"])
	assert.Equal(t, "start", w.options["value"])
	assert.Equal(t, []string{"setPlaceholder", "setValue"}, w.calls)
	assert.Equal(t, []any{"HELLO"}, w.args[0])

	title.Set("bye")
	assert.Equal(t, []any{"BYE"}, w.args[len(w.args)-1])

	widget.Trigger(w.options, "change")
	assert.Equal(t, "typed", text.Peek())

	el.Remove()
	title.Set("ignored")
	assert.NotContains(t, w.args[len(w.args)-1], "IGNORED")
}

func TestExpressionFailureIsLogged(t *testing.T) {
	var logs strings.Builder
	l := NewLoader(WithLogger(newTextLogger(&logs)))
	defs, err := l.LoadFromReader(strings.NewReader(
		"widgets:\n  - name: a\n    watch: {v: {expr: 'value.missing.deeper'}}\n"))
	require.NoError(t, err)

	cb := defs[0].Descriptor.Watch["v"]
	require.Equal(t, binding.ActionCallback, cb.Kind())

	lib := widget.NewLibrary()
	lib.Register("a", func(map[string]any) (widget.Widget, error) { return widget.Methods{}, nil })
	f := binding.NewFactory(lib)
	Register(f, defs)

	v := reactive.NewObservable(any(nil))
	el := dom.NewNode("div").Bind("a", func() any { return binding.Options{"v": v} })
	f.Handlers().Apply(el)

	assert.Contains(t, logs.String(), "watch expression failed")
}

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
