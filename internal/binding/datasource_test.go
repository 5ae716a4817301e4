package binding

import (
	"testing"

	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
	"github.com/stretchr/testify/require"
)

func TestDataOptionFilter(t *testing.T) {
	ds := widget.NewDataSource()

	t.Run("direct data source", func(t *testing.T) {
		require.Equal(t, Options{"dataSource": ds, "data": Options{}}, DataOptionFilter(ds))
	})

	t.Run("data source as data", func(t *testing.T) {
		in := Options{"data": ds, "pageSize": 10}
		out := DataOptionFilter(in)
		require.Equal(t, Options{"dataSource": ds, "data": Options{}, "pageSize": 10}, out)
		require.Same(t, ds, in["data"], "input is not mutated")
	})

	t.Run("explicit data source keeps data", func(t *testing.T) {
		data := []any{1}
		out := DataOptionFilter(map[string]any{"dataSource": ds, "data": data})
		require.Equal(t, Options{"dataSource": ds, "data": data}, out)
	})

	t.Run("plain options", func(t *testing.T) {
		require.Equal(t, Options{"data": []any{1}}, DataOptionFilter(Options{"data": []any{1}}))
	})

	t.Run("non objects pass through", func(t *testing.T) {
		require.Equal(t, []any{1, 2}, DataOptionFilter([]any{1, 2}))
		require.Nil(t, DataOptionFilter(nil))
	})
}

func TestDataOptionFilter_WithDefaultOption(t *testing.T) {
	ds := widget.NewDataSource()
	d := Descriptor{Name: "grid", DefaultOption: "data", OptionsFilter: DataOptionFilter}

	options := BuildOptions(d, nil, value(ds))
	require.Same(t, ds, options["dataSource"])

	items := reactive.NewObservable([]any{"a"})
	options = BuildOptions(d, nil, value(items))
	require.Same(t, items, options["data"])
}

type listWidget struct {
	source *widget.DataSource
}

func (l *listWidget) Method(name string) (widget.Method, bool) {
	if name != "dataSource" {
		return nil, false
	}
	return func(...any) any { return l.source }, true
}

func TestSetDataSource(t *testing.T) {
	lw := &listWidget{source: widget.NewDataSource()}
	data := []any{reactive.NewObservable("a"), "b"}

	SetDataSource(data, Options{}, lw)
	require.Equal(t, []any{"a", "b"}, lw.source.Items())
	require.False(t, lw.source.Fetched())

	SetDataSource([]any{"c"}, Options{"dataSource": lw.source}, lw)
	require.Equal(t, []any{"c"}, lw.source.Items())
	require.True(t, lw.source.Fetched())

	require.NotPanics(t, func() {
		SetDataSource([]any{"x"}, Options{}, nil)
		SetDataSource([]any{"x"}, Options{}, widget.Methods{})
	})
}

func TestSetDataSource_AsWatchAction(t *testing.T) {
	lib := widget.NewLibrary()
	var lw *listWidget
	lib.Register("list", func(map[string]any) (widget.Widget, error) {
		lw = &listWidget{source: widget.NewDataSource()}
		return lw, nil
	})
	f := NewFactory(lib)
	b := f.CreateBinding(Descriptor{
		Name:          "list",
		DefaultOption: "data",
		Watch:         map[string]Action{"data": Func(SetDataSource)},
	})

	items := reactive.NewObservable([]any{"one"})
	b.Init(dom.NewNode("ul"), value(items), nil)
	require.Equal(t, []any{"one"}, lw.source.Items())

	items.Set([]any{"one", "two"})
	require.Equal(t, []any{"one", "two"}, lw.source.Items())
}
