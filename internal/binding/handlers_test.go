package binding

import (
	"testing"

	"github.com/joeycumines/widgetbind/internal/dom"
	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/stretchr/testify/require"
)

func TestHandlers_Table(t *testing.T) {
	h := NewHandlers()
	noopHandler := HandlerFunc(func(*dom.Node, func() any, AllBindings) {})

	h.Set("b", noopHandler)
	h.Set("a", noopHandler)
	require.Equal(t, []string{"a", "b"}, h.Names())
	require.True(t, h.Has("a"))

	_, ok := h.Binding("a")
	require.False(t, ok, "plain handlers are not widget bindings")

	h.Delete("a")
	require.False(t, h.Has("a"))
}

func TestHandlers_ApplyOrderAndAllBindings(t *testing.T) {
	h := NewHandlers()
	var order []string
	var lastAll map[string]func() any
	record := func(name string) Handler {
		return HandlerFunc(func(el *dom.Node, valueAccessor func() any, all AllBindings) {
			order = append(order, el.Tag+":"+name+"="+valueAccessor().(string))
			lastAll = all()
		})
	}
	h.Set("first", record("first"))
	h.Set("second", record("second"))

	root := dom.NewNode("root").
		Bind("first", value("1")).
		Bind("unknown", value("?")).
		Bind("second", value("2"))
	child := dom.NewNode("child").Bind("first", value("3"))
	gone := dom.NewNode("gone").Bind("first", value("4"))
	root.Append(child)

	h.Apply(root)
	require.Equal(t, []string{"root:first=1", "root:second=2", "child:first=3"}, order)
	require.Len(t, lastAll, 1)

	gone.Remove()
	h.Apply(gone)
	require.Len(t, order, 3)
}

func TestHandlers_ApplyParentBeforeChild(t *testing.T) {
	fx := newFixture(t, map[string]func(...any) any{"select": noop}, "panel")
	f := fx.factory
	f.CreateBinding(Descriptor{Name: "panel"})
	f.CreateBinding(Descriptor{
		Name:   "panelItem",
		Parent: "panel",
		Watch:  map[string]Action{"selected": Method("select")},
	})

	selected := reactive.NewObservable(true)
	root := dom.NewNode("ul").Bind("panel", value(Options{}))
	item := dom.NewNode("li").Bind("panelItem", value(Options{"selected": selected}))
	root.Append(item)

	f.Handlers().Apply(root)

	panel := fx.last(t)
	require.Equal(t, []call{{name: "select", args: []any{item, true}}}, panel.calls)

	root.Remove()
	require.Equal(t, 1, panel.destroyed)
	require.Equal(t, 0, selected.SubscriberCount())
}
