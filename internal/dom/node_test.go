package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNode_Tree(t *testing.T) {
	root := NewNode("div")
	a := NewNode("ul")
	b := NewNode("li")
	root.Append(a)
	a.Append(b)

	require.Same(t, root, a.Parent())
	require.Equal(t, []*Node{b}, a.Children())

	// re-parenting detaches from the old parent
	root.Append(b)
	require.Empty(t, a.Children())
	require.Equal(t, []*Node{a, b}, root.Children())
}

func TestNode_Bind(t *testing.T) {
	n := NewNode("div")
	n.Bind("first", func() any { return 1 })
	n.Bind("second", func() any { return 2 })
	n.Bind("first", func() any { return 3 })

	decls := n.Bindings()
	require.Len(t, decls, 2)
	require.Equal(t, "first", decls[0].Name)
	require.Equal(t, 3, decls[0].Value())
	require.True(t, n.HasBinding("second"))
	require.False(t, n.HasBinding("third"))
}

func TestNode_Closest(t *testing.T) {
	root := NewNode("div").Bind("tabStrip", func() any { return nil })
	mid := NewNode("ul")
	leaf := NewNode("li").Bind("tabStripItem", func() any { return nil })
	root.Append(mid)
	mid.Append(leaf)

	require.Same(t, root, leaf.Closest("tabStrip"))
	require.Same(t, leaf, leaf.Closest("tabStripItem"))
	require.Nil(t, mid.Closest("tabStripItem"))
}

func TestNode_RemoveRunsCallbacksOnce(t *testing.T) {
	root := NewNode("div")
	child := NewNode("span")
	grandchild := NewNode("em")
	root.Append(child)
	child.Append(grandchild)

	var order []string
	child.AddDisposeCallback(func() { order = append(order, "child-1") })
	child.AddDisposeCallback(func() { order = append(order, "child-2") })
	grandchild.AddDisposeCallback(func() { order = append(order, "grandchild") })
	grandchild.SetData("k", "v")

	child.Remove()
	child.Remove()

	require.Equal(t, []string{"child-1", "child-2", "grandchild"}, order)
	require.True(t, child.Removed())
	require.True(t, grandchild.Removed())
	require.False(t, root.Removed())
	require.Empty(t, root.Children())
	require.Nil(t, child.Parent())

	_, ok := grandchild.Data("k")
	require.False(t, ok)
}

func TestNode_Walk(t *testing.T) {
	root := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	d := NewNode("d")
	root.Append(b).Append(d)
	b.Append(c)

	var tags []string
	root.Walk(func(n *Node) bool {
		tags = append(tags, n.Tag)
		return n.Tag != "b"
	})
	require.Equal(t, []string{"a", "b", "d"}, tags)
}
