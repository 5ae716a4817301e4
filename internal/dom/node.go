// Package dom is a headless element tree: the nodes bindings attach to.
//
// A Node carries its declared bindings (name plus value accessor, in
// declaration order), a keyed data store used by the widget library to attach
// instances, and the disposal callbacks run when the node leaves the tree.
//
// Like the reactive runtime, nodes must only be touched from the UI loop.
package dom

import (
	"slices"
)

// Declaration is one binding declared on a node.
type Declaration struct {
	Name  string
	Value func() any
}

// Node is an element in the tree.
type Node struct {
	Tag string

	parent    *Node
	children  []*Node
	bindings  []Declaration
	data      map[string]any
	callbacks []func()
	removed   bool
}

// NewNode creates a detached node.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// Append adds child as the last child of n, detaching it from any previous
// parent first. Returns n for chaining.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return n
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a snapshot of the child nodes.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Bind declares a binding on n. Redeclaring a name replaces its accessor but
// keeps its position. Returns n for chaining.
func (n *Node) Bind(name string, value func() any) *Node {
	for i := range n.bindings {
		if n.bindings[i].Name == name {
			n.bindings[i].Value = value
			return n
		}
	}
	n.bindings = append(n.bindings, Declaration{Name: name, Value: value})
	return n
}

// Bindings returns the declared bindings in declaration order.
func (n *Node) Bindings() []Declaration {
	return slices.Clone(n.bindings)
}

// Binding returns the accessor declared under name.
func (n *Node) Binding(name string) (func() any, bool) {
	for _, d := range n.bindings {
		if d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

// HasBinding reports whether n declares a binding called name.
func (n *Node) HasBinding(name string) bool {
	_, ok := n.Binding(name)
	return ok
}

// Closest returns the nearest node, starting with n itself and walking up
// through its ancestors, that declares a binding called name.
func (n *Node) Closest(name string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.HasBinding(name) {
			return cur
		}
	}
	return nil
}

// Data returns the value stored under key.
func (n *Node) Data(key string) (any, bool) {
	v, ok := n.data[key]
	return v, ok
}

// SetData stores value under key.
func (n *Node) SetData(key string, value any) {
	if n.data == nil {
		n.data = make(map[string]any)
	}
	n.data[key] = value
}

// DeleteData removes key from the data store.
func (n *Node) DeleteData(key string) {
	delete(n.data, key)
}

// AddDisposeCallback registers fn to run when n is removed. Callbacks run in
// registration order, at most once.
func (n *Node) AddDisposeCallback(fn func()) {
	n.callbacks = append(n.callbacks, fn)
}

// Removed reports whether n has been removed (directly or with an ancestor).
func (n *Node) Removed() bool {
	return n.removed
}

// Remove detaches n from its parent and cleans n and all its descendants:
// dispose callbacks run (node before descendants) and data is dropped.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.detach(n)
		n.parent = nil
	}
	n.clean()
}

func (n *Node) clean() {
	if n.removed {
		return
	}
	n.removed = true

	callbacks := n.callbacks
	n.callbacks = nil
	for _, fn := range callbacks {
		fn()
	}
	for _, child := range slices.Clone(n.children) {
		child.clean()
	}
	n.data = nil
}

func (n *Node) detach(child *Node) {
	n.children = slices.DeleteFunc(n.children, func(c *Node) bool { return c == child })
}

// Walk visits n and its descendants depth first, parents before children.
// Returning false from fn skips that node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range slices.Clone(n.children) {
		child.Walk(fn)
	}
}
