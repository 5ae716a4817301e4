package binding

import (
	"sync"

	"github.com/joeycumines/widgetbind/internal/dom"
)

// AllBindings returns every binding declared on the element being bound,
// keyed by name.
type AllBindings func() map[string]func() any

// Handler is an entry of the binding table.
type Handler interface {
	Init(el *dom.Node, valueAccessor func() any, allBindings AllBindings)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(el *dom.Node, valueAccessor func() any, allBindings AllBindings)

// Init implements Handler.
func (f HandlerFunc) Init(el *dom.Node, valueAccessor func() any, allBindings AllBindings) {
	f(el, valueAccessor, allBindings)
}

// Handlers is the binding table, keyed by binding name.
type Handlers struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewHandlers creates an empty binding table.
func NewHandlers() *Handlers {
	return &Handlers{
		handlers: make(map[string]Handler),
	}
}

// Set registers handler under name. The last registration wins.
func (h *Handlers) Set(name string, handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[name] = handler
}

// Get returns the handler registered under name.
func (h *Handlers) Get(name string) (Handler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	handler, ok := h.handlers[name]
	return handler, ok
}

// Binding returns the widget binding registered under name, if the entry is
// one.
func (h *Handlers) Binding(name string) (*Binding, bool) {
	handler, ok := h.Get(name)
	if !ok {
		return nil, false
	}
	b, ok := handler.(*Binding)
	return b, ok
}

// Has reports whether anything is registered under name.
func (h *Handlers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Delete removes the entry registered under name.
func (h *Handlers) Delete(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.handlers, name)
}

// Names returns the registered names, sorted.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedKeys(h.handlers)
}

// Apply initialises every binding declared in the tree rooted at root,
// depth first with parents before children, so a child binding always finds
// the widgets of its ancestors already constructed (unless they are async).
// Declarations naming no registered handler are skipped. Removed nodes and
// their descendants are not visited.
func (h *Handlers) Apply(root *dom.Node) {
	root.Walk(func(n *dom.Node) bool {
		if n.Removed() {
			return false
		}
		decls := n.Bindings()
		all := func() map[string]func() any {
			m := make(map[string]func() any, len(decls))
			for _, d := range decls {
				m[d.Name] = d.Value
			}
			return m
		}
		for _, decl := range decls {
			handler, ok := h.Get(decl.Name)
			if !ok {
				continue
			}
			handler.Init(n, decl.Value, all)
		}
		return true
	})
}
