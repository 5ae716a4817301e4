package widget

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownWidget is returned by Construct for names nothing registered.
var ErrUnknownWidget = errors.New("unknown widget")

// Constructor builds a widget from its construction options. Constructors
// must read event handlers from options at construction time.
type Constructor func(options map[string]any) (Widget, error)

// Library is the registry that constructs widgets by name and attaches each
// instance to its host under that name.
type Library struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewLibrary creates an empty widget library.
func NewLibrary() *Library {
	return &Library{
		constructors: make(map[string]Constructor),
	}
}

// Register adds (or replaces) the constructor for name.
func (l *Library) Register(name string, ctor Constructor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.constructors[name] = ctor
}

// Has reports whether a widget called name can be constructed.
func (l *Library) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.constructors[name]
	return ok
}

// Names returns the registered widget names, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.constructors))
	for name := range l.constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Construct builds the widget called name and attaches it to host.
func (l *Library) Construct(host Host, name string, options map[string]any) (Widget, error) {
	l.mu.RLock()
	ctor, ok := l.constructors[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidget, name)
	}
	w, err := ctor(options)
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s: %w", name, err)
	}
	if host != nil {
		host.SetData(name, w)
	}
	return w, nil
}

// Locate returns the widget called name already attached to host, or nil.
func (l *Library) Locate(host Host, name string) Widget {
	if host == nil {
		return nil
	}
	v, ok := host.Data(name)
	if !ok {
		return nil
	}
	w, _ := v.(Widget)
	return w
}
