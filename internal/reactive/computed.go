package reactive

// frame collects the dependencies read while one computed cell evaluates.
// A nil frame suppresses tracking.
type frame struct {
	seen  map[Subscribable]struct{}
	order []Subscribable
}

var frames []*frame

func registerDependency(s Subscribable) {
	if len(frames) == 0 {
		return
	}
	f := frames[len(frames)-1]
	if f == nil {
		return
	}
	if _, ok := f.seen[s]; ok {
		return
	}
	f.seen[s] = struct{}{}
	f.order = append(f.order, s)
}

// Ignore runs fn without registering any dependency it reads.
func Ignore(fn func()) {
	frames = append(frames, nil)
	defer func() {
		frames = frames[:len(frames)-1]
	}()
	fn()
}

// Lifetime is anything that can run a callback when it ends, typically an
// element being removed from its tree.
type Lifetime interface {
	AddDisposeCallback(fn func())
}

// ComputedOption configures a Computed.
type ComputedOption func(*Computed)

// DisposeWhenRemoved disposes the computed cell when lifetime ends.
func DisposeWhenRemoved(lifetime Lifetime) ComputedOption {
	return func(c *Computed) {
		c.lifetime = lifetime
	}
}

// Computed is a derived value. Its read function is evaluated once at
// creation and again every time one of the values it read notifies.
// Evaluations are not value-diffed: each notification re-runs read.
type Computed struct {
	read       func() any
	value      any
	subs       subscribers
	deps       map[Subscribable]func()
	lifetime   Lifetime
	evaluating bool
	disposed   bool
}

// NewComputed creates a computed cell and evaluates it synchronously.
func NewComputed(read func() any, opts ...ComputedOption) *Computed {
	c := &Computed{
		read: read,
		deps: make(map[Subscribable]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lifetime != nil {
		c.lifetime.AddDisposeCallback(c.Dispose)
	}
	c.evaluate()
	return c
}

func (c *Computed) evaluate() {
	if c.disposed || c.evaluating {
		return
	}
	c.evaluating = true
	f := &frame{seen: make(map[Subscribable]struct{})}
	frames = append(frames, f)
	func() {
		defer func() {
			frames = frames[:len(frames)-1]
			c.evaluating = false
		}()
		c.value = c.read()
	}()

	if c.disposed {
		// read disposed its own cell, e.g. by removing the element it watches
		c.unsubscribeAll()
		return
	}

	for dep, unsubscribe := range c.deps {
		if _, ok := f.seen[dep]; !ok {
			unsubscribe()
			delete(c.deps, dep)
		}
	}
	for _, dep := range f.order {
		if _, ok := c.deps[dep]; ok || dep == Subscribable(c) {
			continue
		}
		c.deps[dep] = dep.Subscribe(func(any) {
			c.evaluate()
		})
	}

	c.subs.notify(c.value)
}

// Get returns the last evaluated value, registering a dependency.
func (c *Computed) Get() any {
	registerDependency(c)
	return c.value
}

// Peek returns the last evaluated value without registering a dependency.
func (c *Computed) Peek() any {
	return c.value
}

// Subscribe registers fn to be called after every re-evaluation.
func (c *Computed) Subscribe(fn func(value any)) func() {
	return c.subs.add(fn)
}

// DependencyCount returns how many values the last evaluation read.
func (c *Computed) DependencyCount() int {
	return len(c.deps)
}

// Disposed reports whether Dispose has run.
func (c *Computed) Disposed() bool {
	return c.disposed
}

// Dispose releases every dependency subscription. A disposed cell never
// evaluates again. Safe to call multiple times.
func (c *Computed) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if !c.evaluating {
		c.unsubscribeAll()
	}
}

func (c *Computed) unsubscribeAll() {
	for dep, unsubscribe := range c.deps {
		unsubscribe()
		delete(c.deps, dep)
	}
}
