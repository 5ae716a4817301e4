// Package uiloop owns the single UI goroutine. The script runtime, the
// binding layer and every widget are confined to it; other goroutines hand
// work over through Post, Do or Defer.
package uiloop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
)

// DefaultSyncTimeout bounds Do when no other timeout was configured.
const DefaultSyncTimeout = 5 * time.Second

var (
	// ErrNotRunning is returned once the loop has been closed.
	ErrNotRunning = errors.New("ui loop not running")
	// ErrOnLoop is returned by Do when called from the loop goroutine.
	ErrOnLoop = errors.New("ui loop: Do called from the loop goroutine")
)

// Loop wraps a goja_nodejs event loop.
type Loop struct {
	loop     *eventloop.EventLoop
	registry *require.Registry
	logger   *slog.Logger
	timeout  time.Duration

	goroutine atomic.Int64
	deferred  atomic.Int64

	mu      sync.RWMutex
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Loop.
type Option func(*Loop)

// WithRegistry shares an existing require registry with the loop.
func WithRegistry(registry *require.Registry) Option {
	return func(l *Loop) { l.registry = registry }
}

// WithTimeout overrides DefaultSyncTimeout. Zero waits forever.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) { l.timeout = d }
}

// WithLogger sets the logger used for panics recovered from deferred work.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// New starts a loop. Cancelling ctx closes it.
func New(ctx context.Context, opts ...Option) (*Loop, error) {
	l := &Loop{timeout: DefaultSyncTimeout}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = require.NewRegistry()
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.loop = eventloop.NewEventLoop(
		eventloop.WithRegistry(l.registry),
		eventloop.EnableConsole(true),
	)
	l.loop.Start()

	ready := make(chan struct{})
	if !l.loop.RunOnLoop(func(*goja.Runtime) {
		l.goroutine.Store(goroutineID())
		close(ready)
	}) {
		l.cancel()
		return nil, fmt.Errorf("failed to start: %w", ErrNotRunning)
	}
	<-ready

	if ctx.Done() != nil {
		context.AfterFunc(ctx, func() { _ = l.Close() })
	}
	return l, nil
}

// Registry returns the require registry modules are registered with.
func (l *Loop) Registry() *require.Registry {
	return l.registry
}

// Post schedules fn on the loop without waiting.
func (l *Loop) Post(fn func(*goja.Runtime)) bool {
	if !l.IsRunning() {
		return false
	}
	return l.loop.RunOnLoop(fn)
}

// Do runs fn on the loop and waits for its result. Calling Do from the loop
// goroutine fails instead of deadlocking.
func (l *Loop) Do(fn func(*goja.Runtime) error) error {
	if !l.IsRunning() {
		return ErrNotRunning
	}
	if l.OnLoop() {
		return ErrOnLoop
	}

	errCh := make(chan error, 1)
	if !l.loop.RunOnLoop(func(vm *goja.Runtime) { errCh <- fn(vm) }) {
		return ErrNotRunning
	}

	var timeout <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case err := <-errCh:
		return err
	case <-l.Done():
		return fmt.Errorf("stopped before completion: %w", ErrNotRunning)
	case <-timeout:
		return fmt.Errorf("operation timed out after %v", l.timeout)
	}
}

// Defer runs fn on a later turn of the loop. It is safe to call from any
// goroutine, including the loop itself, and makes the loop usable as the
// binding layer's scheduler.
func (l *Loop) Defer(fn func()) {
	if !l.IsRunning() {
		l.logger.Debug("dropping deferred work, loop stopped")
		return
	}
	l.deferred.Add(1)
	l.loop.SetTimeout(func(*goja.Runtime) {
		defer l.deferred.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				l.logger.Error("deferred work panicked", slog.Any("panic", r))
			}
		}()
		fn()
	}, 0)
}

// Pending returns the number of deferred functions that have not run yet.
func (l *Loop) Pending() int {
	return int(l.deferred.Load())
}

// OnLoop reports whether the caller runs on the loop goroutine.
func (l *Loop) OnLoop() bool {
	id := l.goroutine.Load()
	return id != 0 && id == goroutineID()
}

// RunScript compiles and runs code on the loop.
func (l *Loop) RunScript(name, code string) error {
	return l.Do(func(vm *goja.Runtime) error {
		prg, err := goja.Compile(name, code, true)
		if err != nil {
			return fmt.Errorf("failed to compile %s: %w", name, err)
		}
		if _, err := vm.RunProgram(prg); err != nil {
			return fmt.Errorf("failed to run %s: %w", name, err)
		}
		return nil
	})
}

// Close stops the loop, waiting for scheduled jobs. Safe to call twice.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	l.stopped = true
	l.mu.Unlock()

	l.cancel()
	l.loop.Stop()
	return nil
}

// Done is closed once the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.ctx.Done()
}

// IsRunning reports whether the loop accepts work.
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.stopped
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the current goroutine id out of the stack header, or
// returns 0.
func goroutineID() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, goroutinePrefix)
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
