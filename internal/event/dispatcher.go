// Package event provides in-process fan-out of domain events to
// asynchronous handlers. Delivery is at-most-once and best-effort: handler
// errors and panics are logged and swallowed, and a full queue drops the
// event rather than blocking the publisher.
package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

// Handler consumes one domain event. Errors are logged by the dispatcher
// and never reach the publisher.
type Handler func(ctx context.Context, e domain.Event) error

// Dispatcher fans events out to subscribed handlers on a worker pool.
type Dispatcher struct {
	log     *slog.Logger
	queue   chan domain.Event
	workers int

	mu       sync.RWMutex
	handlers map[domain.EventName][]Handler

	wg      sync.WaitGroup
	started bool
	dropped func(name domain.EventName)
	handled func(name domain.EventName)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDroppedHook installs a callback invoked when a publish is dropped
// because the queue is full. Used to feed the dropped-events metric.
func WithDroppedHook(fn func(name domain.EventName)) Option {
	return func(d *Dispatcher) { d.dropped = fn }
}

// WithHandledHook installs a callback invoked after an event has been
// delivered to its handlers. Used to feed the handled-events metric.
func WithHandledHook(fn func(name domain.EventName)) Option {
	return func(d *Dispatcher) { d.handled = fn }
}

// NewDispatcher creates a dispatcher with the given queue capacity and
// worker count.
func NewDispatcher(log *slog.Logger, queueSize, workers int, opts ...Option) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	d := &Dispatcher{
		log:      log,
		queue:    make(chan domain.Event, queueSize),
		workers:  workers,
		handlers: make(map[domain.EventName][]Handler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Subscribe registers a handler for an event name. Must be called before
// Start.
func (d *Dispatcher) Subscribe(name domain.EventName, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Start launches the worker pool. Workers exit when ctx is cancelled and
// the queue has drained.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
}

// Publish enqueues an event without blocking. If the queue is full the
// event is dropped and logged; the caller's transaction has already
// committed and must not be affected.
func (d *Dispatcher) Publish(e domain.Event) {
	select {
	case d.queue <- e:
	default:
		d.log.Warn("event queue full, dropping event", "event", string(e.Name()))
		if d.dropped != nil {
			d.dropped(e.Name())
		}
	}
}

// Close waits for in-flight handlers to finish. Call after cancelling the
// context passed to Start.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for e := range d.queue {
		d.dispatch(ctx, e)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, e domain.Event) {
	d.mu.RLock()
	handlers := d.handlers[e.Name()]
	d.mu.RUnlock()

	for _, h := range handlers {
		d.safeHandle(ctx, h, e)
	}
	if d.handled != nil {
		d.handled(e.Name())
	}
}

func (d *Dispatcher) safeHandle(ctx context.Context, h Handler, e domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler panicked", "event", string(e.Name()), "panic", r)
		}
	}()

	if err := h(ctx, e); err != nil {
		d.log.Error("event handler failed", "event", string(e.Name()), "error", err)
	}
}
