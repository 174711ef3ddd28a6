// Package event is an in-process publish/subscribe dispatcher. The product
// service fires stock events; listeners invalidate the cache, broadcast to
// websocket clients, and write audit logs.
//
//	bus := event.New()
//	bus.Listen("stock.merged", func(ctx context.Context, payload any) { ... })
//	bus.Fire(ctx, "stock.merged", p)
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/inventory/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Dispatcher routes named events to their listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup

	qmu      sync.Mutex
	queue    []job
	draining bool
}

type job struct {
	ctx     context.Context
	event   string
	payload interface{}
}

func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Listen registers handler for event.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Fire dispatches synchronously, in registration order.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload interface{}) {
	for _, h := range d.listeners(event) {
		d.run(ctx, event, h, payload)
	}
}

// FireAsync queues the event and returns immediately. One background
// goroutine drains the queue, so listeners see async events in the order
// they were fired. The listeners get a context detached from ctx's
// cancellation so they outlive the request that fired the event.
func (d *Dispatcher) FireAsync(ctx context.Context, event string, payload interface{}) {
	d.inflight.Add(1)

	d.qmu.Lock()
	d.queue = append(d.queue, job{ctx: context.WithoutCancel(ctx), event: event, payload: payload})
	start := !d.draining
	d.draining = true
	d.qmu.Unlock()

	if start {
		go d.drain()
	}
}

// drain runs queued events until the queue is empty, then exits.
func (d *Dispatcher) drain() {
	for {
		d.qmu.Lock()
		if len(d.queue) == 0 {
			d.draining = false
			d.qmu.Unlock()
			return
		}
		j := d.queue[0]
		d.queue[0] = job{}
		d.queue = d.queue[1:]
		d.qmu.Unlock()

		d.Fire(j.ctx, j.event, j.payload)
		d.inflight.Done()
	}
}

// Wait blocks until every queued event has been handled.
func (d *Dispatcher) Wait() { d.inflight.Wait() }

// Flush removes all listeners.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string][]Handler)
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[event]...)
}

func (d *Dispatcher) run(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}
