// Package listeners subscribes side effects to stock events.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
)

var stockEvents = []string{
	services.EventStockCreated,
	services.EventStockMerged,
	services.EventStockUpdated,
	services.EventStockDeleted,
}

// Feed pushes stock events to live clients. *ws.Hub and *sse.Broker
// implement it.
type Feed interface {
	Broadcast(event string, data interface{})
}

// Register wires the audit log and every non-nil feed.
func Register(bus *event.Dispatcher, feeds ...Feed) {
	for _, name := range stockEvents {
		name := name
		bus.Listen(name, func(ctx context.Context, payload interface{}) {
			audit(ctx, name, payload)
		})
		for _, f := range feeds {
			if f == nil {
				continue
			}
			f := f
			bus.Listen(name, func(_ context.Context, payload interface{}) {
				f.Broadcast(name, payload)
			})
		}
	}
}

func audit(ctx context.Context, name string, payload interface{}) {
	ev, ok := payload.(services.StockEvent)
	if !ok {
		return
	}
	args := []any{"event", name, "sku", ev.SKU}
	if ev.Received > 0 {
		args = append(args, "received", ev.Received)
	}
	if ev.Product != nil {
		args = append(args, "quantity", ev.Product.Quantity)
	}
	logger.WithCtx(ctx).With("component", "audit").Info("stock event", args...)
}
