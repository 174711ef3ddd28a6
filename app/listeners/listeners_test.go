package listeners

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
)

type delivery struct {
	event string
	data  interface{}
}

type fakeFeed struct {
	mu  sync.Mutex
	got []delivery
}

func (f *fakeFeed) Broadcast(event string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, delivery{event, data})
}

func TestRegister_BroadcastsAndAudits(t *testing.T) {
	prev := logger.Base()
	t.Cleanup(func() { logger.SetBase(prev) })
	var buf bytes.Buffer
	logger.SetBase(logger.New(&buf, false))

	bus := event.New()
	ws, sse := &fakeFeed{}, &fakeFeed{}
	Register(bus, ws, sse)

	payload := services.StockEvent{SKU: 346071090, Received: 3, Product: &models.Product{SKU: 346071090, Quantity: 8}}
	bus.Fire(context.Background(), services.EventStockMerged, payload)

	for _, f := range []*fakeFeed{ws, sse} {
		require.Len(t, f.got, 1)
		assert.Equal(t, services.EventStockMerged, f.got[0].event)
		assert.Equal(t, payload, f.got[0].data)
	}

	out := buf.String()
	assert.Contains(t, out, "component=audit")
	assert.Contains(t, out, "sku=346071090")
	assert.Contains(t, out, "received=3")
	assert.Contains(t, out, "quantity=8")
}

func TestRegister_NoFeeds(t *testing.T) {
	bus := event.New()
	Register(bus, nil)
	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), services.EventStockDeleted, services.StockEvent{SKU: 1})
	})
}
