package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestWithCtx_FallsBackToBase(t *testing.T) {
	assert.Same(t, Base(), WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := New(&buf, false).With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)

	WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Info("stock merged", "sku", 346071090)
	assert.Contains(t, buf.String(), `"msg":"stock merged"`)
	assert.Contains(t, buf.String(), `"sku":346071090`)
}

func TestMongoHandler_FlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	disconnected := false
	h := newMongoHandler(col, func(context.Context) error {
		disconnected = true
		return nil
	})

	log := slog.New(h).With("request_id", "rid-1").WithGroup("stock")
	log.Info("merged", "sku", 42)
	log.Warn("collision", "sku", 43)

	h.Close()
	h.Close()

	require.Len(t, col.docs, 2)
	assert.Equal(t, "rid-1", col.docs[0].RequestID)
	assert.Equal(t, "merged", col.docs[0].Msg)
	assert.EqualValues(t, 42, col.docs[0].Attrs["stock.sku"])
	assert.Equal(t, "WARN", col.docs[1].Level)
	assert.True(t, disconnected)
}

func TestTee_WritesToBothHandlers(t *testing.T) {
	prev := Base()
	t.Cleanup(func() { SetBase(prev) })

	var a, b bytes.Buffer
	SetBase(New(&a, false))
	Tee(slog.NewTextHandler(&b, nil))

	Info("restocked", "sku", 1)
	assert.Contains(t, a.String(), "restocked")
	assert.Contains(t, b.String(), "restocked")
}
