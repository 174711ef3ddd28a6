package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_StreamsBroadcasts(t *testing.T) {
	b := NewBroker()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := bufio.NewScanner(res.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, ": connected", lines.Text())

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	b.Broadcast("stock.created", map[string]int{"sku": 457055000})

	var got []string
	for lines.Scan() {
		if line := lines.Text(); line != "" {
			got = append(got, line)
		}
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"event: stock.created", `data: {"sku":457055000}`}, got)

	cancel()
	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroker_LaggingSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			b.Broadcast("stock.merged", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a full subscriber")
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestStream_Send(t *testing.T) {
	rec := httptest.NewRecorder()
	s, err := New(rec)
	require.NoError(t, err)

	require.NoError(t, s.Send("stock.deleted", map[string]int64{"sku": 1}))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "event: stock.deleted\ndata: {\"sku\":1}\n\n"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}
