// Package sse serves Server-Sent Events. A Broker fans named events out to
// every open stream; clients that cannot keep up lose events rather than
// stall the publisher.
//
//	b := sse.NewBroker()
//	r.Get("/api/stock/stream", "stock.stream", b.Handler())
//	b.Broadcast("stock.merged", payload)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/logger"
)

const (
	subscriberBuffer = 32
	heartbeat        = 15 * time.Second
)

// Stream is one open event stream.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// New sets the event-stream headers and sends them. Write deadlines set by
// the server are lifted so the stream can outlive WriteTimeout.
func New(w http.ResponseWriter) (*Stream, error) {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		return nil, fmt.Errorf("sse: flush unsupported: %w", err)
	}
	_ = rc.SetWriteDeadline(time.Time{})
	return &Stream{w: w, rc: rc}, nil
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.write("event: %s\ndata: %s\n\n", event, payload)
}

func (s *Stream) sendEncoded(event string, payload []byte) error {
	return s.write("event: %s\ndata: %s\n\n", event, payload)
}

// Comment writes a comment line. Clients ignore it; proxies see traffic.
func (s *Stream) Comment(msg string) error {
	return s.write(": %s\n\n", msg)
}

func (s *Stream) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(s.w, format, args...); err != nil {
		return err
	}
	return s.rc.Flush()
}

type message struct {
	event   string
	payload []byte
}

// Broker fans events out to subscribed streams.
type Broker struct {
	mu    sync.RWMutex
	subs  map[chan message]struct{}
	count atomic.Int64
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan message]struct{})}
}

// Broadcast encodes data once and offers it to every subscriber without
// blocking.
func (b *Broker) Broadcast(event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("sse: marshal event", "event", event, "error", err)
		return
	}
	msg := message{event: event, payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
			logger.Warn("sse: subscriber lagging, event dropped", "event", event)
		}
	}
}

// ClientCount returns the number of open streams.
func (b *Broker) ClientCount() int { return int(b.count.Load()) }

func (b *Broker) subscribe() chan message {
	ch := make(chan message, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	b.count.Add(1)
	return ch
}

func (b *Broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	b.count.Add(-1)
}

// Handler streams broadcasts to the client until it disconnects.
func (b *Broker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.WithCtx(r.Context())

		stream, err := New(w)
		if err != nil {
			log.Warn("sse: stream unavailable", "error", err)
			return
		}

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		if err := stream.Comment("connected"); err != nil {
			return
		}
		for {
			select {
			case <-r.Context().Done():
				return
			case msg := <-ch:
				if err := stream.sendEncoded(msg.event, msg.payload); err != nil {
					log.Debug("sse: client gone", "error", err)
					return
				}
			case <-ticker.C:
				if err := stream.Comment("ping"); err != nil {
					return
				}
			}
		}
	}
}
