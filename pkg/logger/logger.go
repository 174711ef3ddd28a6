// Package logger provides the structured, levelled logger used across the
// service. It is built on log/slog.
//
// Handlers should log through WithCtx so every line carries the request id
// injected by the request logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("stock merged", "sku", sku, "quantity", p.Quantity)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/inventory/config"
)

var (
	mu   sync.RWMutex
	base *slog.Logger
)

func init() {
	base = New(os.Stdout, config.IsProduction())
	slog.SetDefault(base)
}

// New builds a logger writing to w: JSON for production log aggregators,
// text for local development.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Base returns the process-wide logger.
func Base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetBase replaces the process-wide logger. Tests use it to capture output.
func SetBase(l *slog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
	slog.SetDefault(l)
}

// Tee makes the base logger also write every record to h.
func Tee(h slog.Handler) {
	SetBase(slog.New(fanout{Base().Handler(), h}))
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the per-request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return Base()
}

// InjectLogger stores log in ctx. Called by the request logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Short-hand helpers on the base logger.

func Debug(msg string, args ...any) { Base().Debug(msg, args...) }
func Info(msg string, args ...any)  { Base().Info(msg, args...) }
func Warn(msg string, args ...any)  { Base().Warn(msg, args...) }
func Error(msg string, args ...any) { Base().Error(msg, args...) }

// fanout forwards records to every handler that accepts the level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
