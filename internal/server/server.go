// Package server runs the HTTP and gRPC listeners for a kernel and shuts
// them down together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/internal/kernel"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/database"
	grpcserver "github.com/shashiranjanraj/inventory/pkg/grpc"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/storage"
	"github.com/shashiranjanraj/inventory/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

// Start boots the application from config and serves until SIGINT or
// SIGTERM.
func Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if uri := config.LogMongoURI(); uri != "" {
		h, err := logger.NewMongoHandler(ctx, uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			logger.Tee(h)
			defer h.Close()
		}
	}

	shutdownTracing, err := tracing.Init(ctx, "inventory", config.AppEnv(), config.OTelEndpoint())
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	store := cache.New(ctx)
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close() //nolint:errcheck
	}

	opts := kernel.Options{Cache: store}
	if expr := config.ExportSchedule(); expr != "" {
		disks, err := storage.NewManager(ctx)
		if err != nil {
			return err
		}
		if opts.ExportDisk, err = disks.Use(""); err != nil {
			return err
		}
		opts.ExportSchedule = expr
	}

	k, err := kernel.New(db, opts)
	if err != nil {
		return fmt.Errorf("server: build kernel: %w", err)
	}

	httpLis, err := net.Listen("tcp", ":"+config.AppPort())
	if err != nil {
		return fmt.Errorf("server: listen on :%s: %w", config.AppPort(), err)
	}

	var grpcLis net.Listener
	if port := config.GRPCPort(); port != "" {
		if grpcLis, err = grpcserver.Listen(port); err != nil {
			httpLis.Close()
			return err
		}
	}

	return Serve(ctx, k, httpLis, grpcLis)
}

// Serve runs k on the given listeners until ctx is done or one of them
// fails, then drains both. grpcLis may be nil.
func Serve(ctx context.Context, k *kernel.Kernel, httpLis, grpcLis net.Listener) error {
	srv := &http.Server{
		Handler:           k.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var rpc *grpcserver.Server
	if grpcLis != nil {
		rpc = grpcserver.New()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		k.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpLis.Addr().String(), "env", config.AppEnv())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: http: %w", err)
		}
		return nil
	})

	if rpc != nil {
		g.Go(func() error {
			rpc.SetServing(true)
			if err := rpc.Serve(grpcLis); err != nil {
				return fmt.Errorf("server: grpc: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		if rpc != nil {
			rpc.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
