package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/abgdnv/storefront/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

// serveHTTP runs srv in g and shuts it down gracefully once gCtx is done.
func serveHTTP(gCtx context.Context, g *errgroup.Group, srv *http.Server, name string, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info(name+" listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down " + name + "...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// servePprof starts the pprof server when enabled.
func servePprof(gCtx context.Context, g *errgroup.Group, cfg config.PProfConfig, timeout time.Duration, logger *slog.Logger) {
	if !cfg.Enabled {
		logger.Info("Pprof server is disabled")
		return
	}
	serveHTTP(gCtx, g, server.NewPprofServer(cfg.Addr), "pprof server", timeout, logger)
}

// setupTelemetry installs the meter provider and, when enabled, the tracer provider.
// The returned function flushes both.
func setupTelemetry(ctx context.Context, serviceName string, cfg config.TelemetryConfig, logger *slog.Logger) (*telemetry.Metrics, func(context.Context), error) {
	metrics, err := telemetry.NewMeterProvider(serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	shutdowns := []func(context.Context) error{metrics.Shutdown}

	if cfg.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg)
		if err != nil {
			_ = metrics.Shutdown(ctx)
			return nil, nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		shutdowns = append(shutdowns, tp.Shutdown)
		logger.Info("Tracing enabled", "endpoint", cfg.Traces.OtlpHttp.Endpoint)
	}

	return metrics, func(ctx context.Context) {
		for _, shutdown := range shutdowns {
			if err := shutdown(ctx); err != nil {
				logger.Error("Telemetry shutdown failed", "error", err)
			}
		}
	}, nil
}

// waitGroup turns the errgroup result into the command result; a cancelled context is a clean stop.
func waitGroup(g *errgroup.Group) error {
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
