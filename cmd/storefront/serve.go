package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/abgdnv/storefront/internal/app"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/pkg/bootstrap"
	"github.com/abgdnv/storefront/pkg/config/configloader"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront"

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a catalog/cart session and expose it over HTTP",
		Long: `Start a session: load the product list from the data source, poll stock levels
every catalog.pollms milliseconds and serve the catalog and cart under /api/v1.

Example:
  storefront serve --config ./config.yaml
  STOREFRONT_CATALOG_POLLMS=5000 storefront serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

// runServe wires the session, the view API server and the optional pprof server.
func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, cfgErr := configloader.LoadWithOptions[*config.Config](serviceName, configloader.Options{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	})
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	metrics, shutdownTelemetry, err := setupTelemetry(ctx, serviceName, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		shutdownTelemetry(shutdownCtx)
	}()

	session := app.NewSession(cfg.Catalog, gateway.HTTPSourceFactory(cfg.Catalog.Origin, cfg.Catalog.RequestTimeout), logger)
	deps := &app.Dependencies{Session: session, Logger: logger}
	if cfg.Telemetry.Metrics.Enabled {
		deps.Metrics = metrics.Handler
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	httpServer := app.SetupHttpServer(deps, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	session.Start(gCtx)
	// closing the session also ends open event streams, so the HTTP shutdown is not held up by them
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Stopping session...")
		session.Close()
		return nil
	})

	serveHTTP(gCtx, g, httpServer, "HTTP server", cfg.Shutdown.Timeout, logger)
	servePprof(gCtx, g, cfg.PProf, cfg.Shutdown.Timeout, logger)

	return waitGroup(g)
}
