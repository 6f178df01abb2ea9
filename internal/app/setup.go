package app

import (
	"log/slog"
	"net/http"

	backendrest "github.com/abgdnv/storefront/internal/backend/rest"
	backendstore "github.com/abgdnv/storefront/internal/backend/store"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/transport/rest"
	sharedcfg "github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds what the storefront HTTP handler needs.
type Dependencies struct {
	Session *Session
	Logger  *slog.Logger
	// Metrics is mounted at MetricsPath when not nil.
	Metrics     http.Handler
	MetricsPath string
}

// SetupHttpHandler builds the view API router bound to the session store.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	mux.Use(rest.WithStore(deps.Session.Store))
	rest.NewHandler(deps.Session, deps.Logger).RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics)
	}
}

// SetupHttpServer creates and configures the storefront HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(httpConfig(cfg.HTTPServer), "storefront", SetupHttpHandler(deps))
}

// BackendDependencies holds what the demo data source needs.
type BackendDependencies struct {
	Products    backendstore.ProductStore
	Logger      *slog.Logger
	Metrics     http.Handler
	MetricsPath string
}

// SetupBackendDependencies selects the product store: PostgreSQL when a pool is given,
// otherwise an in-memory store seeded with the demo products.
func SetupBackendDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *BackendDependencies {
	var products backendstore.ProductStore
	if dbPool != nil {
		products = backendstore.NewPgStore(dbPool)
	} else {
		logger.Info("No database configured, serving demo products from memory")
		products = backendstore.NewInMemoryStore(backendstore.SeedProducts())
	}
	return &BackendDependencies{
		Products: products,
		Logger:   logger,
	}
}

// SetupBackendHandler builds the demo data source router.
func SetupBackendHandler(deps *BackendDependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	backendrest.NewHandler(deps.Products, deps.Logger).RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.Metrics)
	}
	return mux
}

// SetupBackendServer creates and configures the demo data source HTTP server.
func SetupBackendServer(deps *BackendDependencies, cfg *config.BackendConfig) *http.Server {
	return server.NewHTTPServer(httpConfig(cfg.HTTPServer), "storefront-backend", SetupBackendHandler(deps))
}

func httpConfig(c sharedcfg.HTTPConfig) server.HTTPConfig {
	return server.HTTPConfig{
		Port:           c.Port,
		MaxHeaderBytes: c.MaxHeaderBytes,
		ReadTimeout:    c.Timeout.Read,
		WriteTimeout:   c.Timeout.Write,
		IdleTimeout:    c.Timeout.Idle,
		ReadHeader:     c.Timeout.ReadHeader,
	}
}
