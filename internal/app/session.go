// Package app wires the storefront session and the HTTP servers of both commands.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/config"
)

// Session is one store instance plus the gateway feeding it.
type Session struct {
	Store   *store.Store
	Gateway *gateway.Gateway

	mu       sync.Mutex // guards settings
	settings gateway.Settings
	logger   *slog.Logger
}

// NewSession builds a session for the given catalog configuration. Nothing runs until Start.
func NewSession(cfg config.CatalogConfig, newSource gateway.SourceFactory, logger *slog.Logger) *Session {
	s := store.New(logger)
	return &Session{
		Store:    s,
		Gateway:  gateway.New(s, newSource, logger),
		settings: settingsFrom(cfg),
		logger:   logger.With("component", "session"),
	}
}

func settingsFrom(cfg config.CatalogConfig) gateway.Settings {
	return gateway.Settings{
		APIBase:      cfg.APIBase,
		PollInterval: cfg.PollInterval(),
	}
}

// Start kicks off the initial load and the stock polling. Both stop when ctx is done.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.InfoContext(ctx, "Session starting", "api_base", s.settings.APIBase, "poll_interval", s.settings.PollInterval)
	s.Gateway.Start(ctx, s.settings)
}

// Reconfigure points the session at a new data source or polling cadence.
// Called before Start, it only replaces the settings Start will use.
func (s *Session) Reconfigure(cfg config.CatalogConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settingsFrom(cfg)
	s.Gateway.Reconfigure(s.settings)
}

// Load restarts the product load.
func (s *Session) Load() {
	s.Gateway.Load()
}

// StartPolling reschedules the stock poll.
func (s *Session) StartPolling(every time.Duration) {
	s.Gateway.StartPolling(every)
}

// Close stops the gateway, waits for its goroutines and then closes the store.
// No action reaches the store after Close returns.
func (s *Session) Close() {
	s.Gateway.Close()
	s.Store.Close()
	s.logger.Info("Session closed")
}
