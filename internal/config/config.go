// Package config defines the configuration of the storefront commands.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
)

var (
	_ configloader.Validator = (*Config)(nil)
	_ configloader.Validator = (*BackendConfig)(nil)
)

// Config configures the storefront session server.
type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Catalog    config.CatalogConfig   `koanf:"catalog"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Catalog.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks the configuration values and fills in defaults.
func (c *Config) Validate() error {
	return validateAll(&c.HTTPServer, &c.Catalog, &c.Log, &c.PProf, &c.Telemetry, &c.Shutdown)
}

// BackendConfig configures the demo data backend serving products and stock.
type BackendConfig struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Database   config.DatabaseConfig  `koanf:"database"`
	Log        config.LogConfig       `koanf:"log"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
}

func (c *BackendConfig) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks the configuration values and fills in defaults.
func (c *BackendConfig) Validate() error {
	return validateAll(&c.HTTPServer, &c.Database, &c.Log, &c.Telemetry, &c.Shutdown)
}

func validateAll(parts ...configloader.Validator) error {
	for _, p := range parts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}
