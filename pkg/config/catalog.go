package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
)

// CatalogConfig points a storefront session at its product and stock data source.
type CatalogConfig struct {
	APIBase        string        `koanf:"apibase"`
	PollMs         int           `koanf:"pollms"`
	Origin         string        `koanf:"origin"`
	RequestTimeout time.Duration `koanf:"requesttimeout"`
}

const (
	defaultAPIBase        = "/api"
	defaultPollMs         = 15000
	defaultOrigin         = "http://localhost:8081"
	defaultRequestTimeout = 10 * time.Second
)

// PollInterval returns the stock polling interval.
func (c *CatalogConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

// String returns a string representation of the CatalogConfig.
func (c *CatalogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  apibase: %s\n", c.APIBase))
	b.WriteString(fmt.Sprintf("  pollms: %d\n", c.PollMs))
	b.WriteString(fmt.Sprintf("  origin: %s\n", c.Origin))
	b.WriteString(fmt.Sprintf("  requesttimeout: %s\n", c.RequestTimeout))
	return b.String()
}

func (c *CatalogConfig) Validate() error {
	if c.APIBase == "" {
		log.Println("Using default value for catalog.apibase")
		c.APIBase = defaultAPIBase
	}
	if c.PollMs <= 0 {
		log.Println("Using default value for catalog.pollms")
		c.PollMs = defaultPollMs
	}
	if c.Origin == "" {
		log.Println("Using default value for catalog.origin")
		c.Origin = defaultOrigin
	}
	if c.RequestTimeout <= 0 {
		log.Println("Using default value for catalog.requesttimeout")
		c.RequestTimeout = defaultRequestTimeout
	}
	if u, err := url.Parse(c.Origin); err != nil || !u.IsAbs() {
		return fmt.Errorf("catalog origin must be an absolute URL: %s", c.Origin)
	}
	return nil
}
