// Package config loads pipeline configuration from command line flags and
// environment variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config holds the configuration shared by the extract and transform jobs.
type Config struct {
	// Upstream API
	APIBase     string        `long:"api-base" env:"MANGA_API_BASE" description:"Primary manga API base URL"`
	APIFallback string        `long:"api-fallback" env:"MANGA_API_FALLBACK" description:"Fallback (public mirror) API base URL"`
	Timeout     time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"20s" description:"Per-request HTTP timeout"`
	Retries     int           `long:"request-retries" env:"REQUEST_RETRIES" default:"3" description:"Retry count for transient HTTP failures"`

	// Blob store
	MinioEndpoint  string `long:"minio-endpoint" env:"MINIO_ENDPOINT" default:"localhost:9000" description:"MinIO endpoint (host:port)"`
	MinioAccessKey string `long:"minio-access-key" env:"MINIO_ACCESS_KEY" description:"MinIO access key"`
	MinioSecretKey string `long:"minio-secret-key" env:"MINIO_SECRET_KEY" description:"MinIO secret key"`
	MinioBucket    string `long:"minio-bucket" env:"MINIO_BUCKET" default:"datalake" description:"Bucket holding raw and processed partitions"`
	MinioUseSSL    bool   `long:"minio-ssl" env:"MINIO_USE_SSL" description:"Use TLS for the MinIO connection"`

	// Run parameters
	PageSize  int    `long:"page-size" env:"PAGE_SIZE" default:"100" description:"Records requested per API page"`
	BatchSize int    `long:"batch-size" env:"BATCH_SIZE" default:"1000" description:"Records buffered before flushing one raw blob"`
	Date      string `long:"date" env:"LOAD_DATE" description:"Load date partition (YYYY-MM-DD), defaults to today (UTC)"`

	// Observability
	MetricsAddr string `long:"metrics-addr" env:"METRICS_ADDR" description:"Address for the Prometheus metrics listener (empty disables it)"`
	LogLevel    string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	LogPretty   bool   `long:"log-pretty" env:"LOG_PRETTY" description:"Human-readable console log output"`

	loadDate time.Time
}

// Load parses configuration from args (typically os.Args[1:]) and the
// environment. Returns (nil, nil) when help output was requested.
func Load(args []string) (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration shared by both jobs and resolves the load
// date. An empty date defaults to today in UTC.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Retries < 0 {
		return fmt.Errorf("request retries cannot be negative")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.MinioEndpoint == "" {
		return fmt.Errorf("minio endpoint cannot be empty")
	}
	if c.MinioBucket == "" {
		return fmt.Errorf("minio bucket cannot be empty")
	}

	if c.Date == "" {
		c.loadDate = time.Now().UTC().Truncate(24 * time.Hour)
		return nil
	}
	d, err := time.Parse("2006-01-02", c.Date)
	if err != nil {
		return fmt.Errorf("invalid load date %q (want YYYY-MM-DD): %w", c.Date, err)
	}
	c.loadDate = d
	return nil
}

// ValidateExtract runs Validate and additionally requires at least one API
// endpoint, which only the extract job needs.
func (c *Config) ValidateExtract() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIBase == "" && c.APIFallback == "" {
		return fmt.Errorf("no API endpoint configured: set MANGA_API_BASE or MANGA_API_FALLBACK")
	}
	for _, base := range []string{c.APIBase, c.APIFallback} {
		if base == "" {
			continue
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid API base URL %q: %w", base, err)
		}
		if u.Host == "" {
			return fmt.Errorf("API base URL %q must include a host", base)
		}
	}
	return nil
}

// LoadDate returns the resolved load date partition. Only valid after
// Validate has succeeded.
func (c *Config) LoadDate() time.Time {
	return c.loadDate
}
