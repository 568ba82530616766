// Command extract runs one extraction: paginate the manga API and land the
// raw record stream as JSONL blobs in the object store.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mangafold/manga-etl/pkg/blobstore"
	"github.com/mangafold/manga-etl/pkg/config"
	"github.com/mangafold/manga-etl/pkg/extract"
	"github.com/mangafold/manga-etl/pkg/fetch"
	"github.com/mangafold/manga-etl/pkg/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	if cfg == nil {
		// Help output was requested.
		return
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	if err := cfg.ValidateExtract(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Starting metrics listener")
			if err := http.ListenAndServe(cfg.MetricsAddr, promhttp.Handler()); err != nil {
				logger.Error().Err(err).Msg("Metrics listener failed")
			}
		}()
	}

	ctx := context.Background()

	store, err := blobstore.NewMinioStore(blobstore.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create blob store")
		os.Exit(1)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure bucket")
		os.Exit(1)
	}

	retry := fetch.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Retries + 1
	fetcher := fetch.NewFetcher(cfg.Timeout, retry)
	paginator := fetch.NewPaginator(fetcher, cfg.APIBase, cfg.APIFallback)

	runner := extract.NewRunner(paginator, store, cfg.PageSize, cfg.BatchSize)
	stats, err := runner.Run(ctx, cfg.LoadDate())
	if err != nil {
		logger.Error().Err(err).Msg("Extraction run failed")
		os.Exit(1)
	}

	logger.Info().
		Int("pages", stats.Pages).
		Int("records", stats.Records).
		Int("blobs", stats.Blobs).
		Msg("Extraction finished")
}
