// Command transform normalizes a load date's raw JSONL blobs into the
// tabular manga schema and uploads the result as a CSV object.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mangafold/manga-etl/pkg/blobstore"
	"github.com/mangafold/manga-etl/pkg/config"
	"github.com/mangafold/manga-etl/pkg/logging"
	"github.com/mangafold/manga-etl/pkg/transform"
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

	if err := cfg.Validate(); err != nil {
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

	rows, err := transform.NewJob(store).Run(ctx, cfg.LoadDate())
	if err != nil {
		logger.Error().Err(err).Msg("Transform run failed")
		os.Exit(1)
	}

	logger.Info().
		Int("rows", rows).
		Str("key", transform.OutputKey(cfg.LoadDate())).
		Msg("Transform finished")
}
