// Package metrics provides the centralized Prometheus registry reference
// for the pipeline. All metrics are defined in their respective packages
// (fetch, rawstore, blobstore, extract, transform) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the pipeline.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Fetch Metrics (pkg/fetch):
//   - manga_etl_fetch_requests_total{host, status} (Counter): Upstream requests by host and HTTP status
//   - manga_etl_fetch_request_duration_seconds{host} (Histogram): Request duration by host
//   - manga_etl_fetch_retries_total (Counter): Retry attempts
//   - manga_etl_fetch_retry_backoff_seconds (Histogram): Backoff duration before retries
//   - manga_etl_fetch_retry_exhausted_total (Counter): Requests that exhausted the retry budget
//   - manga_etl_fetch_fallback_total (Counter): Pages served by the fallback endpoint
//   - manga_etl_fetch_end_of_data_total (Counter): Tolerated 400 responses marking end of data
//
// Raw Store Metrics (pkg/rawstore):
//   - manga_etl_raw_blobs_total (Counter): JSONL blobs written
//   - manga_etl_raw_records_total (Counter): Records written to JSONL blobs
//   - manga_etl_raw_lines_total{result} (Counter): Raw lines read back by outcome (decoded, skipped)
//
// Blob Store Metrics (pkg/blobstore):
//   - manga_etl_store_operations_total{op, status} (Counter): Object store operations by outcome
//
// Run Metrics (pkg/extract, pkg/transform):
//   - manga_etl_extract_pages_total (Counter): Pages fetched across extraction runs
//   - manga_etl_extract_runs_total{status} (Counter): Extraction runs by outcome
//   - manga_etl_extract_run_duration_seconds (Histogram): Extraction run duration
//   - manga_etl_transform_rows_total (Counter): Rows normalized across transform runs
//   - manga_etl_transform_runs_total{status} (Counter): Transform runs by outcome
//
// Example Prometheus Queries:
//
//   # Fallback Rate
//   rate(manga_etl_fetch_fallback_total[5m]) / rate(manga_etl_fetch_requests_total[5m])
//
//   # Raw Line Skip Rate
//   rate(manga_etl_raw_lines_total{result="skipped"}[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(manga_etl_fetch_request_duration_seconds_bucket[5m]))
//
//   # Failed Runs
//   increase(manga_etl_extract_runs_total{status="failure"}[1d])
