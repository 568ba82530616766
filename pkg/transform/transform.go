// Package transform turns a load date's raw JSONL blobs into the fixed
// tabular manga schema and publishes the result as a CSV object.
package transform

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/blobstore"
	"github.com/mangafold/manga-etl/pkg/logging"
	"github.com/mangafold/manga-etl/pkg/normalize"
	"github.com/mangafold/manga-etl/pkg/rawstore"
)

const csvContentType = "text/csv"

// Prometheus metrics for transform runs.
var (
	rowsNormalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_transform_rows_total",
		Help: "Rows normalized across transform runs",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manga_etl_transform_runs_total",
		Help: "Transform runs by outcome",
	}, []string{"status"})
)

// OutputKey returns the processed CSV object key for a load date.
func OutputKey(loadDate time.Time) string {
	return fmt.Sprintf("processed/manga/load_date=%s/manga.csv", loadDate.Format("2006-01-02"))
}

// Job reads raw records back from the store, normalizes each one, and
// writes the tabular result.
type Job struct {
	store  blobstore.Store
	reader *rawstore.Reader
	logger zerolog.Logger
}

// NewJob creates a transform job over the given store.
func NewJob(store blobstore.Store) *Job {
	return &Job{
		store:  store,
		reader: rawstore.NewReader(store),
		logger: logging.NewLogger("transform"),
	}
}

// Rows normalizes every raw record of the load date, in blob and line
// order, into one row each. Malformed raw lines were already skipped by
// the reader.
func (j *Job) Rows(ctx context.Context, loadDate time.Time) ([]normalize.Row, error) {
	var rows []normalize.Row
	err := j.reader.Scan(ctx, loadDate, func(record map[string]any) error {
		rows = append(rows, normalize.Normalize(record))
		rowsNormalizedTotal.Inc()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan raw records: %w", err)
	}
	return rows, nil
}

// Run executes the transform for loadDate: normalize all raw records and
// upload them as a single CSV object. It returns the number of data rows
// written. A load date with no raw blobs produces a header-only CSV.
func (j *Job) Run(ctx context.Context, loadDate time.Time) (int, error) {
	j.logger.Info().
		Str("load_date", loadDate.Format("2006-01-02")).
		Msg("Starting transform run")

	rows, err := j.Rows(ctx, loadDate)
	if err != nil {
		runsTotal.WithLabelValues("failure").Inc()
		return 0, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(normalize.Columns()); err != nil {
		runsTotal.WithLabelValues("failure").Inc()
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Strings()); err != nil {
			runsTotal.WithLabelValues("failure").Inc()
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		runsTotal.WithLabelValues("failure").Inc()
		return 0, fmt.Errorf("flush csv: %w", err)
	}

	key := OutputKey(loadDate)
	if err := j.store.Put(ctx, key, buf.Bytes(), csvContentType); err != nil {
		runsTotal.WithLabelValues("failure").Inc()
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}

	runsTotal.WithLabelValues("success").Inc()
	j.logger.Info().
		Str("key", key).
		Int("rows", len(rows)).
		Msg("Transform run complete")
	return len(rows), nil
}
