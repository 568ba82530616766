package rawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/blobstore"
	"github.com/mangafold/manga-etl/pkg/logging"
)

// Writer buffers raw records and flushes them as newline-delimited JSON
// blobs. One Writer covers one extraction run: all flushes share the run
// timestamp and advance the file index, so blobs are unique per run and
// never overwritten.
type Writer struct {
	store    blobstore.Store
	loadDate time.Time
	runTime  time.Time
	batch    []json.RawMessage
	flushed  int
	logger   zerolog.Logger
}

// NewWriter creates a Writer for one run identified by loadDate and
// runTime (UTC, second precision in keys).
func NewWriter(store blobstore.Store, loadDate, runTime time.Time) *Writer {
	return &Writer{
		store:    store,
		loadDate: loadDate,
		runTime:  runTime,
		logger:   logging.NewLogger("raw-writer"),
	}
}

// Append adds records to the in-memory batch.
func (w *Writer) Append(records []json.RawMessage) {
	w.batch = append(w.batch, records...)
}

// Len returns the number of buffered records.
func (w *Writer) Len() int {
	return len(w.batch)
}

// BlobsWritten returns how many blobs this Writer has flushed.
func (w *Writer) BlobsWritten() int {
	return w.flushed
}

// Flush serializes the batch as NDJSON, uploads it as one blob, and clears
// the batch. A Flush with an empty batch is a no-op.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}

	payload, err := encodeNDJSON(w.batch)
	if err != nil {
		return fmt.Errorf("encode raw batch: %w", err)
	}

	key := ObjectKey(w.loadDate, w.runTime, w.flushed)
	if err := w.store.Put(ctx, key, payload, ContentType); err != nil {
		return fmt.Errorf("flush raw batch: %w", err)
	}

	blobsWrittenTotal.Inc()
	recordsWrittenTotal.Add(float64(len(w.batch)))
	w.logger.Info().
		Str("key", key).
		Int("records", len(w.batch)).
		Int("bytes", len(payload)).
		Msg("Flushed raw blob")

	w.flushed++
	w.batch = w.batch[:0]
	return nil
}

// encodeNDJSON renders records one compact JSON value per line.
func encodeNDJSON(records []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	for _, rec := range records {
		if err := json.Compact(&buf, rec); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
