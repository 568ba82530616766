package rawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/blobstore"
	"github.com/mangafold/manga-etl/pkg/logging"
)

// Reader streams raw records back out of a date partition.
type Reader struct {
	store  blobstore.Store
	logger zerolog.Logger
}

// NewReader creates a Reader over the given store.
func NewReader(store blobstore.Store) *Reader {
	return &Reader{
		store:  store,
		logger: logging.NewLogger("raw-reader"),
	}
}

// Scan visits every raw record under the loadDate partition, in blob
// listing order and line order within each blob. Blank lines are skipped;
// a line that fails to parse is logged and skipped without aborting the
// blob or the scan. Errors from fn or from the store stop the scan.
//
// Scan holds no state between calls, so it can be re-invoked from scratch.
func (r *Reader) Scan(ctx context.Context, loadDate time.Time, fn func(record map[string]any) error) error {
	prefix := PartitionPrefix(loadDate)
	keys, err := r.store.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list raw partition %s: %w", prefix, err)
	}

	for _, key := range keys {
		if !strings.HasSuffix(key, Extension) {
			continue
		}
		data, err := r.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read raw blob %s: %w", key, err)
		}

		for i, line := range bytes.Split(data, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			var record map[string]any
			if err := json.Unmarshal(line, &record); err != nil {
				rawLinesTotal.WithLabelValues("skipped").Inc()
				r.logger.Warn().
					Err(err).
					Str("key", key).
					Int("line", i+1).
					Msg("Skipping malformed raw line")
				continue
			}
			rawLinesTotal.WithLabelValues("ok").Inc()
			if err := fn(record); err != nil {
				return err
			}
		}
	}
	return nil
}
