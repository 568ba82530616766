// Package rawstore reads and writes the raw landing zone: immutable
// newline-delimited JSON blobs partitioned by load date.
package rawstore

import (
	"fmt"
	"time"
)

// Extension is the file extension of raw blobs.
const Extension = ".jsonl"

// ContentType is the content type raw blobs are uploaded with.
const ContentType = "application/jsonl"

// PartitionPrefix returns the key prefix holding all raw blobs for a load
// date, e.g. "raw/manga/load_date=2024-05-17/".
func PartitionPrefix(loadDate time.Time) string {
	return fmt.Sprintf("raw/manga/load_date=%s/", loadDate.Format("2006-01-02"))
}

// ObjectKey returns the blob key for one flush of a run. The first flush
// (index 0) uses the unsuffixed key; later flushes insert a 1-based index
// before the extension so one run can span multiple files:
//
//	raw/manga/load_date=2024-05-17/manga_20240517_093011.jsonl
//	raw/manga/load_date=2024-05-17/manga_20240517_093011_1.jsonl
func ObjectKey(loadDate, runTime time.Time, index int) string {
	base := fmt.Sprintf("%smanga_%s", PartitionPrefix(loadDate), runTime.UTC().Format("20060102_150405"))
	if index == 0 {
		return base + Extension
	}
	return fmt.Sprintf("%s_%d%s", base, index, Extension)
}
