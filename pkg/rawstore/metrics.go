package rawstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the raw landing zone.
var (
	blobsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_raw_blobs_written_total",
		Help: "Raw JSONL blobs flushed to the store",
	})

	recordsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "manga_etl_raw_records_written_total",
		Help: "Records written into raw blobs",
	})

	rawLinesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "manga_etl_raw_lines_total",
		Help: "Raw lines processed during read-back by result",
	}, []string{"result"})
)
