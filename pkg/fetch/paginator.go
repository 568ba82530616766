package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/logging"
)

// pageFetcher is the single-page contract the Paginator drives. Satisfied
// by *Fetcher; narrowed to an interface so tests can script failures.
type pageFetcher interface {
	FetchPage(ctx context.Context, baseURL string, limit, offset int, tolerateBadRequest bool) ([]json.RawMessage, error)
}

// Paginator fetches pages from a primary endpoint with failover to a
// public fallback endpoint.
//
// The two endpoints carry different end-of-data semantics: the primary is
// expected to return an empty page past the last record, while the
// fallback may answer with HTTP 400 once the offset exceeds the total
// count. The paginator converts the latter into an empty page so callers
// see a uniform "no more records" signal.
type Paginator struct {
	fetcher  pageFetcher
	primary  string
	fallback string
	logger   zerolog.Logger
}

// NewPaginator creates a Paginator. Either endpoint may be empty, but not
// both; an all-empty configuration surfaces as ErrNoEndpoints on the first
// fetch.
func NewPaginator(fetcher *Fetcher, primary, fallback string) *Paginator {
	return &Paginator{
		fetcher:  fetcher,
		primary:  primary,
		fallback: fallback,
		logger:   logging.NewLogger("paginator"),
	}
}

// FetchPage fetches one page, trying the primary endpoint first and the
// fallback second. A nil error with an empty result means end of data.
func (p *Paginator) FetchPage(ctx context.Context, limit, offset int) ([]json.RawMessage, error) {
	if p.primary == "" && p.fallback == "" {
		return nil, ErrNoEndpoints
	}

	var lastErr error

	if p.primary != "" {
		records, err := p.fetcher.FetchPage(ctx, p.primary, limit, offset, false)
		if err == nil {
			return records, nil
		}
		p.logger.Warn().
			Err(err).
			Str("endpoint", p.primary).
			Int("offset", offset).
			Msg("Primary endpoint failed, will try fallback if configured")
		lastErr = err
	}

	if p.fallback != "" {
		fallbackUsedTotal.Inc()
		records, err := p.fetcher.FetchPage(ctx, p.fallback, limit, offset, true)
		if err == nil {
			return records, nil
		}
		// The tolerant fetch already converts 400 into an empty page, but a
		// 400 can still surface here wrapped in a retry error. Treat it as
		// end of data either way rather than aborting a healthy run.
		if IsStatus(err, http.StatusBadRequest) {
			endOfDataTotal.Inc()
			return nil, nil
		}
		p.logger.Error().
			Err(err).
			Str("endpoint", p.fallback).
			Int("offset", offset).
			Msg("Fallback endpoint failed")
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, lastErr)
}
