// Package fetch implements the fault-tolerant paginated fetch against the
// manga list API: single-page requests with retry and backoff, response
// shape normalization, and primary/fallback endpoint failover.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/logging"
)

const userAgent = "manga-etl/1.0"

// Fetcher issues single-page GET requests with limit/offset parameters and
// retries transient failures with exponential backoff.
type Fetcher struct {
	httpClient *http.Client
	retry      RetryConfig
	logger     zerolog.Logger
}

// NewFetcher creates a Fetcher with the given per-request timeout and retry
// configuration.
func NewFetcher(timeout time.Duration, retry RetryConfig) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		logger:     logging.NewLogger("fetcher"),
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// FetchPage fetches one page of records from baseURL with the given limit
// and offset.
//
// Transient failures (connection errors, 429 and 5xx statuses) are retried
// with exponential backoff. When tolerateBadRequest is true, an HTTP 400
// response is treated as end of data and yields an empty page: public
// mirror APIs signal "offset beyond total count" that way. Any other error
// status, and any undecodable body, is a fetch failure.
func (f *Fetcher) FetchPage(ctx context.Context, baseURL string, limit, offset int, tolerateBadRequest bool) ([]json.RawMessage, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	var records []json.RawMessage
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return &DecodeError{Err: err} // malformed URL, not retryable
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		start := time.Now()
		resp, err := f.httpClient.Do(req)
		requestDuration.WithLabelValues(u.Host).Observe(time.Since(start).Seconds())
		if err != nil {
			requestsTotal.WithLabelValues(u.Host, "network_error").Inc()
			return err
		}
		defer resp.Body.Close()
		requestsTotal.WithLabelValues(u.Host, strconv.Itoa(resp.StatusCode)).Inc()

		if tolerateBadRequest && resp.StatusCode == http.StatusBadRequest {
			io.Copy(io.Discard, resp.Body)
			endOfDataTotal.Inc()
			f.logger.Debug().
				Str("endpoint", baseURL).
				Int("offset", offset).
				Msg("Got 400 on tolerant endpoint, treating as end of data")
			records = nil
			return nil
		}

		if resp.StatusCode >= 400 {
			io.Copy(io.Discard, resp.Body)
			return &StatusError{Code: resp.StatusCode, Endpoint: baseURL}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		recs, err := decodeRecords(body)
		if err != nil {
			return err
		}
		records = recs
		return nil
	}

	if err := retryWithBackoff(ctx, f.retry, f.logger, attempt, isTransient); err != nil {
		return nil, fmt.Errorf("fetch %s (limit=%d offset=%d): %w", baseURL, limit, offset, err)
	}

	f.logger.Debug().
		Str("endpoint", baseURL).
		Int("limit", limit).
		Int("offset", offset).
		Int("records", len(records)).
		Msg("Fetched page")
	return records, nil
}

// decodeRecords normalizes the three possible response shapes into one
// record sequence: an object with a "data" array, a bare array, or a single
// value wrapped as a one-element sequence.
func decodeRecords(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Err: fmt.Errorf("empty response body")}
	}

	switch trimmed[0] {
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, &DecodeError{Err: err}
		}
		data, ok := envelope["data"]
		if !ok {
			// Single object response
			return []json.RawMessage{json.RawMessage(trimmed)}, nil
		}
		var records []json.RawMessage
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("data field is not an array: %w", err)}
		}
		return records, nil
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return records, nil
	default:
		var value json.RawMessage
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil, &DecodeError{Err: err}
		}
		return []json.RawMessage{value}, nil
	}
}
