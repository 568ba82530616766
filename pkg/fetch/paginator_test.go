package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// scriptedFetcher returns canned results per endpoint and records the
// tolerate flag it was called with.
type scriptedFetcher struct {
	results  map[string]scriptedResult
	calls    []scriptedCall
}

type scriptedResult struct {
	records []json.RawMessage
	err     error
}

type scriptedCall struct {
	baseURL  string
	tolerate bool
}

func (s *scriptedFetcher) FetchPage(_ context.Context, baseURL string, _, _ int, tolerate bool) ([]json.RawMessage, error) {
	s.calls = append(s.calls, scriptedCall{baseURL: baseURL, tolerate: tolerate})
	res := s.results[baseURL]
	return res.records, res.err
}

func newScriptedPaginator(fetcher *scriptedFetcher, primary, fallback string) *Paginator {
	return &Paginator{
		fetcher:  fetcher,
		primary:  primary,
		fallback: fallback,
		logger:   zerolog.Nop(),
	}
}

func page(ids ...string) []json.RawMessage {
	var records []json.RawMessage
	for _, id := range ids {
		records = append(records, json.RawMessage(`{"id": "`+id+`"}`))
	}
	return records
}

func TestPaginator_PrimarySuccess(t *testing.T) {
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"primary": {records: page("a", "b")},
	}}
	p := newScriptedPaginator(fetcher, "primary", "fallback")

	records, err := p.FetchPage(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("got %d calls, want 1 (fallback must not be tried)", len(fetcher.calls))
	}
	if fetcher.calls[0].tolerate {
		t.Error("primary endpoint must be fetched with tolerateBadRequest=false")
	}
}

func TestPaginator_FallbackAfterPrimaryFailure(t *testing.T) {
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"primary":  {err: errors.New("connection refused")},
		"fallback": {records: page("a")},
	}}
	p := newScriptedPaginator(fetcher, "primary", "fallback")

	records, err := p.FetchPage(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
	if len(fetcher.calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(fetcher.calls))
	}
	if !fetcher.calls[1].tolerate {
		t.Error("fallback endpoint must be fetched with tolerateBadRequest=true")
	}
}

func TestPaginator_Fallback400IsEndOfData(t *testing.T) {
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"primary":  {err: errors.New("dns failure")},
		"fallback": {err: &StatusError{Code: 400, Endpoint: "fallback"}},
	}}
	p := newScriptedPaginator(fetcher, "primary", "fallback")

	records, err := p.FetchPage(context.Background(), 10, 5000)
	if err != nil {
		t.Fatalf("a 400 from the fallback is end of data, got error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestPaginator_BothEndpointsFail(t *testing.T) {
	fallbackErr := &StatusError{Code: 500, Endpoint: "fallback"}
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"primary":  {err: errors.New("dns failure")},
		"fallback": {err: fallbackErr},
	}}
	p := newScriptedPaginator(fetcher, "primary", "fallback")

	_, err := p.FetchPage(context.Background(), 10, 0)
	if !errors.Is(err, ErrAllEndpointsFailed) {
		t.Fatalf("expected ErrAllEndpointsFailed, got %v", err)
	}
	if !IsStatus(err, 500) {
		t.Errorf("expected the last error to be preserved, got %v", err)
	}
}

func TestPaginator_PrimaryOnlyFailure(t *testing.T) {
	primaryErr := errors.New("connection refused")
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"primary": {err: primaryErr},
	}}
	p := newScriptedPaginator(fetcher, "primary", "")

	_, err := p.FetchPage(context.Background(), 10, 0)
	if !errors.Is(err, ErrAllEndpointsFailed) {
		t.Fatalf("expected ErrAllEndpointsFailed, got %v", err)
	}
	if !errors.Is(err, primaryErr) {
		t.Errorf("expected the primary failure to be preserved, got %v", err)
	}
}

func TestPaginator_FallbackOnly(t *testing.T) {
	fetcher := &scriptedFetcher{results: map[string]scriptedResult{
		"fallback": {records: page("a")},
	}}
	p := newScriptedPaginator(fetcher, "", "fallback")

	records, err := p.FetchPage(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0].baseURL != "fallback" {
		t.Errorf("unexpected calls: %+v", fetcher.calls)
	}
}

func TestPaginator_NoEndpoints(t *testing.T) {
	p := newScriptedPaginator(&scriptedFetcher{}, "", "")

	_, err := p.FetchPage(context.Background(), 10, 0)
	if !errors.Is(err, ErrNoEndpoints) {
		t.Fatalf("expected ErrNoEndpoints, got %v", err)
	}
}
