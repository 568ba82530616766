package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockMangaAPI is a configurable limit/offset-paginated manga list server
// for tests.
type MockMangaAPI struct {
	server  *httptest.Server
	mu      sync.Mutex
	records []json.RawMessage

	// Envelope controls the response shape: records are wrapped in a
	// {"data": [...]} object when true, returned as a bare array otherwise.
	Envelope bool

	// BadRequestPastEnd makes the server answer 400 once the offset
	// reaches the total record count, like public mirror APIs do.
	BadRequestPastEnd bool

	// FailuresRemaining injects that many 503 responses before serving
	// normally again.
	FailuresRemaining int

	// Tracking
	RequestCount int
}

// NewMockMangaAPI creates a mock server holding total generated records of
// the form {"id": "manga-<n>", "title": "Title <n>"}.
func NewMockMangaAPI(total int) *MockMangaAPI {
	mock := &MockMangaAPI{}
	for i := 0; i < total; i++ {
		mock.records = append(mock.records, json.RawMessage(fmt.Sprintf(
			`{"id": "manga-%d", "title": "Title %d"}`, i, i)))
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockMangaAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMangaAPI) Close() {
	m.server.Close()
}

func (m *MockMangaAPI) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount++

	if m.FailuresRemaining > 0 {
		m.FailuresRemaining--
		http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		http.Error(w, "bad limit", http.StatusBadRequest)
		return
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		http.Error(w, "bad offset", http.StatusBadRequest)
		return
	}

	if m.BadRequestPastEnd && offset >= len(m.records) && len(m.records) > 0 {
		http.Error(w, "offset exceeds total", http.StatusBadRequest)
		return
	}

	end := offset + limit
	if offset > len(m.records) {
		offset = len(m.records)
	}
	if end > len(m.records) {
		end = len(m.records)
	}
	page := m.records[offset:end]

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	if m.Envelope {
		enc.Encode(map[string]any{"data": page, "total": len(m.records)})
		return
	}
	enc.Encode(page)
}
