// Package testutil provides testing utilities for the manga ETL pipeline.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemStore is an in-memory blobstore.Store for tests. Listings are returned
// in lexical key order, matching S3-style listing semantics.
type MemStore struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string

	// Tracking
	PutCount  int
	GetCount  int
	ListCount int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Put stores body under key.
func (s *MemStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PutCount++
	buf := make([]byte, len(body))
	copy(buf, body)
	s.objects[key] = buf
	s.contentTypes[key] = contentType
	return nil
}

// Get returns the content stored under key.
func (s *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.GetCount++
	body, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return body, nil
}

// List returns all keys under prefix in lexical order.
func (s *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.ListCount++
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ContentType returns the content type recorded for key, or "".
func (s *MemStore) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentTypes[key]
}

// Len returns the number of stored objects.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
