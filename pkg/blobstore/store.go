// Package blobstore provides key-addressed object storage used as the
// durable landing zone for raw and processed pipeline data.
package blobstore

import "context"

// Store is the blob store contract consumed by the pipeline.
//
// List must internally page through any truncated listing and return the
// complete key set for the prefix.
type Store interface {
	// Put uploads body under key with the given content type.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Get returns the full content stored under key. Missing keys are an
	// error.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys under prefix in listing order.
	List(ctx context.Context, prefix string) ([]string, error)
}
