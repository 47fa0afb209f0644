package store

import (
	"context"
	"errors"
)

// Result is one nearest-neighbor hit, nearest-first in a Query response.
// Similarity is backend-specific; larger always means closer.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float32
}

// ErrLengthMismatch is returned by Add when the parallel slices disagree.
var ErrLengthMismatch = errors.New("ids, embeddings, documents and metadatas must have equal length")

// Store persists (id, embedding, document, metadata) tuples and answers
// top-k similarity queries. Rebuild has full-replace semantics: the previous
// collection is dropped, never updated in place.
type Store interface {
	// Rebuild drops the collection if it exists (no error when absent) and
	// creates a fresh empty one.
	Rebuild(ctx context.Context) error

	// Add stores the given tuples. Ids must be unique within the collection.
	Add(ctx context.Context, ids []string, embeddings [][]float32, documents []string, metadatas []map[string]string) error

	// Query returns the k nearest stored entries, nearest-first. When the
	// collection holds fewer than k entries, all of them are returned.
	Query(ctx context.Context, embedding []float32, k int) ([]Result, error)
}
