package storage

import (
	"context"

	"github.com/competiq/competiq-go/core"
)

// DocumentStore provides storage operations for embedded document chunks.
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// Add stores one chunk with its embedding and returns the assigned
	// public id ("doc_<n>"). Ids are sequential with no gaps: a failed
	// write does not consume a sequence number.
	Add(ctx context.Context, text string, vector []float32, meta core.Metadata) (string, error)

	// AddBatch stores texts[i]/vectors[i]/metas[i] triples in a single
	// transaction. Either every record is written and every id assigned,
	// or none are. Returns ErrBatchMismatch when slice lengths differ.
	AddBatch(ctx context.Context, texts []string, vectors [][]float32, metas []core.Metadata) ([]string, error)

	// Search returns up to limit records ranked by cosine similarity to
	// vector, highest first. Search degrades instead of failing: an empty
	// store, an empty query vector, limit <= 0, and internal scan failures
	// all yield an empty result with a nil error.
	Search(ctx context.Context, vector []float32, limit int) ([]core.SearchResult, error)

	// Len returns the number of stored records. By the no-gap invariant
	// this equals the next sequence number.
	Len() int

	// Clear removes every record and resets the id sequence, so the next
	// stored chunk becomes doc_0 again. No-op on an empty store.
	Clear(ctx context.Context) error

	// Close releases store resources. The store must not be used afterwards.
	Close() error
}
