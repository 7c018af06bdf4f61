package retrieval

import "errors"

var (
	// ErrStoreRequired is returned when a retriever is constructed
	// without a document store.
	ErrStoreRequired = errors.New("document store required")

	// ErrEmbedderRequired is returned when a retriever is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidLimit is returned when the per-category result limit is
	// not positive.
	ErrInvalidLimit = errors.New("result limit must be positive")
)
