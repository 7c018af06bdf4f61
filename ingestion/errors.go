package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a pipeline is constructed
	// without a document store.
	ErrStoreRequired = errors.New("document store required")

	// ErrEmbedderRequired is returned when a pipeline is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnsupportedFormat is returned when a document's extension or
	// content type has no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidWorkerCount is returned when the pipeline is configured
	// with a non-positive worker budget.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")
)
