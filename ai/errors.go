package ai

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrExecutorRequired is returned when a rate-limit executor is not provided.
	ErrExecutorRequired = errors.New("executor required")

	// ErrTokenCounterRequired is returned when a token counter is not provided.
	ErrTokenCounterRequired = errors.New("token counter required")

	// ErrEmbeddingCountMismatch is returned when the provider answers a batch
	// with a different number of embeddings than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrInvalidBatchLimits is returned when batch ceilings are non-positive.
	ErrInvalidBatchLimits = errors.New("invalid batch limits")

	// ErrEmptyCompletion is returned when the model answers a completion
	// request with no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)
