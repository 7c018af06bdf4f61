package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces completion text from a prompt. It backs report
// generation, where retrieved context and the analysis question are
// rendered into a single prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateCompletion returns the model's completion for the prompt.
	// Returns an error if the completion fails or comes back empty.
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration, resources, and usage accounting.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the completion service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Usage returns the provider's usage tracker. The tracker is shared by
	// the provider's services and accumulates for the process lifetime.
	Usage() *UsageTracker

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
