package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/competiq/competiq-go/ratelimit"
)

// Sub-batch packing ceilings. A sub-batch never exceeds either bound;
// a single text over the token budget travels as its own sub-batch.
const (
	MaxBatchItems  = 100
	MaxBatchTokens = 8000
)

// Batcher groups texts into token-bounded sub-batches and drives each one
// through the rate-limited executor as a single provider call. Batcher
// itself implements Embedder, so it can stand in anywhere a raw embedder
// is expected.
//
// The output always has the same length and order as the input. Empty-string
// entries map to empty vectors without touching the provider. When a
// sub-batch fails after retries are exhausted, its slots stay empty and the
// joined error is returned once every sub-batch has been driven; callers
// must treat a returned error as "some vectors in this result are empty".
type Batcher struct {
	embedder  Embedder
	executor  *ratelimit.Executor
	counter   *TokenCounter
	maxItems  int
	maxTokens int
	logger    *slog.Logger
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher) error

// WithBatchLimits overrides the packing ceilings.
func WithBatchLimits(maxItems, maxTokens int) BatcherOption {
	return func(b *Batcher) error {
		if maxItems <= 0 || maxTokens <= 0 {
			return fmt.Errorf("%w: items %d, tokens %d", ErrInvalidBatchLimits, maxItems, maxTokens)
		}
		b.maxItems = maxItems
		b.maxTokens = maxTokens
		return nil
	}
}

// WithBatcherLogger sets a custom logger.
// Default is slog.Default().
func WithBatcherLogger(logger *slog.Logger) BatcherOption {
	return func(b *Batcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatcher creates a batching embedder over the given provider embedder.
func NewBatcher(embedder Embedder, executor *ratelimit.Executor, counter *TokenCounter, opts ...BatcherOption) (*Batcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}
	if counter == nil {
		return nil, ErrTokenCounterRequired
	}

	b := &Batcher{
		embedder:  embedder,
		executor:  executor,
		counter:   counter,
		maxItems:  MaxBatchItems,
		maxTokens: MaxBatchTokens,
		logger:    slog.Default().With("component", "ai.batcher"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// subBatch is one provider call's worth of texts, with the original
// positions its results are written back to.
type subBatch struct {
	indices []int
	texts   []string
	tokens  int
}

// EmbedTexts embeds texts in token-bounded sub-batches, preserving input
// order. len(result) == len(texts) even when sub-batches fail.
func (b *Batcher) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))

	var batches []subBatch
	var current subBatch
	flush := func() {
		if len(current.texts) > 0 {
			batches = append(batches, current)
			current = subBatch{}
		}
	}

	for i, text := range texts {
		if text == "" {
			continue // empty input keeps its empty-vector slot, no API call
		}
		tokens := b.counter.Count(text)
		if len(current.texts) >= b.maxItems ||
			(len(current.texts) > 0 && current.tokens+tokens > b.maxTokens) {
			flush()
		}
		current.indices = append(current.indices, i)
		current.texts = append(current.texts, text)
		current.tokens += tokens
	}
	flush()

	var errs []error
	for n, batch := range batches {
		var embeddings [][]float32
		err := b.executor.Execute(ctx, func(ctx context.Context) error {
			var embedErr error
			embeddings, embedErr = b.embedder.EmbedTexts(ctx, batch.texts)
			return embedErr
		})
		if err != nil {
			b.logger.Error("sub-batch embedding failed, slots stay empty",
				"subBatch", n, "texts", len(batch.texts), "estimatedTokens", batch.tokens, "err", err)
			errs = append(errs, fmt.Errorf("sub-batch %d (%d texts): %w", n, len(batch.texts), err))
			continue
		}
		if len(embeddings) != len(batch.texts) {
			b.logger.Error("provider returned wrong embedding count",
				"subBatch", n, "want", len(batch.texts), "got", len(embeddings))
			errs = append(errs, fmt.Errorf("sub-batch %d: %w: got %d for %d texts",
				n, ErrEmbeddingCountMismatch, len(embeddings), len(batch.texts)))
			continue
		}
		for j, idx := range batch.indices {
			vectors[idx] = embeddings[j]
		}
	}

	return vectors, errors.Join(errs...)
}

// EmbedText embeds a single text through the executor. Empty text maps to
// an empty vector without a provider call.
func (b *Batcher) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	var vector []float32
	err := b.executor.Execute(ctx, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = b.embedder.EmbedText(ctx, text)
		return embedErr
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}
