package ai

import "sync"

// Usage is an immutable snapshot of accumulated provider traffic.
// Token figures are tokenizer estimates, not provider-billed counts.
type Usage struct {
	EmbeddingCalls   int64
	EmbeddingTokens  int64
	CompletionCalls  int64
	PromptTokens     int64
	CompletionTokens int64
}

// TotalTokens sums every token counter in the snapshot.
func (u Usage) TotalTokens() int64 {
	return u.EmbeddingTokens + u.PromptTokens + u.CompletionTokens
}

// UsageTracker accumulates process-wide usage counters for embedding and
// completion calls. Counters are monotonically increasing and never reset
// while the process lives.
//
// The tracker is owned by a Provider instance and shared by handle with the
// services that record into it. It is safe for concurrent use.
type UsageTracker struct {
	mu    sync.Mutex
	usage Usage
}

// NewUsageTracker creates a tracker with zeroed counters.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// RecordEmbedding adds one embedding call covering the given token estimate.
func (t *UsageTracker) RecordEmbedding(tokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.usage.EmbeddingCalls++
	t.usage.EmbeddingTokens += int64(tokens)
}

// RecordCompletion adds one completion call with its prompt and completion
// token estimates.
func (t *UsageTracker) RecordCompletion(promptTokens, completionTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.usage.CompletionCalls++
	t.usage.PromptTokens += int64(promptTokens)
	t.usage.CompletionTokens += int64(completionTokens)
}

// Snapshot returns the current counter values.
func (t *UsageTracker) Snapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.usage
}
