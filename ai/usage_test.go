package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageTrackerRecording(t *testing.T) {
	tracker := NewUsageTracker()

	tracker.RecordEmbedding(120)
	tracker.RecordEmbedding(30)
	tracker.RecordCompletion(900, 400)

	usage := tracker.Snapshot()
	assert.Equal(t, int64(2), usage.EmbeddingCalls)
	assert.Equal(t, int64(150), usage.EmbeddingTokens)
	assert.Equal(t, int64(1), usage.CompletionCalls)
	assert.Equal(t, int64(900), usage.PromptTokens)
	assert.Equal(t, int64(400), usage.CompletionTokens)
	assert.Equal(t, int64(1450), usage.TotalTokens())
}

func TestUsageTrackerSnapshotIsCopy(t *testing.T) {
	tracker := NewUsageTracker()
	tracker.RecordEmbedding(10)

	before := tracker.Snapshot()
	tracker.RecordEmbedding(10)
	after := tracker.Snapshot()

	assert.Equal(t, int64(10), before.EmbeddingTokens)
	assert.Equal(t, int64(20), after.EmbeddingTokens)
}

func TestUsageTrackerConcurrent(t *testing.T) {
	tracker := NewUsageTracker()

	const workers = 8
	const perWorker = 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				tracker.RecordEmbedding(3)
				tracker.RecordCompletion(5, 2)
			}
		}()
	}
	wg.Wait()

	usage := tracker.Snapshot()
	assert.Equal(t, int64(workers*perWorker), usage.EmbeddingCalls)
	assert.Equal(t, int64(workers*perWorker*3), usage.EmbeddingTokens)
	assert.Equal(t, int64(workers*perWorker), usage.CompletionCalls)
	assert.Equal(t, int64(workers*perWorker*5), usage.PromptTokens)
	assert.Equal(t, int64(workers*perWorker*2), usage.CompletionTokens)
}
