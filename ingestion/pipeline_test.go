package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competiq/competiq-go/ai/mock"
	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/storage/badger"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *badger.DocumentStore, *mock.MockEmbedder) {
	t.Helper()

	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
		_ = backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	pipeline, err := NewPipeline(store, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, store, embedder
}

func TestNewPipelineValidation(t *testing.T) {
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	defer store.Close()

	embedder := mock.NewMockEmbedder()

	t.Run("RequiresStore", func(t *testing.T) {
		_, err := NewPipeline(nil, embedder)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("RequiresEmbedder", func(t *testing.T) {
		_, err := NewPipeline(store, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("RejectsZeroWorkers", func(t *testing.T) {
		_, err := NewPipeline(store, embedder, WithWorkers(0))
		assert.ErrorIs(t, err, ErrInvalidWorkerCount)
	})

	t.Run("RejectsBadWindow", func(t *testing.T) {
		_, err := NewPipeline(store, embedder, WithChunkWindow(100, 200))
		assert.ErrorIs(t, err, core.ErrInvalidChunkConfig)
	})
}

func TestIngestTextSmallDocument(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	ctx := context.Background()

	text := "Acme Corp dominates the mid-market CRM segment with aggressive pricing."
	result, err := pipeline.IngestText(ctx, text, "acme.txt", core.DocTypeCompetitor)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 1, result.TotalChunks)
	assert.Equal(t, 1, result.ProcessedChunks)
	assert.Equal(t, 1, store.Len())

	query := mock.DeterministicVector(text, mock.DefaultVectorDim)
	hits, err := store.Search(ctx, query, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, text, hits[0].Text)
	assert.Equal(t, "acme.txt", hits[0].Metadata.Source)
	assert.Equal(t, core.DocTypeCompetitor, hits[0].Metadata.DocType)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
}

func TestIngestTextWindowsLargeDocument(t *testing.T) {
	pipeline, store, embedder := newTestPipeline(t)
	embedder.Dim = 8

	// 12000 runes: above the fast path, below the large-document
	// threshold, so the default 1000/200 window yields 15 chunks.
	text := strings.Repeat("abcdefgh", 1500)
	result, err := pipeline.IngestText(context.Background(), text, "big.txt", core.DocTypeBusiness)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 15, result.TotalChunks)
	assert.Equal(t, 15, result.ProcessedChunks)
	assert.Equal(t, 15, store.Len())

	// Five workers over 15 chunks gives batches of 3.
	assert.Equal(t, 5, embedder.CallCount())
}

func TestIngestTextSingleWorkerBatchesOnce(t *testing.T) {
	pipeline, store, embedder := newTestPipeline(t, WithWorkers(1))
	embedder.Dim = 8

	text := strings.Repeat("abcdefgh", 1500)
	result, err := pipeline.IngestText(context.Background(), text, "big.txt", core.DocTypeBusiness)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 15, store.Len())
	assert.Equal(t, 1, embedder.CallCount())
}

func TestIngestTextLargeDocumentProfile(t *testing.T) {
	pipeline, store, embedder := newTestPipeline(t)
	embedder.Dim = 8

	// 120000 runes crosses LargeDocThreshold: the 500/100 window
	// yields 300 chunks, stored in 6 batches of the 50-chunk maximum.
	text := strings.Repeat("abcdefgh", 15000)
	result, err := pipeline.IngestText(context.Background(), text, "dump.txt", core.DocTypeUnknown)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 300, result.TotalChunks)
	assert.Equal(t, 300, result.ProcessedChunks)
	assert.Equal(t, 300, store.Len())
	assert.Equal(t, 6, embedder.CallCount())
}

func TestIngestTextEmptyDocument(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	for _, text := range []string{"", "   \n\t  "} {
		result, err := pipeline.IngestText(context.Background(), text, "blank.txt", core.DocTypeCompetitor)
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
		assert.Nil(t, result)
	}
}

func TestIngestTextNormalizesUnknownDocType(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	ctx := context.Background()

	text := "Quarterly revenue grew eleven percent."
	_, err := pipeline.IngestText(ctx, text, "internal.txt", core.DocType("wiki-export"))
	require.NoError(t, err)

	hits, err := store.Search(ctx, mock.DeterministicVector(text, mock.DefaultVectorDim), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, core.DocTypeUnknown, hits[0].Metadata.DocType)
}

func TestIngestTextPartialFailure(t *testing.T) {
	pipeline, store, embedder := newTestPipeline(t, WithWorkers(2))

	// 15 chunks over 2 workers split into batches of 8 and 7. Failing
	// the 7-chunk batch is deterministic regardless of scheduling.
	boom := errors.New("embedding backend down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if len(texts) == 7 {
			return nil, boom
		}
		vectors := make([][]float32, len(texts))
		for i := 0; i < len(texts); i++ {
			vectors[i] = mock.DeterministicVector(texts[i], 8)
		}
		return vectors, nil
	}

	text := strings.Repeat("abcdefgh", 1500)
	result, err := pipeline.IngestText(context.Background(), text, "flaky.txt", core.DocTypeCompetitor)
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, result.Status)
	assert.Equal(t, 15, result.TotalChunks)
	assert.Equal(t, 8, result.ProcessedChunks)
	assert.Equal(t, 8, store.Len())
}

func TestIngestTextAllBatchesFail(t *testing.T) {
	pipeline, store, embedder := newTestPipeline(t, WithWorkers(2))

	boom := errors.New("embedding backend down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}

	text := strings.Repeat("abcdefgh", 1500)
	result, err := pipeline.IngestText(context.Background(), text, "down.txt", core.DocTypeCompetitor)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	require.NotNil(t, result)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 15, result.TotalChunks)
	assert.Equal(t, 0, result.ProcessedChunks)
	assert.Equal(t, 0, store.Len())
}

func TestIngestExtractsPlainText(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)

	raw := []byte("Globex undercuts on price in every enterprise deal.")
	result, err := pipeline.Ingest(context.Background(), raw, "globex.txt", "", core.DocTypeCompetitor)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 1, store.Len())
}

func TestIngestRejectsUnsupportedFormat(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)

	result, err := pipeline.Ingest(context.Background(), []byte("%PDF-1.7"), "report.pdf", "", core.DocTypeCompetitor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, result)
	assert.Equal(t, 0, store.Len())
}

func TestIngestAfterRelease(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	pipeline.Release()

	result, err := pipeline.IngestText(context.Background(), "Acme expands into Europe.", "late.txt", core.DocTypeCompetitor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ants.ErrPoolClosed)

	require.NotNil(t, result)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 0, store.Len())
}

func TestIngestTextSourceAttribution(t *testing.T) {
	pipeline, store, _ := newTestPipeline(t)
	ctx := context.Background()

	competitor := "Acme Corp dominates the CRM market."
	business := "Our platform serves analytics teams at regional banks."

	_, err := pipeline.IngestText(ctx, competitor, "acme.txt", core.DocTypeCompetitor)
	require.NoError(t, err)
	_, err = pipeline.IngestText(ctx, business, "profile.txt", core.DocTypeBusiness)
	require.NoError(t, err)

	hits, err := store.Search(ctx, mock.DeterministicVector(competitor, mock.DefaultVectorDim), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "acme.txt", hits[0].Metadata.Source)
	assert.Equal(t, core.DocTypeCompetitor, hits[0].Metadata.DocType)
}
