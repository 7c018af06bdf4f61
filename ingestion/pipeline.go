package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"

	"github.com/competiq/competiq-go/ai"
	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/storage"
)

// Window profiles by document size. Documents at or below
// FastPathThreshold runes are stored as a single chunk; documents above
// LargeDocThreshold switch to the tighter large-document window so a
// single oversized upload cannot flood the store with huge chunks.
const (
	FastPathThreshold = 5000
	LargeDocThreshold = 100000

	LargeChunkSize    = 500
	LargeChunkOverlap = 100

	// DefaultWorkers is the embedding fan-out width.
	DefaultWorkers = 5

	// maxStoreBatch caps chunks per store write regardless of fan-out.
	maxStoreBatch = 50
)

// Status classifies the outcome of an ingestion run.
type Status string

const (
	// StatusCompleted means every chunk was embedded and stored.
	StatusCompleted Status = "completed"
	// StatusPartial means some batches failed; the stored subset is
	// still searchable.
	StatusPartial Status = "partial"
	// StatusFailed means no chunk made it into the store.
	StatusFailed Status = "failed"
)

// Result reports how much of a document made it into the store.
type Result struct {
	Status          Status
	TotalChunks     int
	ProcessedChunks int
}

// Pipeline turns raw documents into searchable records: extract text,
// normalize, chunk, embed, store. Chunks are embedded and written in
// parallel batches; a batch failure costs only that batch's chunks.
type Pipeline struct {
	store     storage.DocumentStore
	embedder  ai.Embedder
	extractor TextExtractor

	splitter      *Splitter
	largeSplitter *Splitter

	pool    *ants.Pool
	workers int
	logger  *slog.Logger

	chunkSize int
	overlap   int
	boundary  bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithWorkers sets the number of batches embedded concurrently.
func WithWorkers(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, size)
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("create worker pool: %w", err)
		}

		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		p.workers = size

		return nil
	}
}

// WithExtractor replaces the text extractor. Passing nil restores the
// plain-text default.
func WithExtractor(extractor TextExtractor) Option {
	return func(p *Pipeline) error {
		if extractor == nil {
			extractor = PlainTextExtractor{}
		}
		p.extractor = extractor
		return nil
	}
}

// WithChunkWindow overrides the default window profile. The large-document
// profile is fixed.
func WithChunkWindow(chunkSize, overlap int) Option {
	return func(p *Pipeline) error {
		if err := core.ValidateChunkConfig(chunkSize, overlap); err != nil {
			return err
		}
		p.chunkSize = chunkSize
		p.overlap = overlap
		return nil
	}
}

// WithBoundaryChunking cuts chunks at paragraph and sentence boundaries
// instead of fixed rune offsets.
func WithBoundaryChunking() Option {
	return func(p *Pipeline) error {
		p.boundary = true
		return nil
	}
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates an ingestion pipeline writing to store with
// embeddings from embedder. Call Release when done to shut down the
// worker pool.
func NewPipeline(store storage.DocumentStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	pool, err := ants.NewPool(DefaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	p := &Pipeline{
		store:     store,
		embedder:  embedder,
		extractor: PlainTextExtractor{},
		pool:      pool,
		workers:   DefaultWorkers,
		logger:    slog.Default().With("component", "ingestion"),
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	if err := p.buildSplitters(); err != nil {
		p.Release()
		return nil, err
	}

	return p, nil
}

// buildSplitters runs after options so profile and boundary overrides
// are visible.
func (p *Pipeline) buildSplitters() error {
	defaultOpts := []SplitterOption{
		WithChunkProfile(p.chunkSize, p.overlap),
		WithSplitterLogger(p.logger),
	}
	largeOpts := []SplitterOption{
		WithChunkProfile(LargeChunkSize, LargeChunkOverlap),
		WithSplitterLogger(p.logger),
	}
	if p.boundary {
		defaultOpts = append(defaultOpts, WithBoundarySplitting())
		largeOpts = append(largeOpts, WithBoundarySplitting())
	}

	var err error
	if p.splitter, err = NewSplitter(defaultOpts...); err != nil {
		return err
	}
	if p.largeSplitter, err = NewSplitter(largeOpts...); err != nil {
		return err
	}

	return nil
}

// Ingest extracts text from a raw document and runs it through the
// pipeline. The filename becomes the source attribution on every stored
// chunk.
func (p *Pipeline) Ingest(ctx context.Context, raw []byte, filename, contentType string, docType core.DocType) (*Result, error) {
	text, err := p.extractor.Extract(raw, filename, contentType)
	if err != nil {
		return nil, err
	}
	return p.IngestText(ctx, text, filename, docType)
}

// IngestText runs already-extracted text through the pipeline: normalize,
// chunk by size profile, then embed and store in parallel batches.
//
// The returned Result always carries chunk counts. A partial run (some
// batches failed, some stored) returns a nil error; only a run that
// stored nothing returns one, joined from the per-batch failures.
func (p *Pipeline) IngestText(ctx context.Context, text, source string, docType core.DocType) (*Result, error) {
	normalized := core.NormalizeText(text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyDocument, source)
	}
	if !docType.Valid() {
		docType = core.DocTypeUnknown
	}

	chunks, err := p.chunk(normalized, source, docType)
	if err != nil {
		return nil, err
	}

	total := len(chunks)
	batches := partition(chunks, batchSize(total, p.workers))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
		failures  []error
	)

	for i := 0; i < len(batches); i++ {
		index := i
		batch := batches[i]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			n, err := p.storeBatch(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			processed += n
			if err != nil {
				failures = append(failures, fmt.Errorf("batch %d: %w", index, err))
			}
		}

		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, fmt.Errorf("batch %d: %w", index, err))
			mu.Unlock()
		}
	}

	wg.Wait()

	result := &Result{TotalChunks: total, ProcessedChunks: processed}
	switch {
	case processed == total:
		result.Status = StatusCompleted
	case processed > 0:
		result.Status = StatusPartial
		p.logger.Warn("document partially ingested",
			"source", source,
			"processed", processed,
			"total", total,
			"err", errors.Join(failures...))
	default:
		result.Status = StatusFailed
		return result, fmt.Errorf("ingest %s: %w", source, errors.Join(failures...))
	}

	p.logger.Info("document ingested",
		"source", source,
		"doc_type", string(docType),
		"chunks", processed,
		"status", string(result.Status))

	return result, nil
}

// chunk picks the window profile from the document's rune count.
func (p *Pipeline) chunk(text, source string, docType core.DocType) ([]core.Chunk, error) {
	runeCount := utf8.RuneCountInString(text)
	switch {
	case runeCount <= FastPathThreshold:
		return []core.Chunk{{
			Text:           text,
			SourceDocument: source,
			DocType:        docType,
		}}, nil
	case runeCount > LargeDocThreshold:
		return p.largeSplitter.Split(text, source, docType)
	default:
		return p.splitter.Split(text, source, docType)
	}
}

// storeBatch embeds a batch of chunks and writes them to the store.
// It returns the number of chunks persisted, which is all of them or
// none: the store write is transactional and an embedding failure
// discards the batch before any write happens.
func (p *Pipeline) storeBatch(ctx context.Context, batch []core.Chunk) (int, error) {
	texts := make([]string, len(batch))
	metas := make([]core.Metadata, len(batch))
	for i := 0; i < len(batch); i++ {
		texts[i] = batch[i].Text
		metas[i] = core.Metadata{
			Source:  batch[i].SourceDocument,
			DocType: batch[i].DocType,
		}
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}

	if _, err := p.store.AddBatch(ctx, texts, vectors, metas); err != nil {
		return 0, fmt.Errorf("store: %w", err)
	}

	return len(batch), nil
}

// Release shuts down the worker pool. In-flight batches finish; new
// Ingest calls fail.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// batchSize spreads total chunks evenly over the worker budget, clamped
// so one store write never exceeds maxStoreBatch chunks.
func batchSize(total, workers int) int {
	if total <= 0 {
		return 1
	}

	size := (total + workers - 1) / workers
	if size < 1 {
		size = 1
	}
	if size > maxStoreBatch {
		size = maxStoreBatch
	}

	return size
}

// partition slices chunks into consecutive batches of at most size.
func partition(chunks []core.Chunk, size int) [][]core.Chunk {
	batches := make([][]core.Chunk, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		end := start + size
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, chunks[start:end])
	}

	return batches
}
