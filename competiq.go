// Copyright 2026 Competiq Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package competiq

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/competiq/competiq-go/ai"
	"github.com/competiq/competiq-go/ai/openai"
	"github.com/competiq/competiq-go/config"
	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/ingestion"
	"github.com/competiq/competiq-go/ratelimit"
	"github.com/competiq/competiq-go/report"
	"github.com/competiq/competiq-go/retrieval"
	"github.com/competiq/competiq-go/storage"
	"github.com/competiq/competiq-go/storage/badger"
)

// ErrConfigRequired is returned when NewService is called without a
// configuration.
var ErrConfigRequired = errors.New("configuration required")

// DefaultCallerID identifies requests when no caller identity is
// configured, such as single-user CLI sessions.
const DefaultCallerID = "local"

// Service is the assembled competitor-analysis system: document store,
// embedding provider, ingestion pipeline, retriever and reporter wired
// together behind one handle.
type Service struct {
	backend   *badger.Backend
	store     storage.DocumentStore
	provider  ai.Provider
	pipeline  *ingestion.Pipeline
	retriever *retrieval.Retriever
	reporter  *report.Reporter
	window    *ratelimit.Window
	callerID  string
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	provider ai.Provider
	logger   *slog.Logger
	callerID string
}

// WithProvider replaces the OpenAI-backed provider, for tests or
// alternative backends. The service takes ownership and closes it.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithCallerID sets the identity charged against the request limiter.
func WithCallerID(id string) ServiceOption {
	return func(o *serviceOptions) {
		if id != "" {
			o.callerID = id
		}
	}
}

// NewService assembles the system from configuration. The caller owns
// the returned service and must Close it.
func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	options := &serviceOptions{
		logger:   slog.Default(),
		callerID: DefaultCallerID,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	backend, err := badger.OpenBackend(cfg.DBPath, cfg.InMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewDocumentStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(cfg.EmbeddingHost),
			ai.WithCompletionHost(cfg.CompletionHost),
			ai.WithAPIKey(cfg.OpenAIAPIKey),
			ai.WithEmbeddingModel(cfg.EmbeddingModel),
			ai.WithCompletionModel(cfg.CompletionModel),
			ai.WithTemperature(cfg.Temperature),
			ai.WithMaxTokens(cfg.MaxTokens),
		)
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	policy := ratelimit.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if cfg.RequestTimeout > 0 {
		policy.Timeout = cfg.RequestTimeout
	}

	var execOpts []ratelimit.ExecutorOption
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Workers
		if burst < 1 {
			burst = 1
		}
		execOpts = append(execOpts,
			ratelimit.WithThrottle(float64(cfg.RequestsPerMinute)/60, burst))
	}

	executor, err := ratelimit.NewExecutor(policy, execOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	batcher, err := ai.NewBatcher(provider.Embedder(), executor, ai.NewTokenCounter(cfg.EmbeddingModel))
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	pipelineOpts := []ingestion.Option{ingestion.WithLogger(logger)}
	if cfg.Workers > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithWorkers(cfg.Workers))
	}

	pipeline, err := ingestion.NewPipeline(store, batcher, pipelineOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	retriever, err := retrieval.NewRetriever(store, batcher, retrieval.WithLogger(logger))
	if err != nil {
		pipeline.Release()
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	reporter, err := report.NewReporter(provider.Generator(),
		report.WithExecutor(executor),
		report.WithLogger(logger),
	)
	if err != nil {
		pipeline.Release()
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:   backend,
		store:     store,
		provider:  provider,
		pipeline:  pipeline,
		retriever: retriever,
		reporter:  reporter,
		window:    ratelimit.NewWindow(cfg.RequestsPerMinute, time.Minute),
		callerID:  options.callerID,
		logger:    logger,
	}, nil
}

// Ingest runs a raw document through extraction, chunking, embedding and
// storage. docType is the raw category string; unrecognized values are
// stored as unknown.
func (s *Service) Ingest(ctx context.Context, raw []byte, filename, contentType, docType string) (*ingestion.Result, error) {
	return s.pipeline.Ingest(ctx, raw, filename, contentType, core.ParseDocType(docType))
}

// IngestText ingests already-extracted text attributed to source.
func (s *Service) IngestText(ctx context.Context, text, source, docType string) (*ingestion.Result, error) {
	return s.pipeline.IngestText(ctx, text, source, core.ParseDocType(docType))
}

// Query returns the stored chunks most similar to the query.
func (s *Service) Query(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if err := s.window.Allow(s.callerID); err != nil {
		return nil, err
	}
	return s.retriever.Search(ctx, query, limit)
}

// RetrieveContext answers a query with category-partitioned context,
// using the retriever's default per-category limit.
func (s *Service) RetrieveContext(ctx context.Context, query string) (*retrieval.Context, error) {
	if err := s.window.Allow(s.callerID); err != nil {
		return nil, err
	}
	return s.retriever.Retrieve(ctx, query, 0)
}

// GenerateReport retrieves context for the query and generates a full
// competitor analysis from it.
func (s *Service) GenerateReport(ctx context.Context, query string) (string, error) {
	if err := s.window.Allow(s.callerID); err != nil {
		return "", err
	}

	retrieved, err := s.retriever.Retrieve(ctx, query, 0)
	if err != nil {
		return "", err
	}

	s.logger.Info("retrieved context for analysis",
		"competitor_hits", len(retrieved.Competitor),
		"business_hits", len(retrieved.Business))

	return s.reporter.Generate(ctx, query, retrieved)
}

// ClearKnowledge removes every stored document and resets id assignment.
func (s *Service) ClearKnowledge(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// DocumentCount reports how many chunks are stored.
func (s *Service) DocumentCount() int {
	return s.store.Len()
}

// Usage returns a snapshot of accumulated provider token usage.
func (s *Service) Usage() ai.Usage {
	return s.provider.Usage().Snapshot()
}

// Store exposes the underlying document store.
func (s *Service) Store() storage.DocumentStore {
	return s.store
}

// Close shuts down the pipeline workers, then the provider, then
// storage.
func (s *Service) Close() error {
	s.pipeline.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing document store", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}

	return nil
}
