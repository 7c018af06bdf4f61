package report

import (
	"context"
	"log/slog"

	"github.com/competiq/competiq-go/ai"
	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/ratelimit"
	"github.com/competiq/competiq-go/retrieval"
)

// Reporter turns retrieved context into a competitor-analysis report
// through the completion model.
type Reporter struct {
	generator ai.Generator
	executor  *ratelimit.Executor
	logger    *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter) error

// WithExecutor routes completion calls through a rate-limited executor.
// Without one, calls go to the generator directly.
func WithExecutor(executor *ratelimit.Executor) Option {
	return func(r *Reporter) error {
		r.executor = executor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "report")
		return nil
	}
}

// NewReporter creates a reporter generating completions with generator.
func NewReporter(generator ai.Generator, opts ...Option) (*Reporter, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Reporter{
		generator: generator,
		logger:    slog.Default().With("component", "report"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Generate produces an analysis for the query grounded in the retrieved
// context. A response missing required sections is logged and returned
// as-is; the caller sees what the model actually produced.
func (r *Reporter) Generate(ctx context.Context, query string, retrieved *retrieval.Context) (string, error) {
	if err := core.ValidateQuery(query); err != nil {
		return "", err
	}

	var competitorBlock, businessBlock string
	if retrieved != nil {
		competitorBlock = retrieved.CompetitorBlock()
		businessBlock = retrieved.BusinessBlock()
	}

	prompt := BuildPrompt(query, competitorBlock, businessBlock)
	if !hasDirective(prompt) {
		r.logger.Warn("section directive missing from rendered prompt")
	}
	r.logger.Debug("generating analysis", "query", query, "prompt_chars", len(prompt))

	var analysis string
	generate := func(ctx context.Context) error {
		text, err := r.generator.GenerateCompletion(ctx, prompt)
		if err != nil {
			return err
		}
		analysis = text
		return nil
	}

	var err error
	if r.executor != nil {
		err = r.executor.Execute(ctx, generate)
	} else {
		err = generate(ctx)
	}
	if err != nil {
		r.logger.Error("error generating analysis", "query", query, "err", err)
		return "", err
	}

	if missing := MissingSections(analysis); len(missing) > 0 {
		r.logger.Warn("analysis missing required sections", "missing", missing)
	}

	return analysis, nil
}
