package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/competiq/competiq-go/ai"
	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/storage"
)

// DefaultLimit is the number of results kept per document category.
const DefaultLimit = 5

// minFetch keeps the candidate pool wide enough to fill both category
// buckets even when one document type dominates the top ranks.
const minFetch = 10

// Context is the knowledge retrieved for a query, partitioned by
// document category. Records ingested without a category appear in both
// partitions, matching how untyped documents behaved before type
// tagging existed.
type Context struct {
	Query      string
	Competitor []core.SearchResult
	Business   []core.SearchResult
}

// Empty reports whether retrieval found nothing in either partition.
func (c *Context) Empty() bool {
	return len(c.Competitor) == 0 && len(c.Business) == 0
}

// CompetitorBlock joins the competitor partition's texts into a single
// prompt block.
func (c *Context) CompetitorBlock() string {
	return joinTexts(c.Competitor)
}

// BusinessBlock joins the business partition's texts into a single
// prompt block.
func (c *Context) BusinessBlock() string {
	return joinTexts(c.Business)
}

func joinTexts(results []core.SearchResult) string {
	texts := make([]string, 0, len(results))
	for _, result := range results {
		texts = append(texts, result.Text)
	}
	return strings.Join(texts, "\n\n")
}

// Retriever answers queries against the document store by embedding the
// query and ranking stored chunks by cosine similarity.
type Retriever struct {
	store    storage.DocumentStore
	embedder ai.Embedder
	limit    int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLimit sets the per-category result limit applied when a call
// does not carry its own. Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(r *Retriever) error {
		if limit < 1 {
			return ErrInvalidLimit
		}
		r.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "retrieval")
		return nil
	}
}

// NewRetriever creates a retriever reading from store with query
// embeddings from embedder.
func NewRetriever(store storage.DocumentStore, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		store:    store,
		embedder: embedder,
		limit:    DefaultLimit,
		logger:   slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Search returns the top limit stored chunks ranked by similarity to
// the query. A non-positive limit falls back to the retriever's default.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = r.limit
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	return r.store.Search(ctx, vector, limit)
}

// Retrieve answers a query with category-partitioned context, keeping
// at most limitPerType results per category. A non-positive limitPerType
// falls back to the retriever's default. The candidate pool is fetched
// wider than the per-category limit so both partitions can fill, then
// each is truncated to the limit in rank order. An empty store yields
// an empty Context, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, limitPerType int) (*Context, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if limitPerType < 1 {
		limitPerType = r.limit
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	fetch := 2 * limitPerType
	if fetch < minFetch {
		fetch = minFetch
	}

	results, err := r.store.Search(ctx, vector, fetch)
	if err != nil {
		r.logger.Error("error querying for similar records", "err", err)
		return nil, err
	}

	retrieved := &Context{Query: query}
	for _, result := range results {
		switch result.Metadata.DocType {
		case core.DocTypeCompetitor:
			retrieved.Competitor = append(retrieved.Competitor, result)
		case core.DocTypeBusiness:
			retrieved.Business = append(retrieved.Business, result)
		default:
			retrieved.Competitor = append(retrieved.Competitor, result)
			retrieved.Business = append(retrieved.Business, result)
		}
	}

	if len(retrieved.Competitor) > limitPerType {
		retrieved.Competitor = retrieved.Competitor[:limitPerType]
	}
	if len(retrieved.Business) > limitPerType {
		retrieved.Business = retrieved.Business[:limitPerType]
	}

	r.logger.Debug("retrieved context",
		"query", query,
		"competitor_hits", len(retrieved.Competitor),
		"business_hits", len(retrieved.Business))

	return retrieved, nil
}
