package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/competiq/competiq-go/core"
	"github.com/competiq/competiq-go/storage"
)

// DocumentStore implements storage.DocumentStore for BadgerDB.
//
// A store-instance mutex serializes id assignment and writes, so concurrent
// batch writers never duplicate or skip a sequence number. The sequence only
// advances after a commit succeeds, which keeps the no-gap invariant: the
// record count always equals the next sequence number.
type DocumentStore struct {
	backend *Backend
	logger  *slog.Logger

	mu      sync.Mutex
	nextSeq uint64
}

var _ storage.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a document store over the backend. The id
// sequence resumes from the highest key already present, so restarts keep
// assigning consecutive ids.
func NewDocumentStore(backend *Backend) (*DocumentStore, error) {
	s := &DocumentStore{
		backend: backend,
		logger:  slog.Default().With("component", "storage.badger"),
	}
	if err := s.recoverSequence(); err != nil {
		return nil, err
	}
	return s, nil
}

// recoverSequence scans existing document keys and positions the sequence
// one past the highest.
func (s *DocumentStore) recoverSequence() error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = docKeyRange()
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var next uint64
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if seq, ok := docKeySeq(iter.Item().Key()); ok && seq >= next {
				next = seq + 1
			}
		}
		s.nextSeq = next
		return nil
	}, false)
}

// Add stores one chunk with its embedding and returns the assigned id.
func (s *DocumentStore) Add(ctx context.Context, text string, vector []float32, meta core.Metadata) (string, error) {
	ids, err := s.AddBatch(ctx, []string{text}, [][]float32{vector}, []core.Metadata{meta})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddBatch stores the triples in a single transaction. The sequence only
// advances when the commit succeeds, so a failed batch leaves the next id
// unchanged for the retry.
func (s *DocumentStore) AddBatch(ctx context.Context, texts []string, vectors [][]float32, metas []core.Metadata) ([]string, error) {
	if len(texts) != len(vectors) || len(texts) != len(metas) {
		return nil, fmt.Errorf("%w: %d texts, %d vectors, %d metadatas",
			storage.ErrBatchMismatch, len(texts), len(vectors), len(metas))
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if len(texts) == 0 {
		return []string{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	ids := make([]string, len(texts))

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for i, text := range texts {
			seq := s.nextSeq + uint64(i)
			record := &core.Record{
				Seq:        seq,
				Text:       text,
				Vector:     vectors[i],
				Source:     metas[i].Source,
				DocType:    metas[i].DocType,
				Checksum:   core.ChecksumFromContent(text),
				InsertedAt: now,
			}
			if err := tx.Set(makeDocKey(seq), storage.MarshalRecord(record)); err != nil {
				return err
			}
			ids[i] = core.FormatRecordID(seq)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		s.logger.Error("batch write failed, sequence not advanced",
			"records", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", storage.ErrWriteFailed, err)
	}

	s.nextSeq += uint64(len(texts))
	return ids, nil
}

// Search scans every record and ranks by cosine similarity. It degrades to
// an empty result instead of failing; a query must never break on a storage
// hiccup when "no context found" is an acceptable answer.
func (s *DocumentStore) Search(ctx context.Context, vector []float32, limit int) ([]core.SearchResult, error) {
	if limit <= 0 || len(vector) == 0 {
		return []core.SearchResult{}, nil
	}
	if s.backend.IsClosed() {
		s.logger.Warn("search on closed store, returning empty result")
		return []core.SearchResult{}, nil
	}

	var results []core.SearchResult
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = docKeyRange()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.Record
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			results = append(results, core.SearchResult{
				Text:     record.Text,
				Metadata: record.Metadata(),
				Score:    cosineSimilarity(vector, record.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		s.logger.Error("similarity scan failed, returning empty result", "err", err)
		return []core.SearchResult{}, nil
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []core.SearchResult{}
	}
	return results, nil
}

// Len returns the number of stored records.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.nextSeq)
}

// Clear removes every record and resets the sequence, so the next stored
// chunk becomes doc_0 again.
func (s *DocumentStore) Clear(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextSeq == 0 {
		return nil
	}
	if err := s.backend.DropPrefix(docKeyRange()); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	s.nextSeq = 0
	s.logger.Info("document store cleared")
	return nil
}

// Close releases store resources. The backend itself stays open; whoever
// opened it closes it.
func (s *DocumentStore) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Vectors of different lengths are compared over their shared prefix; a
// zero-magnitude vector scores 0.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / math.Sqrt(normA*normB))
}
