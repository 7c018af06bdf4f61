package ingestion

import (
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/competiq/competiq-go/core"
)

// Default sliding-window profile for documents of ordinary size.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter cuts normalized document text into chunks sized for
// embedding. The default mode is a fixed sliding window measured in
// runes; boundary mode delegates to a recursive character splitter
// that prefers paragraph and sentence breaks while honoring the same
// size budget.
type Splitter struct {
	chunkSize int
	overlap   int
	boundary  bool
	logger    *slog.Logger
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter) error

// WithChunkProfile overrides the window size and overlap, both in runes.
func WithChunkProfile(chunkSize, overlap int) SplitterOption {
	return func(s *Splitter) error {
		if err := core.ValidateChunkConfig(chunkSize, overlap); err != nil {
			return err
		}
		s.chunkSize = chunkSize
		s.overlap = overlap
		return nil
	}
}

// WithBoundarySplitting cuts at paragraph and sentence boundaries
// instead of fixed offsets. Chunk sizes become approximate.
func WithBoundarySplitting() SplitterOption {
	return func(s *Splitter) error {
		s.boundary = true
		return nil
	}
}

// WithSplitterLogger sets the logger used for chunking diagnostics.
func WithSplitterLogger(logger *slog.Logger) SplitterOption {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSplitter creates a Splitter with the default window profile.
func NewSplitter(opts ...SplitterOption) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    slog.Default().With("component", "ingestion.splitter"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Split cuts text into ordered chunks attributed to source and docType.
// Whitespace-only pieces are dropped, so sequence indexes count kept
// chunks only. Text at or below the window size comes back as a single
// chunk.
func (s *Splitter) Split(text, source string, docType core.DocType) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyDocument
	}

	var pieces []string
	if s.boundary {
		splitter := textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(s.chunkSize),
			textsplitter.WithChunkOverlap(s.overlap),
		)
		split, err := splitter.SplitText(text)
		if err != nil {
			return nil, err
		}
		pieces = split
	} else {
		pieces = slidingWindow(text, s.chunkSize, s.overlap)
	}

	chunks := make([]core.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, core.Chunk{
			Text:           piece,
			SourceDocument: source,
			DocType:        docType,
			SequenceIndex:  len(chunks),
		})
	}

	s.logger.Debug("split document",
		"source", source,
		"chunks", len(chunks),
		"chunk_size", s.chunkSize,
		"overlap", s.overlap)

	return chunks, nil
}

// slidingWindow cuts text into windows of size runes, each starting
// size-overlap runes after the previous. The final window may be
// shorter.
func slidingWindow(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	pieces := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}

	return pieces
}
