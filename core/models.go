package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocType categorizes an ingested document. It drives how retrieval results
// are partitioned for prompt assembly.
type DocType string

const (
	// DocTypeCompetitor marks documents describing competitors.
	DocTypeCompetitor DocType = "competitor"
	// DocTypeBusiness marks documents describing the user's own business.
	DocTypeBusiness DocType = "business"
	// DocTypeUnknown marks documents ingested without a category. Records
	// tagged unknown surface in both retrieval partitions for compatibility
	// with documents uploaded before type tagging existed.
	DocTypeUnknown DocType = "unknown"
)

// ParseDocType maps a raw category string to a DocType.
// Unrecognized or empty input maps to DocTypeUnknown; it never fails.
func ParseDocType(s string) DocType {
	switch DocType(strings.ToLower(strings.TrimSpace(s))) {
	case DocTypeCompetitor:
		return DocTypeCompetitor
	case DocTypeBusiness:
		return DocTypeBusiness
	default:
		return DocTypeUnknown
	}
}

// Valid reports whether t is one of the known document types.
func (t DocType) Valid() bool {
	return t == DocTypeCompetitor || t == DocTypeBusiness || t == DocTypeUnknown
}

// ChecksumFromContent computes a deterministic 64-bit digest of text content
// using BLAKE2b. Identical content always produces an identical checksum.
func ChecksumFromContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Chunk is a bounded fragment of a document's text, tagged with its origin.
// Chunks are produced by the splitter and are immutable; they live only for
// the duration of an ingestion run.
type Chunk struct {
	Text           string
	SourceDocument string
	DocType        DocType
	SequenceIndex  int // position of the chunk within its source document
}

// Metadata is the per-record provenance attached to every stored chunk.
type Metadata struct {
	Source  string
	DocType DocType
}

// Record is the stored form of an embedded chunk.
//
// Seq is assigned by the store and is strictly increasing within a store
// instance; a failed write never advances it, so the sequence has no gaps
// and always equals the store's record count.
type Record struct {
	Seq        uint64
	Text       string
	Vector     []float32 // embedding; empty means "embedding failed or empty input"
	Source     string
	DocType    DocType
	Checksum   uint64    // BLAKE2b digest of Text, stamped by the store
	InsertedAt time.Time // when the record was written, stamped by the store
}

// recordIDPrefix is the public id scheme carried over from the first
// generation of the knowledge base. Ids look like "doc_0", "doc_1", ...
const recordIDPrefix = "doc_"

// ID renders the record's public identifier.
func (r *Record) ID() string {
	return FormatRecordID(r.Seq)
}

// Metadata returns the record's provenance projection.
func (r *Record) Metadata() Metadata {
	return Metadata{Source: r.Source, DocType: r.DocType}
}

// FormatRecordID renders a sequence number as a public record id.
func FormatRecordID(seq uint64) string {
	return recordIDPrefix + strconv.FormatUint(seq, 10)
}

// ParseRecordID extracts the sequence number from a public record id.
func ParseRecordID(id string) (uint64, error) {
	rest, ok := strings.CutPrefix(id, recordIDPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordID, id)
	}
	seq, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRecordID, id)
	}
	return seq, nil
}

// SearchResult is a read-only projection of a stored record, ranked by
// cosine similarity against a query embedding (higher score = more similar).
type SearchResult struct {
	Text     string
	Metadata Metadata
	Score    float32
}
