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


package core

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeText strips control characters (including NUL bytes smuggled in
// by extractors) and collapses every whitespace run to a single space.
// The result is trimmed; a document with no extractable text normalizes to "".
func NormalizeText(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - DocType must be a known category
//   - SequenceIndex must not be negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if err := ValidateDocType(chunk.DocType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.SequenceIndex < 0 {
		return fmt.Errorf("%w: sequence index %d", ErrInvalidChunk, chunk.SequenceIndex)
	}

	return nil
}

// ValidateChunkConfig validates a chunk size/overlap pair.
//
// Validation rules:
//   - chunkSize must be positive
//   - overlap must not be negative
//   - overlap must be strictly smaller than chunkSize, otherwise the
//     window would never advance
func ValidateChunkConfig(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidChunkConfig, chunkSize)
	}

	if overlap < 0 {
		return fmt.Errorf("%w: overlap %d", ErrInvalidChunkConfig, overlap)
	}

	if overlap >= chunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			ErrInvalidChunkConfig, overlap, chunkSize)
	}

	return nil
}

// ValidateDocType validates that a DocType has a known value.
func ValidateDocType(docType DocType) error {
	if !docType.Valid() {
		return fmt.Errorf("%w: value %q", ErrInvalidDocType, string(docType))
	}
	return nil
}

// ValidateQuery validates a retrieval query string.
func ValidateQuery(query string) error {
	if NormalizeText(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
