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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrInvalidDocType indicates an unrecognized document type value.
	ErrInvalidDocType = errors.New("invalid document type")

	// ErrInvalidChunkConfig indicates an unusable chunk size/overlap pair.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrEmptyDocument indicates a document contained no extractable text
	// after normalization.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrEmptyQuery indicates a retrieval query was blank.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidRecordID indicates a public record id that does not follow
	// the doc_<n> scheme.
	ErrInvalidRecordID = errors.New("invalid record id")
)
