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


// Package storage provides the storage abstraction layer for competiq.
//
// This package defines the DocumentStore interface that decouples storage
// implementation from ingestion and retrieval logic. It allows for different
// storage backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
// The storage layer holds one kind of record, the embedded document chunk:
//
//   - DocumentStore: add, batch add, similarity search, clear, count
//   - MarshalRecord/UnmarshalRecord: wire codec for the badger backend
//
// Records carry sequential ids rendered publicly as "doc_<n>". The sequence
// has no gaps: a failed write never consumes a number, and Clear resets the
// sequence so the next stored chunk becomes doc_0 again.
//
// # Usage
//
// Create a store instance:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	store, err := badger.NewDocumentStore(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, backend, err := badger.NewMemoryStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer store.Close()
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines; ingestion writes batches from a worker
// pool while retrieval reads.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
