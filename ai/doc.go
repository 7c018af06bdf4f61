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


// Package ai provides abstractions for the AI services behind the pipeline.
//
// This package defines interfaces for text embeddings and report completions.
// It follows the dependency inversion principle, allowing the ingestion and
// retrieval logic to depend on abstractions rather than concrete providers.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces completion text for report generation
//   - Provider: Aggregates both services plus their usage accounting
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Batching
//
// Batcher is an Embedder decorator that groups texts into sub-batches
// bounded by item count and estimated token budget, and drives each
// sub-batch through a ratelimit.Executor as a single provider call. Because
// Batcher itself implements Embedder, it can stand in anywhere a raw
// embedder is expected:
//
//	raw := provider.Embedder()
//	counter := ai.NewTokenCounter(cfg.EmbeddingModel)
//	batcher, err := ai.NewBatcher(raw, executor, counter)
//	// batcher.EmbedTexts(ctx, texts) → same length/order as texts
//
// # Usage Accounting
//
// UsageTracker accumulates process-wide token and call counters for both
// embedding and completion traffic. The tracker is owned by the Provider
// instance and passed by handle; counters only ever increase while the
// process lives.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Acme raised prices")
//	report, err := provider.Generator().GenerateCompletion(ctx, prompt)
//	usage := provider.Usage().Snapshot()
package ai
