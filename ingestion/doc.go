// Package ingestion turns raw documents into searchable vector records.
//
// The pipeline runs each document through four stages:
//
//   - extract: a TextExtractor converts uploaded bytes to plain text
//   - normalize: whitespace is collapsed and empty documents rejected
//   - chunk: a Splitter cuts the text into overlapping windows, with
//     the profile picked by document size (small documents stay whole,
//     very large ones get a tighter window)
//   - embed and store: chunks are batched across a worker pool, embedded,
//     and written to the document store with source attribution
//
// Batches fail independently. A document whose batches all succeed is
// reported as completed, a mixed outcome as partial, and only a run
// that stored nothing at all is an error.
package ingestion
