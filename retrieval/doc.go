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


// Package retrieval answers queries against the ingested knowledge base.
//
// A Retriever embeds the query, ranks stored chunks by cosine
// similarity, and partitions the candidates by document category into a
// Context: competitor intelligence on one side, the user's own business
// profile on the other. Records stored without a category count toward
// both partitions. The Context's prompt blocks feed report generation.
package retrieval
