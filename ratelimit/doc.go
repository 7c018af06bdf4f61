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


// Package ratelimit bounds both directions of the pipeline's external traffic.
//
// Window is the inbound guard: a per-caller sliding window that rejects a
// caller once their request count in the trailing interval reaches a ceiling.
// A failure inside the window itself is logged and treated as "allow" so the
// guard can never take down an unrelated request path.
//
// Executor is the outbound guard: it wraps calls to the embedding/completion
// provider with a per-attempt timeout, transient-failure classification,
// exponential backoff with jitter, and an optional proactive throttle.
// Non-transient failures propagate immediately; transient ones are retried
// until the policy is exhausted, then surface wrapped in ErrRateLimitExceeded.
package ratelimit
