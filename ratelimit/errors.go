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


package ratelimit

import "errors"

var (
	// ErrTooManyRequests is returned by the sliding window when a caller
	// has used up their allowance for the current interval.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrRateLimitExceeded is returned by the executor once every retry
	// allowed by the policy has failed with a transient error.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrInvalidThrottle is returned when a throttle option is configured
	// with a non-positive request rate.
	ErrInvalidThrottle = errors.New("invalid throttle configuration")
)
