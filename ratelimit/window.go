package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Defaults for the sliding window, matching the public API's advertised
// allowance of 60 requests per minute per caller.
const (
	DefaultWindowLimit = 60
	DefaultWindowSpan  = time.Minute
)

// Window is a sliding-window request limiter keyed by caller identity
// (user id or client address). It tracks request timestamps in a rolling
// interval and rejects a caller once their count reaches the ceiling.
// Stale timestamps are purged lazily on each check.
//
// Window is safe for concurrent use.
type Window struct {
	limit  int
	span   time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	calls map[string][]time.Time
	now   func() time.Time
}

// NewWindow creates a sliding-window limiter allowing limit requests per
// caller within span. Non-positive arguments fall back to the defaults.
func NewWindow(limit int, span time.Duration) *Window {
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	if span <= 0 {
		span = DefaultWindowSpan
	}
	return &Window{
		limit:  limit,
		span:   span,
		logger: slog.Default().With("component", "ratelimit"),
		calls:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records one request for callerID and reports whether it fits in the
// caller's window. Over the ceiling it returns ErrTooManyRequests without
// recording the request.
//
// The limiter must never take down the request path it is guarding: if it
// fails internally, the failure is logged and the request is allowed.
func (w *Window) Allow(callerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("limiter failure, allowing request", "caller", callerID, "panic", r)
			err = nil
		}
	}()

	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	// Purge timestamps that have slid out of the window.
	cutoff := now.Add(-w.span)
	recent := w.calls[callerID][:0]
	for _, ts := range w.calls[callerID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= w.limit {
		w.calls[callerID] = recent
		return fmt.Errorf("%w: %d calls in the last %s", ErrTooManyRequests, len(recent), w.span)
	}

	w.calls[callerID] = append(recent, now)
	return nil
}
