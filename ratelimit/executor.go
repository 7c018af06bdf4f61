package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Policy bounds the executor's retry behavior.
//
// MaxRetries is the total number of attempts; Timeout applies per attempt.
// Worst-case blocking is therefore MaxRetries × (Timeout + MaxDelay).
type Policy struct {
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Timeout     time.Duration
	IsRetryable func(error) bool
}

// DefaultPolicy returns the policy used for provider calls: 5 attempts,
// 60s per-attempt timeout, backoff doubling from 500ms up to a 30s cap.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Timeout:     60 * time.Second,
		IsRetryable: IsTransient,
	}
}

// Executor runs operations against an external provider under a retry
// policy. Transient failures are retried with exponential backoff and
// jitter; anything else propagates immediately.
type Executor struct {
	policy   Policy
	throttle *rate.Limiter
	logger   *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor) error

// WithThrottle adds a proactive token-bucket throttle awaited before every
// attempt, smoothing the outbound request rate below the provider's limit.
func WithThrottle(requestsPerSecond float64, burst int) ExecutorOption {
	return func(e *Executor) error {
		if requestsPerSecond <= 0 {
			return fmt.Errorf("%w: %v requests per second", ErrInvalidThrottle, requestsPerSecond)
		}
		if burst < 1 {
			burst = 1
		}
		e.throttle = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
		return nil
	}
}

// WithExecutorLogger sets a custom logger.
// Default is slog.Default().
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExecutor creates an executor with the given policy. Zero-valued policy
// fields fall back to DefaultPolicy.
func NewExecutor(policy Policy, opts ...ExecutorOption) (*Executor, error) {
	def := DefaultPolicy()
	if policy.MaxRetries <= 0 {
		policy.MaxRetries = def.MaxRetries
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = def.BaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = def.MaxDelay
	}
	if policy.Timeout <= 0 {
		policy.Timeout = def.Timeout
	}
	if policy.IsRetryable == nil {
		policy.IsRetryable = IsTransient
	}

	e := &Executor{
		policy: policy,
		logger: slog.Default().With("component", "ratelimit"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Execute runs op until it succeeds, fails non-transiently, or the policy
// is exhausted. The context passed to op carries the per-attempt deadline.
// After exhaustion the last error is returned wrapped in
// ErrRateLimitExceeded so callers can match either.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= e.policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.throttle != nil {
			if err := e.throttle.Wait(ctx); err != nil {
				return err
			}
		}

		lastErr = e.attempt(ctx, op)
		if lastErr == nil {
			if attempt > 1 {
				e.logger.Debug("call succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if !e.policy.IsRetryable(lastErr) {
			return lastErr
		}

		e.logger.Debug("transient failure, will retry",
			"attempt", attempt, "maxRetries", e.policy.MaxRetries, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == e.policy.MaxRetries {
			break
		}

		timer := time.NewTimer(e.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRateLimitExceeded, e.policy.MaxRetries, lastErr)
}

func (e *Executor) attempt(ctx context.Context, op func(context.Context) error) error {
	attemptCtx, cancel := context.WithTimeout(ctx, e.policy.Timeout)
	defer cancel()
	return op(attemptCtx)
}

// backoff computes the sleep before the next attempt: BaseDelay * 2^(attempt-1)
// capped at MaxDelay, then jittered into [delay/2, delay).
func (e *Executor) backoff(attempt int) time.Duration {
	delay := e.policy.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= e.policy.MaxDelay {
			delay = e.policy.MaxDelay
			break
		}
	}
	half := delay / 2
	return half + time.Duration(rand.Int64N(int64(half)+1))
}

// TransientError marks a wrapped error as retryable regardless of what the
// default classifier would decide.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MarkTransient wraps err so IsTransient reports it as retryable.
// A nil err stays nil.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// transientMarkers are substrings of provider error messages that indicate
// a retryable condition. The OpenAI-compatible client surfaces HTTP status
// failures as flat strings, so classification falls back to message
// matching when no typed signal is available.
var transientMarkers = []string{
	"rate limit",
	"too many requests",
	"status code: 429",
	"status code: 500",
	"status code: 502",
	"status code: 503",
	"status code: 504",
	"internal server error",
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"connection reset",
	"connection refused",
	"timed out",
	"timeout",
	"temporarily unavailable",
	"overloaded",
}

// IsTransient reports whether err looks like a transient provider failure:
// a deadline expiry, a network timeout, an explicit TransientError, or a
// message matching a known retryable marker. Context cancellation is not
// transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
