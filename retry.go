package chainplan

import (
	"context"
	"errors"
	"time"

	"github.com/promptops/chainplan/llm"
)

// Default retry configuration values
const (
	// DefaultMaxAttempts is the attempt budget for rate-limited calls
	DefaultMaxAttempts = 3

	// DefaultRetryWait is used when a rate-limit error carries no wait hint
	DefaultRetryWait = 60 * time.Second
)

// RetryPolicy configures retry behavior for rate-limited completion calls.
// Each call's retry loop is independent; there is no shared state across
// calls. Errors that are not rate limits are never retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (default: DefaultMaxAttempts)
	MaxAttempts int

	// BaseWait is the wait used when no hint can be derived from the error
	// (default: DefaultRetryWait)
	BaseWait time.Duration
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts > 0 {
		return p.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (p RetryPolicy) baseWait() time.Duration {
	if p.BaseWait > 0 {
		return p.BaseWait
	}
	return DefaultRetryWait
}

// retryWait derives the wait before the next attempt from a rate-limit
// error: the tagged RetryAfter if the client set one, a parsed message hint,
// or the policy's base wait.
func retryWait(err error, policy RetryPolicy) time.Duration {
	var rl *llm.RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	if d, ok := llm.ParseRetryHint(err.Error()); ok {
		return d
	}
	return policy.baseWait()
}

// ctxSleep blocks for d or until the context is canceled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
