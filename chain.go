package chainplan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptops/chainplan/llm"
)

// Chain is an ordered list of phases run strictly in declared order against
// a single LLM client. No phase runs concurrently with another; the only
// suspension point is the sleep between rate-limit retries.
type Chain struct {
	// Name identifies the chain (used in logs and the run history)
	Name string

	// Phases are executed in order
	Phases []Phase

	// Client is the chat-completion backend
	Client llm.Client

	// Retry configures the per-call retry loop (optional)
	Retry RetryPolicy

	// OnPhaseStart is called before each phase executes (optional)
	OnPhaseStart func(phase Phase, index int)

	// OnPhaseComplete is called after each phase's output is stored (optional)
	OnPhaseComplete func(phase Phase, index int, output string)

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// Run executes every phase in order and returns the output store.
//
// On a fatal error the partial store is returned alongside the error so
// already-produced outputs can be persisted for diagnostics; no later phase
// runs and no report should be written.
func (c *Chain) Run(ctx context.Context) (*Store, error) {
	store := NewStore()

	if c.Client == nil {
		return store, ErrNoClient
	}
	if err := validatePhases(c.Phases); err != nil {
		return store, err
	}

	for i, phase := range c.Phases {
		select {
		case <-ctx.Done():
			return store, ctx.Err()
		default:
		}

		if c.OnPhaseStart != nil {
			c.OnPhaseStart(phase, i)
		}

		user, err := phase.RenderUser(store.Snapshot())
		if err != nil {
			return store, &PhaseError{Phase: phase.Name, Err: err}
		}

		output, err := c.complete(ctx, phase, user)
		if err != nil {
			return store, &PhaseError{Phase: phase.Name, Err: err}
		}

		if err := store.Put(phase.Name, output); err != nil {
			return store, err
		}

		if c.OnPhaseComplete != nil {
			c.OnPhaseComplete(phase, i, output)
		}
	}

	return store, nil
}

// complete submits one completion call with rate-limit retry. Non-rate-limit
// errors propagate immediately without sleeping or retrying; rate-limit
// errors are retried up to the attempt budget with a derived wait between
// attempts, and the last error propagates once the budget is exhausted.
func (c *Chain) complete(ctx context.Context, phase Phase, user string) (string, error) {
	maxAttempts := c.Retry.maxAttempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		output, err := c.Client.Complete(ctx, phase.System, user)
		if err == nil {
			slog.Debug("phase call succeeded",
				"chain", c.Name,
				"phase", phase.Name,
				"attempt", attempt,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return output, nil
		}

		if !IsRateLimit(err) {
			return "", err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		wait := retryWait(err, c.Retry)
		slog.Warn("phase call rate limited, retrying",
			"chain", c.Name,
			"phase", phase.Name,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"wait", wait,
		)
		if err := c.sleepFn()(ctx, wait); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrRateLimited, maxAttempts, lastErr)
}

func (c *Chain) sleepFn() func(context.Context, time.Duration) error {
	if c.sleep != nil {
		return c.sleep
	}
	return ctxSleep
}
