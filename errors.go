package chainplan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/promptops/chainplan/llm"
)

// Standard errors returned by the chain runner.
var (
	// ErrDuplicatePhase is returned when a phase output would overwrite an
	// existing store entry.
	ErrDuplicatePhase = errors.New("duplicate phase output")

	// ErrNoClient is returned when a chain is run without an LLM client.
	ErrNoClient = errors.New("no LLM client configured")

	// ErrRateLimited is returned when the retry budget is exhausted on
	// rate-limit errors. The last client error is attached as the cause.
	ErrRateLimited = errors.New("rate limited")
)

// PhaseError wraps an error with the phase it occurred in.
type PhaseError struct {
	Phase string
	Err   error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %s: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// ValidationError reports an invalid phase or chain definition.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsRateLimit reports whether an error represents a rate-limit response.
//
// Errors from the llm package carry an explicit *llm.RateLimitError tag set
// at the client boundary. Errors from other sources fall back to message
// matching: a rate-limit phrase or an HTTP 429 indicator.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rl *llm.RateLimitError
	if errors.As(err, &rl) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "429")
}
