package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OpenAI is a Client for OpenAI-compatible chat-completion endpoints.
type OpenAI struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Option configures the OpenAI client.
type Option func(*OpenAI)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *OpenAI) {
		c.apiKey = key
	}
}

// WithBaseURL sets the API base URL (e.g. a Groq or proxy endpoint).
func WithBaseURL(url string) Option {
	return func(c *OpenAI) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(c *OpenAI) {
		c.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *OpenAI) {
		c.temperature = t
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) Option {
	return func(c *OpenAI) {
		c.maxTokens = n
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OpenAI) {
		c.httpClient = client
	}
}

// Default OpenAI configuration values
const (
	DefaultTimeout     = 5 * time.Minute
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// NewOpenAI creates a new OpenAI-compatible client.
func NewOpenAI(opts ...Option) *OpenAI {
	c := &OpenAI{
		apiKey:      os.Getenv("OPENAI_API_KEY"),
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	if envURL := os.Getenv("OPENAI_BASE_URL"); envURL != "" {
		c.baseURL = strings.TrimSuffix(envURL, "/")
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// chatRequest is the API request format.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// chatResponse is the API response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RateLimitError is returned for HTTP 429 responses. It is tagged once at
// the client boundary so callers can branch on errors.As instead of
// re-deriving the classification from message content.
type RateLimitError struct {
	// RetryAfter is the wait suggested by the service, from the retry-after
	// header or a "Please try again in ..." hint in the body. Zero means no
	// suggestion was found.
	RetryAfter time.Duration

	// Message is the raw response body.
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (429): %s", e.Message)
}

// Model returns the model identifier requests are made with.
func (c *OpenAI) Model() string {
	return c.model
}

// Complete submits one system + user message pair and returns the first
// choice's message content.
func (c *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		rlErr := &RateLimitError{
			RetryAfter: retryAfter(httpResp, string(respBody)),
			Message:    string(respBody),
		}
		slog.Warn("API rate limited",
			"model", c.model,
			"retry_after", rlErr.RetryAfter,
		)
		return "", rlErr
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("API returned no choices")
	}

	slog.Debug("chat completion succeeded",
		"model", c.model,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return resp.Choices[0].Message.Content, nil
}

// retryAfter derives a wait duration for a 429 response. The retry-after
// header takes precedence; otherwise the body is scanned for a wait hint.
func retryAfter(resp *http.Response, body string) time.Duration {
	if ra := resp.Header.Get("retry-after"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if d, ok := ParseRetryHint(body); ok {
		return d
	}
	return 0
}

// retryHintRe matches the wait-time phrase some providers embed in rate-limit
// messages, e.g. "Please try again in 3m23.04s".
var retryHintRe = regexp.MustCompile(`Please try again in ([0-9][0-9.]*(?:h[0-9.hms]*|m[0-9.ms]*|s))`)

// ParseRetryHint extracts a wait duration from a "Please try again in <dur>"
// phrase. The full compound duration is parsed (so "3m23.04s" counts the
// seconds component, not just "3m"), floored to whole seconds, and padded
// with a safety buffer keyed by the largest unit: 5s for seconds, 10s for
// minutes, 60s for hours.
func ParseRetryHint(msg string) (time.Duration, bool) {
	m := retryHintRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}

	d, err := time.ParseDuration(m[1])
	if err != nil || d <= 0 {
		return 0, false
	}

	wait := time.Duration(int64(d.Seconds())) * time.Second

	switch {
	case strings.Contains(m[1], "h"):
		wait += time.Minute
	case containsMinuteUnit(m[1]):
		wait += 10 * time.Second
	default:
		wait += 5 * time.Second
	}

	return wait, true
}

// containsMinuteUnit reports whether a duration token has a minute component.
// "m" must not be the "m" of "ms".
func containsMinuteUnit(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] == 'm' && (i+1 >= len(token) || token[i+1] != 's') {
			return true
		}
	}
	return false
}
