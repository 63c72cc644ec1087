// Package config reads runner configuration from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default configuration values
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
	DefaultModel       = "gpt-4o-mini"

	// Groq defaults, used when USE_GROQ selects the alternate provider
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqDefaultModel = "llama-3.3-70b-versatile"
)

// Config holds everything the runner reads from the environment.
type Config struct {
	// APIKey authenticates against the chat-completion endpoint (OPENAI_API_KEY)
	APIKey string

	// BaseURL is the API base (OPENAI_BASE_URL; empty means the provider default)
	BaseURL string

	// Model is the model identifier (CHAINPLAN_MODEL)
	Model string

	// Temperature for generation (CHAINPLAN_TEMPERATURE)
	Temperature float64

	// MaxTokens limits response length (CHAINPLAN_MAX_TOKENS)
	MaxTokens int

	// UseGroq selects the Groq endpoint and model defaults (USE_GROQ)
	UseGroq bool
}

// Load reads configuration from the environment, applying defaults. It does
// not validate; call Validate before making any remote calls.
func Load() *Config {
	cfg := &Config{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Model:       os.Getenv("CHAINPLAN_MODEL"),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		UseGroq:     boolEnv("USE_GROQ"),
	}

	if v := os.Getenv("CHAINPLAN_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("CHAINPLAN_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}

	if cfg.UseGroq {
		if cfg.BaseURL == "" {
			cfg.BaseURL = GroqBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = GroqDefaultModel
		}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return cfg
}

// Validate checks the configuration before any remote call is made.
func (c *Config) Validate() error {
	var problems []string

	if c.APIKey == "" {
		problems = append(problems, "OPENAI_API_KEY is not set")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("temperature %.2f is outside [0, 2]", c.Temperature))
	}
	if c.MaxTokens <= 0 {
		problems = append(problems, fmt.Sprintf("max tokens %d must be positive", c.MaxTokens))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Export mirrors the configuration into the OPENAI_* variables that
// downstream tooling reads.
func (c *Config) Export() {
	os.Setenv("OPENAI_API_KEY", c.APIKey)
	if c.BaseURL != "" {
		os.Setenv("OPENAI_API_BASE", c.BaseURL)
	}
	if c.UseGroq {
		os.Setenv("OPENAI_MODEL_NAME", c.Model)
	}
}

// Summary returns a printable configuration summary with the key masked.
func (c *Config) Summary() string {
	provider := "openai-compatible"
	if c.UseGroq {
		provider = "groq"
	}
	base := c.BaseURL
	if base == "" {
		base = "(default)"
	}
	return fmt.Sprintf(
		"Provider: %s\nModel: %s\nBase URL: %s\nAPI Key: %s\nTemperature: %.2f\nMax Tokens: %d",
		provider, c.Model, base, maskKey(c.APIKey), c.Temperature, c.MaxTokens,
	)
}

// maskKey hides all but the last four characters of a key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// boolEnv reads an environment variable as a boolean flag.
func boolEnv(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
