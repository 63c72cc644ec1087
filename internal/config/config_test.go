package config

import (
	"os"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "CHAINPLAN_MODEL",
		"CHAINPLAN_TEMPERATURE", "CHAINPLAN_MAX_TOKENS", "USE_GROQ",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Temperature != DefaultTemperature {
		t.Errorf("Temperature = %v, want %v", cfg.Temperature, DefaultTemperature)
	}
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, DefaultMaxTokens)
	}
	if cfg.UseGroq {
		t.Error("UseGroq should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHAINPLAN_MODEL", "gpt-4o")
	t.Setenv("CHAINPLAN_TEMPERATURE", "0.2")
	t.Setenv("CHAINPLAN_MAX_TOKENS", "2048")

	cfg := Load()
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d", cfg.MaxTokens)
	}
}

func TestLoadGroq(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "gsk-test")
	t.Setenv("USE_GROQ", "true")

	cfg := Load()
	if !cfg.UseGroq {
		t.Fatal("UseGroq = false, want true")
	}
	if cfg.BaseURL != GroqBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, GroqBaseURL)
	}
	if cfg.Model != GroqDefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, GroqDefaultModel)
	}

	// Explicit settings win over Groq defaults.
	t.Setenv("OPENAI_BASE_URL", "https://proxy.example/v1")
	t.Setenv("CHAINPLAN_MODEL", "mixtral-8x7b")
	cfg = Load()
	if cfg.BaseURL != "https://proxy.example/v1" || cfg.Model != "mixtral-8x7b" {
		t.Errorf("BaseURL = %q, Model = %q", cfg.BaseURL, cfg.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			"valid",
			Config{APIKey: "sk-test", Temperature: 0.7, MaxTokens: 1024},
			"",
		},
		{
			"missing key",
			Config{Temperature: 0.7, MaxTokens: 1024},
			"OPENAI_API_KEY is not set",
		},
		{
			"temperature out of range",
			Config{APIKey: "sk-test", Temperature: 3.0, MaxTokens: 1024},
			"outside [0, 2]",
		},
		{
			"non-positive max tokens",
			Config{APIKey: "sk-test", Temperature: 0.7},
			"must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsProblems(t *testing.T) {
	cfg := Config{Temperature: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"OPENAI_API_KEY", "outside [0, 2]", "must be positive"} {
		if !strings.Contains(msg, want) {
			t.Errorf("joined error missing %q: %q", want, msg)
		}
	}
}

func TestExport(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_BASE", "")
	t.Setenv("OPENAI_MODEL_NAME", "")

	cfg := &Config{
		APIKey:  "gsk-test",
		BaseURL: GroqBaseURL,
		Model:   GroqDefaultModel,
		UseGroq: true,
	}
	cfg.Export()

	if got := os.Getenv("OPENAI_API_KEY"); got != "gsk-test" {
		t.Errorf("OPENAI_API_KEY = %q", got)
	}
	if got := os.Getenv("OPENAI_API_BASE"); got != GroqBaseURL {
		t.Errorf("OPENAI_API_BASE = %q", got)
	}
	if got := os.Getenv("OPENAI_MODEL_NAME"); got != GroqDefaultModel {
		t.Errorf("OPENAI_MODEL_NAME = %q", got)
	}
}

func TestSummaryMasksKey(t *testing.T) {
	cfg := &Config{APIKey: "sk-abcdef123456", Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 1024}
	s := cfg.Summary()
	if strings.Contains(s, "sk-abcdef123456") {
		t.Error("summary leaks full API key")
	}
	if !strings.Contains(s, "****3456") {
		t.Errorf("summary missing masked key: %q", s)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"abcd", "****"},
		{"sk-1234", "****1234"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"on", true},
		{"0", false}, {"false", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("CHAINPLAN_TEST_FLAG", tt.value)
		if got := boolEnv("CHAINPLAN_TEST_FLAG"); got != tt.want {
			t.Errorf("boolEnv(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
