package chainplan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validChainYAML = `name: product-plan
description: Plan a new product in five phases.
phases:
  - name: research
    system: You are a market research analyst.
    user: Analyze the current market.
  - name: analysis
    system: You are a product analyst.
    user: |
      Market research findings:
      {{.research}}

      Now identify market opportunities and gaps.
`

func TestParseChain(t *testing.T) {
	cf, err := ParseChain([]byte(validChainYAML))
	if err != nil {
		t.Fatalf("ParseChain error: %v", err)
	}

	if cf.Name != "product-plan" {
		t.Errorf("Name = %q, want product-plan", cf.Name)
	}
	if len(cf.Phases) != 2 {
		t.Fatalf("len(Phases) = %d, want 2", len(cf.Phases))
	}
	if cf.Phases[1].Name != "analysis" {
		t.Errorf("second phase = %q, want analysis", cf.Phases[1].Name)
	}
	if !strings.Contains(cf.Phases[1].User, "{{.research}}") {
		t.Errorf("analysis user template missing reference: %q", cf.Phases[1].User)
	}
}

func TestParseChainInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"malformed yaml",
			"name: [unclosed",
			"parse yaml",
		},
		{
			"missing chain name",
			"phases:\n  - name: a\n    system: s\n    user: u\n",
			"chain name is required",
		},
		{
			"no phases",
			"name: empty\n",
			"at least one phase",
		},
		{
			"forward reference",
			"name: bad\nphases:\n  - name: a\n    system: s\n    user: uses {{.b}}\n  - name: b\n    system: s\n    user: u\n",
			"not declared earlier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChain([]byte(tt.yaml))
			if err == nil {
				t.Fatal("ParseChain = nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseChainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.chain.yaml")
	if err := os.WriteFile(path, []byte(validChainYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cf, err := ParseChainFile(path)
	if err != nil {
		t.Fatalf("ParseChainFile error: %v", err)
	}
	if cf.Name != "product-plan" {
		t.Errorf("Name = %q, want product-plan", cf.Name)
	}

	if _, err := ParseChainFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseChainValidationErrorType(t *testing.T) {
	_, err := ParseChain([]byte("name: empty\n"))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
}
