package chainplan

import (
	"reflect"
	"strings"
	"testing"
)

func TestRenderUser(t *testing.T) {
	p := Phase{
		Name:   "analysis",
		System: "You are a product analyst.",
		User:   "Findings:\n{{.research}}\n\nIdentify opportunities.",
	}

	out, err := p.RenderUser(map[string]string{"research": "the market is growing"})
	if err != nil {
		t.Fatalf("RenderUser error: %v", err)
	}
	if !strings.Contains(out, "the market is growing") {
		t.Errorf("rendered user message missing interpolated output: %q", out)
	}
}

func TestRenderUserMissingOutput(t *testing.T) {
	p := Phase{
		Name: "analysis",
		User: "Findings:\n{{.research}}",
	}

	_, err := p.RenderUser(map[string]string{})
	if err == nil {
		t.Fatal("expected error for missing referenced output")
	}
}

func TestReferences(t *testing.T) {
	p := Phase{
		Name: "review",
		User: "Blueprint:\n{{.blueprint}}\n\nArchitecture:\n{{.technical}}\n\nAlso {{.blueprint}} again.",
	}

	refs, err := p.References()
	if err != nil {
		t.Fatalf("References error: %v", err)
	}
	want := []string{"blueprint", "technical"}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("References() = %v, want %v", refs, want)
	}
}

func TestValidatePhases(t *testing.T) {
	valid := []Phase{
		{Name: "research", System: "analyst", User: "analyze the market"},
		{Name: "analysis", System: "analyst", User: "findings: {{.research}}"},
	}

	tests := []struct {
		name    string
		phases  []Phase
		wantErr string
	}{
		{"valid chain", valid, ""},
		{"empty chain", nil, "at least one phase"},
		{
			"missing name",
			[]Phase{{System: "s", User: "u"}},
			"name is required",
		},
		{
			"duplicate name",
			[]Phase{
				{Name: "research", System: "s", User: "u"},
				{Name: "research", System: "s", User: "u"},
			},
			"duplicate phase name",
		},
		{
			"missing system",
			[]Phase{{Name: "research", User: "u"}},
			"system prompt is required",
		},
		{
			"missing user",
			[]Phase{{Name: "research", System: "s"}},
			"user template is required",
		},
		{
			"forward reference",
			[]Phase{
				{Name: "research", System: "s", User: "based on {{.analysis}}"},
				{Name: "analysis", System: "s", User: "u"},
			},
			"not declared earlier",
		},
		{
			"self reference",
			[]Phase{{Name: "research", System: "s", User: "re-read {{.research}}"}},
			"not declared earlier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePhases(tt.phases)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validatePhases() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("validatePhases() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuiltinChainsValidate(t *testing.T) {
	if err := validatePhases(ProductPlanPhases()); err != nil {
		t.Errorf("product chain invalid: %v", err)
	}
	if err := validatePhases(ConferencePhases(DefaultConferencePlan())); err != nil {
		t.Errorf("conference chain invalid: %v", err)
	}
}

func TestConferencePhasesParameters(t *testing.T) {
	plan := DefaultConferencePlan()
	plan.Topic = "Quantum Computing"
	plan.Location = "Boston, MA"

	phases := ConferencePhases(plan)

	if !strings.Contains(phases[0].User, "Quantum Computing") {
		t.Error("strategy phase missing topic")
	}
	var logistics Phase
	for _, p := range phases {
		if p.Name == "logistics" {
			logistics = p
		}
	}
	if !strings.Contains(logistics.User, "Boston, MA") {
		t.Error("logistics phase missing location")
	}
}
