package chainplan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChainFile is a declarative chain definition loaded from a .chain.yaml
// file. Prompt templates are configuration data, not code: a file names its
// phases and the generic Chain runner executes them.
//
//	name: product-plan
//	description: Plan a new product in five phases.
//	phases:
//	  - name: research
//	    system: You are a market research analyst.
//	    user: Analyze the current market.
//	  - name: analysis
//	    system: You are a product analyst.
//	    user: |
//	      Market research findings:
//	      {{.research}}
//
//	      Now identify market opportunities and gaps.
type ChainFile struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Phases      []Phase `yaml:"phases"`
}

// UnmarshalYAML maps a phase definition onto Phase.
func (p *Phase) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name   string `yaml:"name"`
		System string `yaml:"system"`
		User   string `yaml:"user"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	p.Name = raw.Name
	p.System = raw.System
	p.User = raw.User
	return nil
}

// ParseChainFile parses and validates a .chain.yaml file.
func ParseChainFile(path string) (*ChainFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseChain(data)
}

// ParseChain parses and validates YAML chain definition content. Validation
// rejects unnamed or duplicate phases, empty prompts, and user templates
// that reference phases not declared earlier in the file.
func ParseChain(data []byte) (*ChainFile, error) {
	var cf ChainFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cf.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "chain name is required"}
	}
	if err := validatePhases(cf.Phases); err != nil {
		return nil, err
	}

	return &cf, nil
}
