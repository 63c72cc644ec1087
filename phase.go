package chainplan

import (
	"fmt"
	"strings"
	"text/template"
	"text/template/parse"
)

// Phase defines one step in a chain. It's a blueprint, not a running call:
// the Chain renders the user template against the output store and submits
// one chat completion per phase.
type Phase struct {
	// Name identifies this phase and keys its output in the Store
	Name string

	// System is the fixed system prompt
	System string

	// User is the user-message template. It may reference earlier phases'
	// outputs as {{.phasename}}.
	User string
}

// RenderUser renders the user template against the given outputs. Referencing
// a phase that has no output yet is an error.
func (p Phase) RenderUser(outputs map[string]string) (string, error) {
	tmpl, err := template.New(p.Name).Option("missingkey=error").Parse(p.User)
	if err != nil {
		return "", fmt.Errorf("parse user template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, outputs); err != nil {
		return "", fmt.Errorf("render user template: %w", err)
	}
	return buf.String(), nil
}

// References returns the phase names the user template reads, in order of
// first appearance.
func (p Phase) References() ([]string, error) {
	tmpl, err := template.New(p.Name).Parse(p.User)
	if err != nil {
		return nil, fmt.Errorf("parse user template: %w", err)
	}

	var refs []string
	seen := make(map[string]bool)
	walkNodes(tmpl.Root, func(n parse.Node) {
		field, ok := n.(*parse.FieldNode)
		if !ok || len(field.Ident) == 0 {
			return
		}
		name := field.Ident[0]
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
	})
	return refs, nil
}

// walkNodes visits every node in a template parse tree.
func walkNodes(node parse.Node, visit func(parse.Node)) {
	if node == nil {
		return
	}
	visit(node)

	switch n := node.(type) {
	case *parse.ListNode:
		for _, child := range n.Nodes {
			walkNodes(child, visit)
		}
	case *parse.ActionNode:
		walkNodes(n.Pipe, visit)
	case *parse.PipeNode:
		for _, cmd := range n.Cmds {
			walkNodes(cmd, visit)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			walkNodes(arg, visit)
		}
	case *parse.IfNode:
		walkNodes(n.Pipe, visit)
		walkNodes(n.List, visit)
		walkNodes(n.ElseList, visit)
	case *parse.RangeNode:
		walkNodes(n.Pipe, visit)
		walkNodes(n.List, visit)
		walkNodes(n.ElseList, visit)
	case *parse.WithNode:
		walkNodes(n.Pipe, visit)
		walkNodes(n.List, visit)
		walkNodes(n.ElseList, visit)
	}
}

// validatePhases checks that phase names are unique and non-empty, prompts
// are present, and each user template only references phases declared before
// it. This makes the sequential-dependency invariant explicit instead of
// relying on call order alone.
func validatePhases(phases []Phase) error {
	if len(phases) == 0 {
		return &ValidationError{Field: "phases", Message: "at least one phase is required"}
	}

	declared := make(map[string]bool, len(phases))
	for i, p := range phases {
		field := fmt.Sprintf("phases[%d]", i)
		if p.Name != "" {
			field = "phases." + p.Name
		}

		if p.Name == "" {
			return &ValidationError{Field: field, Message: "name is required"}
		}
		if declared[p.Name] {
			return &ValidationError{Field: field, Message: "duplicate phase name"}
		}
		if strings.TrimSpace(p.System) == "" {
			return &ValidationError{Field: field, Message: "system prompt is required"}
		}
		if strings.TrimSpace(p.User) == "" {
			return &ValidationError{Field: field, Message: "user template is required"}
		}

		refs, err := p.References()
		if err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
		for _, ref := range refs {
			if !declared[ref] {
				return &ValidationError{
					Field:   field,
					Message: fmt.Sprintf("references %q, which is not declared earlier in the chain", ref),
				}
			}
		}

		declared[p.Name] = true
	}
	return nil
}
