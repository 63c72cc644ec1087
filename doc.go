// Package chainplan runs sequential prompt chains against a chat-completion API.
//
// A chain is an ordered list of named phases. Each phase has a fixed system
// prompt and a user-message template that may interpolate earlier phases'
// outputs by name. Phases execute strictly in order; each result is stored
// under the phase name and becomes available to later phases.
//
// # Quick Start
//
// Define phases and run a chain:
//
//	client := llm.NewOpenAI(llm.WithAPIKey(key), llm.WithModel("gpt-4o-mini"))
//
//	chain := &chainplan.Chain{
//	    Name:   "plan",
//	    Client: client,
//	    Phases: []chainplan.Phase{
//	        {Name: "research", System: "You are a market analyst.", User: "Survey the market."},
//	        {Name: "analysis", System: "You are a product analyst.", User: "Findings:\n{{.research}}\n\nIdentify opportunities."},
//	    },
//	}
//
//	store, err := chain.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(store.MustGet("analysis"))
//
// # Retry Behavior
//
// Rate-limit responses (HTTP 429, or errors whose message mentions a rate
// limit) are retried up to RetryPolicy.MaxAttempts with a wait derived from
// the error: the retry-after header if present, a "Please try again in
// <duration>" hint parsed from the message, or a 60-second default. All other
// errors fail the chain immediately.
//
// # Declarative Chains
//
// Chains can be loaded from .chain.yaml files with ParseChainFile. The parser
// validates that each phase only references outputs of phases declared before
// it.
//
// # Components
//
//   - Phase: one step with a name, a system prompt, and a user template
//   - Store: append-only record of phase outputs, in execution order
//   - Chain: the sequential runner with retry and observer callbacks
//   - llm: OpenAI-compatible chat-completion client
//   - history: SQLite record of past runs for diagnostics
package chainplan
