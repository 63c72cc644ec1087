// Package main provides the chainplan CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/promptops/chainplan"
	"github.com/promptops/chainplan/history"
	"github.com/promptops/chainplan/internal/config"
	"github.com/promptops/chainplan/llm"
)

var (
	version = "dev"
)

const banner = "================================================================================"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "product":
		productCmd(args)
	case "conference":
		conferenceCmd(args)
	case "run":
		runCmd(args)
	case "validate":
		validateCmd(args)
	case "history":
		historyCmd(args)
	case "version":
		fmt.Printf("chainplan %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chainplan - Sequential Prompt Chain Runner

Usage:
  chainplan <command> [options]

Commands:
  product     Run the built-in interview-platform product planning chain
  conference  Run the built-in conference planning chain
  run         Run a chain from a .chain.yaml file
  validate    Validate a .chain.yaml file
  history     List recorded runs
  version     Print version information
  help        Show this help message

Examples:
  chainplan product
  chainplan conference "AI in Education" "Austin, TX" "May 4-6, 2027" "educators"
  chainplan run plan.chain.yaml
  chainplan history --limit 5

Configuration is read from the environment: OPENAI_API_KEY, OPENAI_BASE_URL,
CHAINPLAN_MODEL, CHAINPLAN_TEMPERATURE, CHAINPLAN_MAX_TOKENS, USE_GROQ.

Run 'chainplan <command> --help' for more information on a command.`)
}

// runOptions are the flags shared by the chain-running subcommands.
type runOptions struct {
	outputDir string
	noHistory bool
	dbPath    string
	timeout   time.Duration
}

func addRunFlags(fs *flag.FlagSet) *runOptions {
	opts := &runOptions{}
	fs.StringVar(&opts.outputDir, "output", ".", "Directory to write the report file to")
	fs.BoolVar(&opts.noHistory, "no-history", false, "Skip recording the run in the history database")
	fs.StringVar(&opts.dbPath, "db", chainplan.DefaultHistoryPath(), "History database path")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Minute, "Maximum execution time")
	return opts
}

// productCmd runs the built-in interview-platform planning chain. It takes
// no positional arguments; configuration comes from the environment.
func productCmd(args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	opts := addRunFlags(fs)
	fs.Usage = func() {
		fmt.Println(`Usage: chainplan product [options]

Run the built-in five-phase interview-platform product planning chain
(research, analysis, blueprint, technical, review).

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	chain := &chainplan.Chain{
		Name:   "product",
		Phases: chainplan.ProductPlanPhases(),
	}
	reportFile := chainplan.TimestampFilename("product_plan", time.Now())

	execute(chain, execution{
		title:      "Interview Platform Product Planning",
		reportFile: reportFile,
		opts:       opts,
	})
}

// conferenceCmd runs the built-in conference planning chain. Up to four
// positional arguments override the defaults: topic, location, dates,
// audience.
func conferenceCmd(args []string) {
	fs := flag.NewFlagSet("conference", flag.ExitOnError)
	opts := addRunFlags(fs)
	fs.Usage = func() {
		fmt.Println(`Usage: chainplan conference [options] [topic] [location] [dates] [audience]

Run the built-in five-phase conference planning chain (strategy, speakers,
agenda, logistics, marketing). Omitted arguments fall back to defaults.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	plan := chainplan.DefaultConferencePlan()
	if fs.NArg() > 0 {
		plan.Topic = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		plan.Location = fs.Arg(1)
	}
	if fs.NArg() > 2 {
		plan.Dates = fs.Arg(2)
	}
	if fs.NArg() > 3 {
		plan.Audience = fs.Arg(3)
	}

	chain := &chainplan.Chain{
		Name:   "conference",
		Phases: chainplan.ConferencePhases(plan),
	}

	execute(chain, execution{
		title:      fmt.Sprintf("Conference Planning: %s", plan.Topic),
		topic:      plan.Topic,
		reportFile: chainplan.TopicFilename("conference_plan", plan.Topic),
		details: [][2]string{
			{"Topic", plan.Topic},
			{"Type", plan.Type},
			{"Target Audience", plan.Audience},
			{"Location", plan.Location},
			{"Dates", plan.Dates},
			{"Expected Attendees", fmt.Sprintf("%d", plan.Attendees)},
		},
		opts: opts,
	})
}

// runCmd executes a chain from a .chain.yaml file.
func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	opts := addRunFlags(fs)
	fs.Usage = func() {
		fmt.Println(`Usage: chainplan run <file.chain.yaml> [options]

Run a chain from a declarative .chain.yaml file.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: no .chain.yaml file specified")
		fs.Usage()
		os.Exit(1)
	}

	file := fs.Arg(0)
	cf, err := chainplan.ParseChainFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", file, err)
		os.Exit(1)
	}

	chain := &chainplan.Chain{
		Name:   cf.Name,
		Phases: cf.Phases,
	}

	title := cf.Description
	if title == "" {
		title = fmt.Sprintf("Chain: %s", cf.Name)
	}

	execute(chain, execution{
		title:      title,
		reportFile: chainplan.TimestampFilename(cf.Name, time.Now()),
		opts:       opts,
	})
}

// validateCmd validates a .chain.yaml file without executing it.
func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show detailed validation results")
	fs.Usage = func() {
		fmt.Println(`Usage: chainplan validate <file.chain.yaml> [options]

Validate a .chain.yaml file without executing it.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: no .chain.yaml file specified")
		fs.Usage()
		os.Exit(1)
	}

	file := fs.Arg(0)
	cf, err := chainplan.ParseChainFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("File: %s\n", file)
		fmt.Printf("Name: %s\n", cf.Name)
		if cf.Description != "" {
			fmt.Printf("Description: %s\n", cf.Description)
		}
		fmt.Printf("Phases (%d):\n", len(cf.Phases))
		for i, p := range cf.Phases {
			refs, _ := p.References()
			if len(refs) > 0 {
				fmt.Printf("  %d. %s (reads: %s)\n", i+1, p.Name, strings.Join(refs, ", "))
			} else {
				fmt.Printf("  %d. %s\n", i+1, p.Name)
			}
		}
	}

	fmt.Printf("Valid: %s\n", file)
}

// historyCmd lists recorded runs, or shows one run's outputs.
func historyCmd(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", chainplan.DefaultHistoryPath(), "History database path")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	fs.Usage = func() {
		fmt.Println(`Usage: chainplan history [options] [run-id]

List recorded runs, newest first. With a run ID, print that run's phase
outputs.

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	store, err := history.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if fs.NArg() > 0 {
		run, err := store.GetRun(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s (%s) - %s\n", run.ID, run.Chain, run.Status)
		fmt.Printf("Model: %s  Started: %s\n", run.Model, run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.Error != "" {
			fmt.Printf("Error: %s\n", run.Error)
		}
		for i, out := range run.Outputs {
			fmt.Printf("\n[%d] %s\n%s\n", i+1, out.Phase, out.Output)
		}
		return
	}

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	for _, r := range runs {
		topic := r.Topic
		if topic != "" {
			topic = " " + topic
		}
		fmt.Printf("%s  %-12s %-9s %s%s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Chain, r.Status, r.ID, topic)
	}
}

// execution bundles everything needed to run a chain end to end.
type execution struct {
	title      string
	topic      string
	reportFile string
	details    [][2]string
	opts       *runOptions
}

// execute validates configuration, runs the chain with console output,
// records the run, and writes the report on success. Configuration failures
// and fatal chain errors terminate the process with a non-zero exit.
func execute(chain *chainplan.Chain, exec execution) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}
	cfg.Export()

	chain.Client = llm.NewOpenAI(
		llm.WithAPIKey(cfg.APIKey),
		llm.WithBaseURL(cfg.BaseURL),
		llm.WithModel(cfg.Model),
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
	)

	fmt.Println(banner)
	fmt.Println(exec.title)
	fmt.Println(banner)
	fmt.Println(cfg.Summary())
	fmt.Println()

	total := len(chain.Phases)
	chain.OnPhaseStart = func(p chainplan.Phase, i int) {
		fmt.Println(banner)
		fmt.Printf("PHASE %d/%d: %s\n", i+1, total, strings.ToUpper(p.Name))
		fmt.Println(banner)
	}
	chain.OnPhaseComplete = func(p chainplan.Phase, i int, output string) {
		fmt.Println(output)
		fmt.Println()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, exec.opts.timeout)
	defer cancel()

	startedAt := time.Now()
	store, runErr := chain.Run(ctx)

	if !exec.opts.noHistory {
		recordRun(chain, exec, cfg.Model, startedAt, store, runErr)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, banner)
		fmt.Fprintf(os.Stderr, "Chain execution failed: %v\n", runErr)
		fmt.Fprintln(os.Stderr, banner)
		if chainplan.IsRateLimit(runErr) {
			fmt.Fprintln(os.Stderr, "The request quota was exceeded. Wait for the limit to reset,")
			fmt.Fprintln(os.Stderr, "upgrade the API tier, or use a different API key.")
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
		}
		os.Exit(1)
	}

	report := &chainplan.Report{
		Title:   exec.title,
		Model:   cfg.Model,
		Details: exec.details,
	}
	reportPath := exec.reportFile
	if exec.opts.outputDir != "" && exec.opts.outputDir != "." {
		if err := os.MkdirAll(exec.opts.outputDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		reportPath = filepath.Join(exec.opts.outputDir, exec.reportFile)
	}
	if err := report.WriteFile(reportPath, chain.Phases, store); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(banner)
	fmt.Println("Chain execution completed successfully.")
	fmt.Printf("Report saved to %s\n", reportPath)
	fmt.Println(banner)
}

// recordRun saves the run (including partial outputs on failure) to the
// history database. History problems are reported but never fail the run.
func recordRun(chain *chainplan.Chain, exec execution, model string, startedAt time.Time, store *chainplan.Store, runErr error) {
	if err := chainplan.EnsureHome(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create home directory: %v\n", err)
		return
	}
	hs, err := history.Open(exec.opts.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return
	}
	defer hs.Close()

	run := history.Run{
		Chain:      chain.Name,
		Topic:      exec.topic,
		Model:      model,
		Status:     history.StatusCompleted,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	for _, name := range store.Names() {
		run.Outputs = append(run.Outputs, history.PhaseOutput{
			Phase:  name,
			Output: store.MustGet(name),
		})
	}

	if id, err := hs.SaveRun(run); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
	} else {
		fmt.Printf("Run recorded as %s\n", id)
	}
}
