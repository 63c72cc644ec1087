package chainplan

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	reportRule    = "================================================================================"
	sectionRule   = "--------------------------------------------------------------------------------"
	timestampForm = "20060102_150405"
)

// Report renders the aggregate text report for a completed run: a title
// banner, run metadata, then every phase's output in order, each preceded by
// its section header.
type Report struct {
	// Title is printed in the report banner
	Title string

	// Model is the model identifier the run used
	Model string

	// Details are ordered key-value lines printed under the banner (optional)
	Details [][2]string

	// Generated is the run completion time (zero means now)
	Generated time.Time
}

// Render builds the report text. Every phase must have an output in the
// store; a report is only produced for a fully successful run.
func (r *Report) Render(phases []Phase, store *Store) (string, error) {
	generated := r.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	var b strings.Builder
	fmt.Fprintln(&b, reportRule)
	fmt.Fprintln(&b, r.Title)
	fmt.Fprintln(&b, reportRule)
	fmt.Fprintf(&b, "Generated: %s\n", generated.Format("2006-01-02 15:04:05"))
	if r.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n", r.Model)
	}
	for _, kv := range r.Details {
		fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
	}

	for i, phase := range phases {
		output, ok := store.Get(phase.Name)
		if !ok {
			return "", &PhaseError{Phase: phase.Name, Err: fmt.Errorf("no output recorded")}
		}
		fmt.Fprintf(&b, "\n%s\n", sectionRule)
		fmt.Fprintf(&b, "PHASE %d: %s\n", i+1, strings.ToUpper(phase.Name))
		fmt.Fprintf(&b, "%s\n", sectionRule)
		fmt.Fprintf(&b, "%s\n", output)
	}

	return b.String(), nil
}

// WriteFile renders the report and writes it to path. The file is only
// created once rendering has fully succeeded.
func (r *Report) WriteFile(path string, phases []Phase, store *Store) error {
	text, err := r.Render(phases, store)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// TimestampFilename derives a report filename qualified by a run timestamp,
// e.g. "product_plan_20260315_091500.txt".
func TimestampFilename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.txt", prefix, t.Format(timestampForm))
}

// TopicFilename derives a report filename qualified by the planning topic,
// e.g. "conference_plan_ai_in_healthcare.txt".
func TopicFilename(prefix, topic string) string {
	return fmt.Sprintf("%s_%s.txt", prefix, slugify(topic))
}

// slugify lowercases a topic and reduces it to [a-z0-9_] for use in a
// filename.
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
