// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-agent/internal/ratelimit"
	"github.com/jonathan/job-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatches outputs a human-readable summary of scored matches, best
// first.
func (p *Printer) PrintMatches(matches []types.MatchResult) {
	if len(matches) == 0 {
		p.printBox("Matches", "No matches found.")
		return
	}

	var sb strings.Builder
	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		match := matches[i]
		sb.WriteString(fmt.Sprintf("%d. %s  score %.2f\n", i+1, match.JobID, match.Score))
		sb.WriteString(fmt.Sprintf("   overlap %.2f  similarity %.2f\n", match.SkillOverlapRatio, match.SemanticSimilarity))
		if len(match.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("   missing: %s\n", strings.Join(match.MissingSkills, ", ")))
		}
	}
	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(matches)-maxItemsToShow))
	}

	p.printBox("Matches", strings.TrimRight(sb.String(), "\n"))
}

// PrintRunState outputs a human-readable summary of a run's final state.
func (p *Printer) PrintRunState(state *types.RunState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", state.RunID))
	sb.WriteString(fmt.Sprintf("Jobs:     %d found, %d matched\n", len(state.Jobs), len(state.Matches)))

	if state.Decision != "" {
		sb.WriteString(fmt.Sprintf("Decision: %s\n", state.Decision))
		if state.DecisionRationale != "" {
			sb.WriteString(fmt.Sprintf("Reason:   %s\n", state.DecisionRationale))
		}
	}
	if state.ApplicationID != "" {
		sb.WriteString(fmt.Sprintf("Tracked:  %s\n", state.ApplicationID))
	}
	if state.Failure != nil {
		sb.WriteString(fmt.Sprintf("Failed:   %s (%s)\n", state.Failure.Stage, state.Failure.Message))
	}

	p.printBox("Run Summary", strings.TrimRight(sb.String(), "\n"))
}

// PrintApplications outputs a human-readable list of tracked applications.
func (p *Printer) PrintApplications(apps []types.Application) {
	if len(apps) == 0 {
		p.printBox("Applications", "No applications tracked.")
		return
	}

	var sb strings.Builder
	for _, app := range apps {
		sb.WriteString(fmt.Sprintf("%s  %s  score %.2f  %s\n",
			app.CreatedAt.Format("2006-01-02"), app.JobID, app.MatchScore, app.Status))
	}

	p.printBox("Applications", strings.TrimRight(sb.String(), "\n"))
}

// PrintRateBudget outputs the remaining application slots per window.
func (p *Printer) PrintRateBudget(remaining map[ratelimit.Kind]int) {
	if len(remaining) == 0 {
		return
	}

	var sb strings.Builder
	for _, kind := range ratelimit.Kinds {
		if left, ok := remaining[kind]; ok {
			sb.WriteString(fmt.Sprintf("%-5s %d remaining\n", kind, left))
		}
	}

	p.printBox("Rate Budget", strings.TrimRight(sb.String(), "\n"))
}
