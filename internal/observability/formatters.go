// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/types"
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

// PrintRankingPlan outputs the batch layout a run was scheduled with.
func (p *Printer) PrintRankingPlan(total, batchSize, waveWidth int, sequential bool) {
	var sb strings.Builder

	batches := (total + batchSize - 1) / batchSize
	sb.WriteString(fmt.Sprintf("Candidates:  %d\n", total))
	sb.WriteString(fmt.Sprintf("Batches:     %d (size %d)\n", batches, batchSize))
	if sequential {
		sb.WriteString("Mode:        sequential\n")
	} else {
		sb.WriteString(fmt.Sprintf("Mode:        waves of %d\n", waveWidth))
	}

	p.printBox("RANKING PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatches outputs the top ranked candidates with scores.
func (p *Printer) PrintMatches(matches []types.Match) {
	if len(matches) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		name := "(name unavailable)"
		if m.FullName != nil {
			name = *m.FullName
		}
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %d", m.MatchScore))
		if m.IsFallback {
			sb.WriteString(" (manual review)")
		}
		sb.WriteString("\n")
		if len(m.Strengths) > 0 {
			strengths := strings.Join(m.Strengths, ", ")
			if len(strengths) > 40 {
				strengths = strengths[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Strengths: %s\n", strengths))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(matches)-maxItemsToShow))
	}

	p.printBox("TOP MATCHES", sb.String())
}

// PrintAggregate outputs the run totals and the persistence report.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAggregate(agg ranking.Aggregate, report ranking.UpdateReport) {
	if agg.Total == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CANDIDATES TO RANK")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyzed:       %d\n", agg.Matched))
	sb.WriteString(fmt.Sprintf("Manual review:  %d\n", agg.Unmatched))
	sb.WriteString(fmt.Sprintf("Total:          %d\n", agg.Total))
	if report.Applied > 0 || report.Failed > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Profile updates: %d applied, %d failed", report.Applied, report.Failed))
	}

	p.printBox("RANKING SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExtractedFields outputs the fields produced by an extraction pass.
func (p *Printer) PrintExtractedFields(fields *types.ExtractedFields) {
	if fields == nil || fields.Empty() {
		return
	}

	var sb strings.Builder
	row := func(label string, value *string) {
		if value != nil {
			sb.WriteString(fmt.Sprintf("%-10s %s\n", label+":", *value))
		}
	}
	row("Name", fields.FullName)
	row("Email", fields.Email)
	row("Phone", fields.PhoneNumber)
	row("Location", fields.Location)
	row("Title", fields.JobTitle)
	if fields.YearsOfExperience != nil {
		sb.WriteString(fmt.Sprintf("%-10s %d\n", "Years:", *fields.YearsOfExperience))
	}

	p.printBox("EXTRACTED FIELDS", strings.TrimSuffix(sb.String(), "\n"))
}
