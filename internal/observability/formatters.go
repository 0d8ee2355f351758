// Package observability provides formatted output utilities for verbose CLI
// mode. The analysis core emits data and events; rendering happens here.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/prPMDev/elevateli/internal/pipeline"
	"github.com/prPMDev/elevateli/internal/types"
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

// PrintProgress renders one pipeline event as a single log-style line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	var detail string
	switch {
	case event.Section != "":
		detail = string(event.Section)
		if event.ItemCount > 0 {
			detail = fmt.Sprintf("%s (%d items)", detail, event.ItemCount)
		}
	case event.Message != "":
		detail = event.Message
	case event.QualityScore != nil:
		detail = fmt.Sprintf("quality %.1f/10", *event.QualityScore)
	case event.Completeness != nil:
		detail = fmt.Sprintf("completeness %d%%", *event.Completeness)
	}

	if detail == "" {
		fmt.Fprintf(p.out, "[%s]\n", event.State)
		return
	}
	fmt.Fprintf(p.out, "[%s] %s\n", event.State, detail)
}

// PrintSnapshot outputs a per-section summary of what extraction found.
func (p *Printer) PrintSnapshot(snap *types.Snapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder
	for _, sec := range types.SectionOrder {
		result := snap.Get(sec)
		mark := "✗"
		if result.Exists {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-16s", mark, sec.Label()))
		if result.Exists {
			switch {
			case result.TotalCount > result.VisibleCount:
				sb.WriteString(fmt.Sprintf(" %d of %d shown", result.VisibleCount, result.TotalCount))
			case result.TotalCount > 0:
				sb.WriteString(fmt.Sprintf(" %d items", result.TotalCount))
			case result.CharCount > 0:
				sb.WriteString(fmt.Sprintf(" %d chars", result.CharCount))
			}
		}
		sb.WriteString("\n")
	}

	p.printBox("PROFILE SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompleteness outputs the completeness score and the top gaps.
func (p *Printer) PrintCompleteness(result *types.CompletenessResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100\n", result.Score))

	if len(result.Recommendations) > 0 {
		sb.WriteString("\nBiggest gaps:\n")
		count := min(len(result.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := result.Recommendations[i]
			sb.WriteString(fmt.Sprintf("  • %s (+%.1f%%)\n", rec.Message, rec.ImpactPercent))
		}
		if len(result.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Recommendations)-maxItemsToShow))
		}
	}

	p.printBox("COMPLETENESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuality outputs the quality score, any cap that applied, and the
// highest-urgency recommendations.
func (p *Printer) PrintQuality(result *types.QualityResult, fromCache bool) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %.1f/10", result.OverallScore))
	if fromCache {
		sb.WriteString("  (cached)")
	}
	if result.Degraded {
		sb.WriteString("  (degraded: analysis unavailable)")
	}
	sb.WriteString("\n")

	for _, missing := range result.MissingCritical {
		sb.WriteString(fmt.Sprintf("Capped at %d: %s is missing\n", missing.CappedAt, missing.Section.Label()))
	}

	if result.Recommendations != nil {
		urgent := append(append([]string{}, result.Recommendations.Critical...), result.Recommendations.High...)
		if len(urgent) > 0 {
			sb.WriteString("\nDo first:\n")
			count := min(len(urgent), maxItemsToShow)
			for i := 0; i < count; i++ {
				sb.WriteString(fmt.Sprintf("  • %s\n", urgent[i]))
			}
		}
	}

	if result.Insights != nil && len(result.Insights.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		count := min(len(result.Insights.Strengths), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Insights.Strengths[i]))
		}
	}

	p.printBox("QUALITY", strings.TrimSuffix(sb.String(), "\n"))
}
