package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitegrep/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Its default output is the bare search result listing, suitable for
// piping into other tools; the summary and error sections are opt-in.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables the crawl summary and error sections.
	verbose bool

	// showErrors forces the error section even without verbose.
	showErrors bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the crawl summary and error sections in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithShowErrors shows the per-URL error section even in non-verbose mode.
func WithShowErrors(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showErrors = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeResults(&sb, report)

	if w.verbose {
		w.writeSummary(&sb, report)
	}
	if w.verbose || w.showErrors {
		w.writeErrors(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeResults writes the search result listing.
// The layout is fixed: a "Search results:" header followed by one
// "- <url>" line per match, or "No results found." when nothing matched.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.CrawlReport) {
	if !report.HasResults() {
		sb.WriteString("No results found.\n")
		return
	}

	sb.WriteString("Search results:\n")
	for _, url := range report.Results {
		sb.WriteString(fmt.Sprintf("- %s\n", url))
	}
}

// writeSummary writes the crawl summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Seed:          %s\n", report.Seed))
	if report.ScopeBase != "" {
		sb.WriteString(fmt.Sprintf("  Scope:         %s\n", report.ScopeBase))
	}
	sb.WriteString(fmt.Sprintf("  Keyword:       %s\n", report.Keyword))
	sb.WriteString(fmt.Sprintf("  URLs visited:  %d\n", report.URLsVisited))
	sb.WriteString(fmt.Sprintf("  Pages indexed: %d\n", report.PagesIndexed))
	sb.WriteString(fmt.Sprintf("  Pages skipped: %d\n", report.PagesSkipped))
	sb.WriteString(fmt.Sprintf("  Matches:       %d\n", len(report.Results)))
	sb.WriteString(fmt.Sprintf("  Duration:      %s\n", report.Duration.Round(time.Millisecond)))
}

// writeErrors writes the per-URL error section.
func (w *SimpleWriter) writeErrors(sb *strings.Builder, report *model.CrawlReport) {
	if !report.HasErrors() {
		return
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ERRORS (%d)\n", len(report.Errors)))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, e := range report.Errors {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", e.Stage, e.URL))
		sb.WriteString(fmt.Sprintf("      %s\n", e.Message))
	}
}
