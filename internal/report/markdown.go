package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitegrep/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeResults(md, report)
	w.writeErrors(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Report")
	md.PlainText("")

	scope := report.ScopeBase
	if scope == "" {
		scope = "seed host"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + report.Seed + "`"},
			{"Scope", "`" + scope + "`"},
			{"Keyword", "`" + report.Keyword + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

// writeSummary writes the crawl statistics section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"URLs visited", strconv.Itoa(report.URLsVisited)},
			{"Pages indexed", strconv.Itoa(report.PagesIndexed)},
			{"Pages skipped (non-HTML)", strconv.Itoa(report.PagesSkipped)},
			{"Errors", strconv.Itoa(len(report.Errors))},
			{"**Matches**", "**" + strconv.Itoa(len(report.Results)) + "**"},
		},
	})
	md.PlainText("")

	if report.URLsVisited > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of per-URL outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if report.PagesIndexed > 0 {
		chart.LabelAndIntValue("Indexed", uint64(report.PagesIndexed))
	}
	if report.PagesSkipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(report.PagesSkipped))
	}
	if len(report.Errors) > 0 {
		chart.LabelAndIntValue("Failed", uint64(len(report.Errors)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the crawl outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	switch {
	case report.PagesIndexed == 0:
		md.Warningf("No pages were indexed. Check the seed URL and crawl scope.")
	case report.HasErrors():
		md.Importantf(
			"%d URL(s) failed during the crawl; results may be incomplete.",
			len(report.Errors),
		)
	case !report.HasResults():
		md.Note("The crawl completed but no page matched the keyword.")
	default:
		md.Tip(fmt.Sprintf("%d page(s) matched the keyword.", len(report.Results)))
	}
	md.PlainText("")
}

// writeResults writes the search result listing.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Search Results")
	md.PlainText("")

	if !report.HasResults() {
		md.PlainText("No results found.")
		md.PlainText("")
		return
	}

	md.BulletList(report.Results...)
	md.PlainText("")
}

// writeErrors writes the per-URL error table.
func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.CrawlReport) {
	if !report.HasErrors() {
		return
	}

	md.H2("Errors")
	md.PlainText("")

	rows := make([][]string, len(report.Errors))
	for i, e := range report.Errors {
		rows[i] = []string{
			"`" + e.URL + "`",
			string(e.Stage),
			truncateString(e.Message, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Stage", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitegrep](https://github.com/nao1215/sitegrep)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
