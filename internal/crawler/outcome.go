package crawler

import "github.com/nao1215/sitegrep/internal/model"

// OutcomeKind classifies what happened while processing one URL.
type OutcomeKind int

// Per-URL processing outcomes.
const (
	// OutcomeIndexed means the page was fetched, was HTML, parsed, and its
	// text was stored in the index.
	OutcomeIndexed OutcomeKind = iota

	// OutcomeFetchFailed means the fetch failed at the transport level.
	// The URL stays marked visited and is not retried.
	OutcomeFetchFailed

	// OutcomeSkippedContent means the fetch succeeded but the declared
	// content type was not HTML, so the page was neither indexed nor
	// followed for links.
	OutcomeSkippedContent

	// OutcomeParseFailed means the HTML body could not be parsed.
	OutcomeParseFailed
)

// String returns a short human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIndexed:
		return "indexed"
	case OutcomeFetchFailed:
		return "fetch-failed"
	case OutcomeSkippedContent:
		return "content-skipped"
	case OutcomeParseFailed:
		return "parse-failed"
	default:
		return "unknown"
	}
}

// Outcome is the per-URL result delivered to the Reporter.
//
// Design decision: The crawler reports outcomes through a sink instead of
// raising errors because no single-page problem may abort the crawl. The
// caller decides what to collect; the Spider only guarantees that every
// visited URL produces exactly one Outcome once it's past the visited check.
type Outcome struct {
	// URL is the URL that was processed.
	URL string

	// Kind classifies the result.
	Kind OutcomeKind

	// ContentType is the declared content type of the response, when a
	// response was received.
	ContentType string

	// Page holds the indexed page's metadata and text.
	// Only set for OutcomeIndexed.
	Page *model.Page

	// Err carries the underlying error for fetch and parse failures.
	Err error
}

// Reporter receives per-URL crawl outcomes.
// Implementations must not block for long; they run inline with the crawl.
type Reporter interface {
	// Report delivers one per-URL outcome.
	Report(outcome Outcome)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Outcome)

// Report calls the wrapped function.
func (f ReporterFunc) Report(outcome Outcome) {
	f(outcome)
}
