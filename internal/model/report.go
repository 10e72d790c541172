package model

import "time"

// CrawlStage identifies the processing stage at which a per-URL error
// occurred. Both fetch failures and parse failures funnel through the same
// reporting channel, so the stage is recorded on the error itself.
type CrawlStage string

// Crawl stages for error records.
const (
	// StageFetch covers transport failures: DNS, connect, timeout, TLS.
	StageFetch CrawlStage = "fetch"

	// StageParse covers HTML parse failures.
	StageParse CrawlStage = "parse"
)

// CrawlError records a non-fatal error that occurred while processing one URL.
// Errors never abort the crawl; they only appear in the report and the log.
type CrawlError struct {
	// URL is the offending URL.
	URL string `json:"url"`

	// Stage is the processing stage that failed.
	Stage CrawlStage `json:"stage"`

	// Message is the human-readable error message.
	Message string `json:"message"`
}

// CrawlReport is the result of one crawl-and-search run over a single seed.
// It is what the report writers consume.
//
// Design decision: We separate the report structure from the Spider so that
// multiple output formats (text, JSON, Markdown) can be generated from the
// same data without re-crawling.
type CrawlReport struct {
	// Seed is the URL the crawl started from.
	Seed string `json:"seed"`

	// ScopeBase is the URL prefix that bounded the crawl.
	// Empty when the crawl was scoped to the seed's host instead.
	ScopeBase string `json:"scope_base,omitempty"`

	// Keyword is the search keyword queried against the index.
	Keyword string `json:"keyword"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total wall-clock time of the crawl.
	Duration time.Duration `json:"duration"`

	// URLsVisited is the number of unique URLs dequeued for processing,
	// including ones that failed to fetch or were skipped as non-HTML.
	URLsVisited int `json:"urls_visited"`

	// PagesIndexed is the number of pages stored in the full-text index.
	PagesIndexed int `json:"pages_indexed"`

	// PagesSkipped is the number of fetched URLs skipped for having a
	// non-HTML content type.
	PagesSkipped int `json:"pages_skipped"`

	// Errors holds all per-URL errors encountered during the crawl.
	Errors []CrawlError `json:"errors,omitempty"`

	// Results are the URLs whose page text matched the keyword,
	// in the order the pages were indexed.
	Results []string `json:"results"`
}

// NewCrawlReport creates a CrawlReport for the given seed and keyword.
func NewCrawlReport(seed, keyword string) *CrawlReport {
	return &CrawlReport{
		Seed:      seed,
		Keyword:   keyword,
		StartedAt: time.Now(),
		Errors:    make([]CrawlError, 0),
		Results:   make([]string, 0),
	}
}

// AddError appends a per-URL error record to the report.
func (r *CrawlReport) AddError(url string, stage CrawlStage, err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, CrawlError{
		URL:     url,
		Stage:   stage,
		Message: err.Error(),
	})
}

// HasResults reports whether the search matched any page.
func (r *CrawlReport) HasResults() bool {
	return len(r.Results) > 0
}

// HasErrors reports whether any per-URL error occurred during the crawl.
func (r *CrawlReport) HasErrors() bool {
	return len(r.Errors) > 0
}
