// Package model defines the core data structures used throughout sitegrep.
//
// This package contains the following main types:
//   - Page: Represents a crawled web page with extracted text
//   - CrawlReport: The result of one crawl-and-search run
//   - CrawlError: A non-fatal per-URL error record
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, index, report) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
package model
