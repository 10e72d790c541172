// Package index provides the in-memory full-text index built during a crawl
// and queried afterwards.
//
// The index maps URLs to the plain text extracted from their pages and
// answers case-insensitive substring keyword queries, returning matches in
// the order pages were indexed.
//
// Design decision: We keep this package free of crawling concerns so the
// crawler and the index can be tested independently and so a future
// replacement (e.g. an inverted index) only has to preserve this package's
// observable behavior.
package index
