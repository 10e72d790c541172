// Package crawler provides the bounded same-site web crawler that feeds the
// full-text index.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawl. Starting from a seed URL it fetches pages, records their extracted
// text in the index, discovers links, and recurses depth-first over the
// in-scope ones. The call stack is the frontier: traversal is depth-first,
// left-to-right in document order.
//
// Design decision: We implement our own crawler rather than using a
// third-party library because:
//  1. The scope and termination rules (literal prefix scope, depth bound
//     checked before marking visited) are precise and easy to get wrong
//     through a generic crawler's configuration surface
//  2. The crawl is deliberately single-threaded and synchronous; a worker
//     pool would only add synchronization for no benefit at this scale
//  3. Reduces external dependencies and potential security issues
//
// # Components
//
//   - Spider: The crawler; owns the visited set and the index
//   - Parser: HTML parser that extracts plain text and link targets
//   - Fetcher: The transport boundary, satisfied by HTTPFetcher in
//     production and by in-memory fakes in tests
//
// # Error handling
//
// Per-URL problems never abort a crawl. Every fetch, content-type, or parse
// outcome is delivered to a caller-supplied Reporter; failures additionally
// produce a log line keyed by the offending URL. Crawl itself only returns
// an error for an unusable seed URL.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher, crawler.WithMaxDepth(3))
//	if err := spider.Crawl(ctx, "https://example.com"); err != nil {
//		return err
//	}
//	matches := spider.Search("keyword")
package crawler
