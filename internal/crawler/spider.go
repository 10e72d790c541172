package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/nao1215/sitegrep/internal/index"
	"github.com/nao1215/sitegrep/internal/model"
)

// DefaultMaxDepth is the crawl recursion depth bound used when no option
// overrides it. Depth 0 is the seed page itself.
const DefaultMaxDepth = 3

// Spider crawls pages of a single site and stores their extracted text in an
// in-memory full-text index.
//
// The crawl is strictly single-threaded and depth-first: the frontier is the
// call stack, descending into discovered links left-to-right in document
// order. Termination is guaranteed by two rules: a URL is marked visited
// before it is fetched and never unmarked, and recursion stops past the depth
// bound. Anyone introducing concurrent fetches must keep the visited set's
// at-most-one-fetch-per-URL guarantee intact.
//
// Design decision: We call it "Spider" rather than "Crawler" to distinguish
// the component from the package name: crawler.NewSpider() reads better than
// crawler.NewCrawler().
type Spider struct {
	// fetcher retrieves page content.
	fetcher Fetcher

	// idx is the full-text index populated by the crawl.
	idx *index.Index

	// maxDepth limits how deep to crawl from the starting URL.
	// 0 means only the starting page, 1 means one level of links, etc.
	maxDepth int

	// scopeBase is an optional URL prefix bounding the crawl. When empty,
	// the scope is anchored to the seed URL of each Crawl call.
	scopeBase string

	// reporter receives one Outcome per processed URL.
	reporter Reporter

	// logger records per-URL failures.
	logger *slog.Logger

	// visited tracks normalized URLs already dequeued for processing,
	// regardless of fetch outcome. Entries are never removed.
	visited map[string]bool

	// mutex protects visited and the counters across Reset/Stats calls.
	mutex sync.Mutex

	// skippedCount tracks fetches skipped for non-HTML content.
	skippedCount int
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the starting page, 1 = starting page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithScopeBase fixes the crawl scope to an explicit URL prefix.
// A discovered link is followed only if the scope base is a literal string
// prefix of the link. Without this option the scope is derived from each
// Crawl call's seed: links must be on the seed's host.
func WithScopeBase(base string) SpiderOption {
	return func(s *Spider) {
		s.scopeBase = base
	}
}

// WithReporter sets the sink receiving per-URL outcomes.
func WithReporter(r Reporter) SpiderOption {
	return func(s *Spider) {
		s.reporter = r
	}
}

// WithLogger sets the logger for per-URL failure reporting.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider with an empty visited set and an empty index.
//
// Design decision: The Spider owns both the visited set and the index as
// instance state rather than package-level state so that independent crawl
// runs can coexist and tests don't need global cleanup.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		idx:      index.New(),
		maxDepth: DefaultMaxDepth,
		visited:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Crawl crawls the site starting from the seed URL, populating the index.
//
// The crawl never fails for a single-page problem: transport errors, non-HTML
// responses, and parse failures are reported through the Reporter and logged,
// and the offending page simply contributes nothing. An error is returned
// only when the seed URL itself is unusable.
//
// Repeated calls share the same visited set and index, so re-crawling a seed
// already visited is a no-op.
func (s *Spider) Crawl(ctx context.Context, seedURL string) error {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return fmt.Errorf("invalid seed URL: %w", err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return fmt.Errorf("invalid seed URL %q: scheme must be http or https", seedURL)
	}

	s.crawl(ctx, seed.String(), s.scopeBase, 0)
	return nil
}

// crawl processes one URL and recurses into its in-scope links.
//
// scopeBase is the established crawl scope: the explicit override, or the
// seed URL once the top-level call has descended one level. It is fixed for
// the lifetime of the recursion; only the top-level call may see it empty.
func (s *Spider) crawl(ctx context.Context, pageURL, scopeBase string, depth int) {
	// Termination and dedup. The order matters: checking before marking
	// keeps redundant calls idempotent, and marking before fetching keeps
	// self-referential pages from re-entering during their own link
	// traversal.
	if s.isVisited(pageURL) || depth > s.maxDepth {
		return
	}
	s.markVisited(pageURL)

	resp, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Error("error crawling page", "url", pageURL, "error", err)
		s.report(Outcome{URL: pageURL, Kind: OutcomeFetchFailed, Err: err})
		return
	}

	// Only HTML is indexed and followed. The fetch still counts as a visit.
	if !model.IsHTMLContentType(resp.ContentType) {
		s.logger.Debug("skipping non-HTML content", "url", pageURL, "contentType", resp.ContentType)
		s.addSkipped()
		s.report(Outcome{URL: pageURL, Kind: OutcomeSkippedContent, ContentType: resp.ContentType})
		return
	}

	// Relative links resolve against the established scope base, not the
	// page that contained them; only the top-level call of an unscoped
	// crawl resolves against the page itself.
	resolutionBase := scopeBase
	if resolutionBase == "" {
		resolutionBase = pageURL
	}

	result, err := s.parsePage(resolutionBase, resp.Body)
	if err != nil {
		s.logger.Error("error crawling page", "url", pageURL, "error", err)
		s.report(Outcome{URL: pageURL, Kind: OutcomeParseFailed, Err: err})
		return
	}

	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Title:       result.Title,
		Text:        result.Text,
	}
	page.ComputeHash(resp.Body)
	page.TruncateText()

	// Index before descending so that result order follows the traversal.
	s.idx.Add(pageURL, page.Text)
	s.report(Outcome{URL: pageURL, Kind: OutcomeIndexed, ContentType: resp.ContentType, Page: page})

	// The scope is established by the first call and never changes
	// mid-crawl: descendants inherit the override or the seed.
	childScope := scopeBase
	if childScope == "" {
		childScope = pageURL
	}

	for _, link := range result.Links {
		if !s.inScope(link, scopeBase, pageURL) {
			continue
		}
		s.crawl(ctx, link, childScope, depth+1)
	}
}

// parsePage parses an HTML body, resolving links against the given base.
func (s *Spider) parsePage(baseURL string, body []byte) (*ParseResult, error) {
	parser, err := NewParser(baseURL)
	if err != nil {
		return nil, err
	}
	return parser.Parse(bytes.NewReader(body))
}

// inScope reports whether a discovered link stays within the crawl boundary.
//
// With an established scope base the test is a literal string-prefix match.
// This is intentionally kept as a plain prefix test, not a structural URL
// comparison: a base of "https://example.com" also admits
// "https://example.com.evil.com". Known quirk, preserved as specified
// behavior; see DESIGN.md.
//
// Without a scope base (top-level call only) the link must be on the same
// host[:port] as the seed.
func (s *Spider) inScope(link, scopeBase, seedURL string) bool {
	if scopeBase != "" {
		return strings.HasPrefix(link, scopeBase)
	}
	return sameHost(link, seedURL)
}

// sameHost reports whether two URLs share a network location (host:port).
func sameHost(rawA, rawB string) bool {
	a, err := url.Parse(rawA)
	if err != nil {
		return false
	}
	b, err := url.Parse(rawB)
	if err != nil {
		return false
	}
	return strings.EqualFold(a.Host, b.Host)
}

// Search queries the index built by previous Crawl calls.
// It returns the URLs whose page text contains the keyword,
// case-insensitively, in the order the pages were indexed.
func (s *Spider) Search(keyword string) []string {
	return s.idx.Search(keyword)
}

// Index returns the full-text index owned by this Spider.
func (s *Spider) Index() *index.Index {
	return s.idx
}

// isVisited checks if a URL has been visited.
func (s *Spider) isVisited(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.visited[normalizeURL(pageURL)]
}

// markVisited marks a URL as visited.
func (s *Spider) markVisited(pageURL string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited[normalizeURL(pageURL)] = true
}

// addSkipped increments the non-HTML skip counter.
func (s *Spider) addSkipped() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.skippedCount++
}

// report delivers an outcome to the configured reporter, if any.
func (s *Spider) report(outcome Outcome) {
	if s.reporter != nil {
		s.reporter.Report(outcome)
	}
}

// Reset clears the spider's state, allowing it to be reused for an
// unrelated crawl. The visited set is emptied and a fresh index replaces
// the populated one.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.skippedCount = 0
	s.idx = index.New()
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// URLsVisited is the number of unique URLs dequeued for processing,
	// including failed fetches and non-HTML skips.
	URLsVisited int

	// PagesIndexed is the number of pages stored in the index.
	PagesIndexed int

	// PagesSkipped is the number of fetches skipped for non-HTML content.
	PagesSkipped int
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		URLsVisited:  len(s.visited),
		PagesIndexed: s.idx.Len(),
		PagesSkipped: s.skippedCount,
	}
}
