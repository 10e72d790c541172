package index

import (
	"strings"
	"sync"
)

// Index is an in-memory full-text index mapping URLs to extracted page text.
// Entries are kept in insertion order, which is the order pages were
// successfully crawled, and are never updated or removed: the crawler visits
// each URL at most once, and the first recorded text wins.
//
// Design decision: We keep a plain url -> text map plus an insertion-order
// slice rather than building an inverted index because the index is small,
// lives only for the process lifetime, and is queried a handful of times.
// A linear scan per query is simpler and fast enough.
type Index struct {
	// mu guards texts and order. A single crawl is strictly sequential,
	// but searches may be issued while another independent crawl run on
	// the same Index is still in flight.
	mu sync.RWMutex

	// texts maps a URL to the plain text extracted from its page.
	texts map[string]string

	// order records URLs in insertion order for deterministic results.
	order []string
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		texts: make(map[string]string),
		order: make([]string, 0),
	}
}

// Add stores the extracted text for a URL.
// If the URL is already present the call is a no-op: entries are immutable
// once inserted.
func (idx *Index) Add(url, text string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, ok := idx.texts[url]; ok {
		return
	}
	idx.texts[url] = text
	idx.order = append(idx.order, url)
}

// Search returns the URLs whose page text contains the keyword,
// case-insensitively, in the order the pages were indexed.
//
// An empty keyword returns an empty result rather than an error.
// This is a deliberately permissive contract: a degenerate query simply
// matches nothing.
func (idx *Index) Search(keyword string) []string {
	results := make([]string, 0)
	if keyword == "" {
		return results
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	needle := strings.ToLower(keyword)
	for _, url := range idx.order {
		if strings.Contains(strings.ToLower(idx.texts[url]), needle) {
			results = append(results, url)
		}
	}
	return results
}

// Has reports whether a URL is present in the index.
func (idx *Index) Has(url string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.texts[url]
	return ok
}

// Text returns the stored text for a URL and whether the URL is indexed.
func (idx *Index) Text(url string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	text, ok := idx.texts[url]
	return text, ok
}

// Len returns the number of indexed pages.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.order)
}

// URLs returns all indexed URLs in insertion order.
// The returned slice is a copy; mutating it does not affect the index.
func (idx *Index) URLs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	urls := make([]string, len(idx.order))
	copy(urls, idx.order)
	return urls
}
