package crawler

import (
	"net/url"

	"github.com/PuerkitoBio/purell"
)

// normalizeFlags are the purell normalization rules applied to URLs before
// visited-set lookups. Only semantics-preserving transformations are used:
// a normalized URL always refers to the same resource as the original.
const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment

// normalizeURL normalizes a URL for visited-set deduplication.
//
// Design decision: We normalize because the same page can have different URL
// representations: fragments don't change content, scheme and host are
// case-insensitive, and http://example.com and http://example.com/ are the
// same resource. Without this, trivial URL variations would defeat the
// at-most-one-fetch-per-URL guarantee.
func normalizeURL(rawURL string) string {
	normalized, err := purell.NormalizeURLString(rawURL, normalizeFlags)
	if err != nil {
		return rawURL
	}

	// purell leaves an empty path alone; treat it as the root path so that
	// http://example.com and http://example.com/ dedupe to one entry.
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
