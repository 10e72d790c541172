package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Page represents a single crawled web page.
// It holds the response metadata and the plain text extracted from the HTML
// body, which is what the full-text index stores and searches.
type Page struct {
	// URL is the absolute URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	// Note that the crawler does not interpret status codes: an error page
	// served with an HTML content type is indexed like any other page.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type declared in the Content-Type header.
	ContentType string `json:"content_type"`

	// Title is the page title extracted from the <title> tag.
	// Empty for pages without one.
	Title string `json:"title,omitempty"`

	// Text is the plain text extracted from the HTML body.
	// Limited to MaxTextSize bytes to prevent memory issues.
	Text string `json:"text,omitempty"`

	// Hash is the SHA-256 hash of the raw response body.
	// Used for change detection between crawl runs of the same process.
	Hash string `json:"hash,omitempty"`
}

// MaxTextSize is the maximum size of extracted page text in bytes.
// Pages larger than this are truncated before indexing.
const MaxTextSize = 512 * 1024 // 512 KB

// ComputeHash calculates and sets the SHA-256 hash of the given raw body.
func (p *Page) ComputeHash(raw []byte) {
	if len(raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// IsHTML returns true if the page content type indicates HTML.
// Content types may carry a charset suffix (e.g. "text/html; charset=utf-8"),
// so we match on the prefix rather than the full value.
func (p *Page) IsHTML() bool {
	return IsHTMLContentType(p.ContentType)
}

// IsHTMLContentType reports whether a Content-Type header value indicates
// an HTML document.
func IsHTMLContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html") ||
		strings.HasPrefix(contentType, "application/xhtml+xml")
}

// TruncateText ensures the extracted text doesn't exceed MaxTextSize.
// Call this after setting Text to enforce the size limit.
func (p *Page) TruncateText() {
	if len(p.Text) > MaxTextSize {
		p.Text = p.Text[:MaxTextSize]
	}
}
