package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parser extracts plain text and link targets from HTML content.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. Standard library extension, well-maintained
type Parser struct {
	// baseURL is the URL used for resolving relative link targets.
	baseURL *url.URL
}

// ParseResult contains the information extracted from an HTML page.
//
// Design decision: We return a result struct filled in a single parsing pass
// rather than separate extraction methods because the crawler always needs
// both the text and the links of a page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Text is the plain text of the page: all text nodes outside of
	// <script> and <style> elements, whitespace-collapsed and
	// NFC-normalized.
	Text string

	// Links contains the href targets of all <a> elements, resolved
	// against the base URL to absolute URLs, in document order.
	// Non-navigable targets (javascript:, mailto:, tel:, data:, "#")
	// are excluded.
	Links []string
}

// NewParser creates an HTML parser that resolves relative links against the
// given base URL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts the title, plain text, and links.
// Malformed HTML does not produce an error; x/net/html recovers and returns
// a best-effort tree, so extraction degrades rather than fails.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Links: make([]string, 0),
	}

	var textContent strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				// Code and stylesheets are not page text.
				return
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveURL(href); resolved != "" {
						result.Links = append(result.Links, resolved)
					}
				}
			}
		case html.TextNode:
			textContent.WriteString(n.Data)
			textContent.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	result.Text = normalizeText(textContent.String())

	return result, nil
}

// normalizeText collapses runs of whitespace to single spaces and applies
// Unicode NFC normalization so that keyword matching is independent of the
// source document's character composition.
func normalizeText(text string) string {
	return norm.NFC.String(strings.Join(strings.Fields(text), " "))
}

// resolveURL resolves a link target against the base URL.
// Targets that don't navigate to a page return an empty string.
//
// Design decision: We resolve URLs at parse time rather than in the Spider
// because:
//  1. Makes deduplication in the visited set straightforward
//  2. The scope filter operates on absolute URL strings
//  3. Reduces ambiguity in results
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return p.baseURL.ResolveReference(u).String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
