package crawler

import (
	"context"
	"io"
	"net/http"
)

// Response is the raw result of fetching one URL.
// The Spider only consumes the content type and the body; status codes are
// recorded but deliberately not interpreted, so an error page served with an
// HTML content type is indexed like any other page.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the value of the Content-Type response header.
	ContentType string

	// Body is the response body, capped at the fetcher's size limit.
	Body []byte
}

// Fetcher retrieves the content of a URL.
// It is the transport boundary of the crawler: production code uses
// HTTPFetcher, tests substitute in-memory implementations.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response.
	// A returned error means a transport-level failure (DNS, connect,
	// timeout); HTTP error statuses are not errors at this boundary.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher fetches URLs over HTTP using a standard http.Client.
//
// Design decision: We require an external client rather than constructing one
// because:
//  1. The caller owns the timeout policy (the client's Timeout field)
//  2. Tests can pass an httptest server's client
//  3. A shared client reuses connections across the whole crawl
type HTTPFetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// headers are extra headers applied to every request.
	headers map[string]string
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.maxBodySize = size
	}
}

// WithHeaders sets extra HTTP headers sent with every request.
func WithHeaders(headers map[string]string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// NewHTTPFetcher creates an HTTPFetcher using the given client.
// The client should already carry the desired request timeout.
func NewHTTPFetcher(client *http.Client, opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		userAgent:   "sitegrep/1.0 (+https://github.com/nao1215/sitegrep)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the URL and returns the response metadata and body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
