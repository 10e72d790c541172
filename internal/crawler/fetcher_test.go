package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHTTPFetcherFetch tests the HTTP transport layer.
func TestHTTPFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns status, content type, and body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("<html>tea</html>")) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client())
		resp, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.StatusCode != http.StatusTeapot {
			t.Errorf("expected status 418, got %d", resp.StatusCode)
		}
		if resp.ContentType != "text/html; charset=utf-8" {
			t.Errorf("unexpected content type: %q", resp.ContentType)
		}
		if string(resp.Body) != "<html>tea</html>" {
			t.Errorf("unexpected body: %q", resp.Body)
		}
	})

	t.Run("sends the configured user agent and headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotLang string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotLang = r.Header.Get("Accept-Language")
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client(),
			WithUserAgent("custom-agent/2.0"),
			WithHeaders(map[string]string{"Accept-Language": "ja"}),
		)
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotUA != "custom-agent/2.0" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
		if gotLang != "ja" {
			t.Errorf("expected Accept-Language header, got %q", gotLang)
		}
	})

	t.Run("caps the response body at the size limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(strings.Repeat("x", 1024))) //nolint:errcheck
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(server.Client(), WithMaxBodySize(100))
		resp, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(resp.Body) != 100 {
			t.Errorf("expected body capped at 100 bytes, got %d", len(resp.Body))
		}
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close() // closed before use

		fetcher := NewHTTPFetcher(http.DefaultClient)
		if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error for a closed server")
		}
	})

	t.Run("rejects an invalid URL", func(t *testing.T) {
		t.Parallel()

		fetcher := NewHTTPFetcher(http.DefaultClient)
		if _, err := fetcher.Fetch(context.Background(), "://invalid"); err == nil {
			t.Error("expected error for invalid URL")
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := NewHTTPFetcher(server.Client())
		if _, err := fetcher.Fetch(ctx, server.URL); err == nil {
			t.Error("expected error for canceled context")
		}
	})
}
