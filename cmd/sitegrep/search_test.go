package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sitegrep/internal/config"
	"github.com/nao1215/sitegrep/internal/report"
)

// newTestSite starts an HTTP server with a small two-page site.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>Welcome KEYword here <a href="/about">About</a></body></html>`)) //nolint:errcheck
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>About page, nothing to see</body></html>`)) //nolint:errcheck
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runSearchCommand executes the CLI with the given args.
func runSearchCommand(args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"search"}, args...))
	return cmd.Execute()
}

// TestSearchCmdEndToEnd tests the full crawl-and-search flow over HTTP.
func TestSearchCmdEndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("matches are listed in plain format", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		outFile := filepath.Join(t.TempDir(), "out.txt")

		if err := runSearchCommand("keyword", server.URL, "--depth", "0", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}

		want := "Search results:\n- " + server.URL + "\n"
		if string(content) != want {
			t.Errorf("expected %q, got %q", want, string(content))
		}
	})

	t.Run("follows links before searching", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		outFile := filepath.Join(t.TempDir(), "out.txt")

		if err := runSearchCommand("about page", server.URL, "--depth", "1", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}

		want := "Search results:\n- " + server.URL + "/about\n"
		if string(content) != want {
			t.Errorf("expected %q, got %q", want, string(content))
		}
	})

	t.Run("no matches prints no-results message", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		outFile := filepath.Join(t.TempDir(), "out.txt")

		if err := runSearchCommand("nonexistent-term", server.URL, "--depth", "0", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}

		if string(content) != "No results found.\n" {
			t.Errorf("expected no-results message, got %q", string(content))
		}
	})

	t.Run("json report carries crawl statistics", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		outFile := filepath.Join(t.TempDir(), "out.json")

		if err := runSearchCommand("keyword", server.URL, "--depth", "1", "-j", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}

		var wrapped report.JSONReport
		if err := json.Unmarshal(content, &wrapped); err != nil {
			t.Fatalf("expected valid JSON report: %v", err)
		}
		if wrapped.Version == "" {
			t.Error("expected version in JSON report")
		}
		if wrapped.Report == nil {
			t.Fatal("expected wrapped crawl report")
		}
		if wrapped.Report.Seed != server.URL {
			t.Errorf("expected seed %q, got %q", server.URL, wrapped.Report.Seed)
		}
		if wrapped.Report.URLsVisited != 2 {
			t.Errorf("expected 2 visited URLs, got %d", wrapped.Report.URLsVisited)
		}
		if wrapped.Report.PagesIndexed != 2 {
			t.Errorf("expected 2 indexed pages, got %d", wrapped.Report.PagesIndexed)
		}
		if len(wrapped.Report.Results) != 1 {
			t.Errorf("expected 1 result, got %v", wrapped.Report.Results)
		}
	})

	t.Run("markdown report renders sections", func(t *testing.T) {
		t.Parallel()

		server := newTestSite(t)
		outFile := filepath.Join(t.TempDir(), "out.md")

		if err := runSearchCommand("keyword", server.URL, "--depth", "0", "-m", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}

		for _, want := range []string{"# Crawl Report", "## Search Results", server.URL} {
			if !strings.Contains(string(content), want) {
				t.Errorf("expected markdown output to contain %q", want)
			}
		}
	})

	t.Run("unreachable seed is reported but not fatal", func(t *testing.T) {
		t.Parallel()

		outFile := filepath.Join(t.TempDir(), "out.txt")

		// Port 1 refuses connections; the per-URL failure lands in the
		// report and the command still succeeds.
		if err := runSearchCommand("keyword", "http://127.0.0.1:1", "-o", outFile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		if string(content) != "No results found.\n" {
			t.Errorf("expected empty result listing, got %q", string(content))
		}
	})
}

// TestSearchCmdValidation tests argument and flag validation.
func TestSearchCmdValidation(t *testing.T) {
	t.Parallel()

	t.Run("requires keyword and url", func(t *testing.T) {
		t.Parallel()

		if err := runSearchCommand("only-keyword"); err == nil {
			t.Error("expected error for missing URL argument")
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		err := runSearchCommand("kw", "https://example.com", "-j", "-m")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects negative depth", func(t *testing.T) {
		t.Parallel()

		err := runSearchCommand("kw", "https://example.com", "--depth", "-1")
		if !errors.Is(err, config.ErrInvalidMaxDepth) {
			t.Errorf("expected ErrInvalidMaxDepth, got %v", err)
		}
	})

	t.Run("rejects missing explicit config file", func(t *testing.T) {
		t.Parallel()

		err := runSearchCommand("kw", "https://example.com", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected missing config error, got %v", err)
		}
	})
}

// TestSearchCmdSiteConfig tests that per-site settings from the config file
// are applied to the crawl.
func TestSearchCmdSiteConfig(t *testing.T) {
	t.Parallel()

	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Team")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>configured crawl</body></html>`)) //nolint:errcheck
	}))
	defer server.Close()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, ".sitegrep")
	host := config.SeedHost(server.URL)
	cfgContent := "sites:\n  \"" + host + "\":\n    headers:\n      X-Team: search\n"
	if err := os.WriteFile(cfgFile, []byte(cfgContent), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	outFile := filepath.Join(dir, "out.txt")
	if err := runSearchCommand("configured", server.URL, "-c", cfgFile, "-o", outFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotHeader != "search" {
		t.Errorf("expected per-site header to be sent, got %q", gotHeader)
	}

	content, err := os.ReadFile(outFile) //nolint:gosec // test-owned temp path
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	want := "Search results:\n- " + server.URL + "\n"
	if string(content) != want {
		t.Errorf("expected %q, got %q", want, string(content))
	}
}
