package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request HTTP timeout. Five seconds is
	// generous for a single page on the public web; a crawl that needs
	// more per page is usually better served by a smaller depth.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxDepth of 3 keeps crawls of typical sites bounded while
	// still reaching most navigable content. Depth 0 fetches only the
	// seed page. Larger sites may need this increased via CLI flags.
	DefaultMaxDepth = 3

	// DefaultBatchSize of 4 concurrent seeds balances throughput with
	// politeness when crawling multiple sites in one invocation. Each
	// individual site crawl remains strictly sequential.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sitegrep"

	// DefaultUserAgent identifies sitegrep in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "sitegrep/1.0 (+https://github.com/nao1215/sitegrep)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for sitegrep.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Seeds is the list of URLs to start crawling from.
	// Must contain at least one http(s) URL.
	Seeds []string

	// Keyword is the search term queried against the full-text index
	// after the crawl completes. Matching is a case-insensitive
	// substring test. An empty keyword matches nothing.
	Keyword string

	// ScopeBase is an optional URL prefix bounding the crawl.
	// When empty, each crawl is scoped to its seed's host.
	ScopeBase string

	// MaxDepth is the maximum recursion depth for web crawling.
	// Depth 0 means only fetch the seed page.
	// Higher values find more content but take longer and use more resources.
	MaxDepth int

	// Timeout is the HTTP timeout for each page request.
	// This applies to individual requests, not the overall crawl duration.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// BatchSize is the number of concurrent crawls when multiple seeds are
	// given. Each seed gets its own independent crawler and index; only
	// the scheduling across seeds is concurrent.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// When true, outputs the full crawl report as JSON.
	// When false, outputs the plain search result listing (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. When true, outputs GitHub Flavored Markdown with tables and
	// alerts. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitegrep in the current directory,
	// the user's home directory, and the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config
	// file. This is populated by LoadConfigFile and consulted per seed host.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for sitegrep.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/sitegrep
// On macOS: ~/Library/Application Support/sitegrep
// On Windows: %APPDATA%\sitegrep
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for sitegrep.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/sitegrep
// On macOS: ~/Library/Caches/sitegrep
// On Windows: %LOCALAPPDATA%\sitegrep\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one seed to crawl
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Depth must be non-negative; 0 means seed page only
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	// BatchSize must be positive; zero would mean no crawling
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// A non-empty scope base must be an absolute http(s) URL prefix
	if c.ScopeBase != "" {
		u, err := url.Parse(c.ScopeBase)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidScopeBase
		}
	}

	return nil
}

// SeedHost returns the host portion of a seed URL for site-config lookup.
// An unparsable seed returns an empty string; Validate and the crawler
// report the real error later.
func SeedHost(seed string) string {
	u, err := url.Parse(strings.TrimSpace(seed))
	if err != nil {
		return ""
	}
	return u.Host
}
