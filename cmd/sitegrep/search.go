package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/sitegrep/internal/batch"
	"github.com/nao1215/sitegrep/internal/config"
	"github.com/nao1215/sitegrep/internal/crawler"
	"github.com/nao1215/sitegrep/internal/log"
	"github.com/nao1215/sitegrep/internal/model"
	"github.com/nao1215/sitegrep/internal/report"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <keyword> <url> [url...]",
		Short: "Crawl a site and list pages containing a keyword",
		Long: `Search crawls a website starting from the given URL, builds an in-memory
full-text index of every HTML page it visits, and prints the URLs whose
page text contains the keyword. Matching is a case-insensitive substring
test, and results appear in the order pages were crawled.

The crawl is depth-first and stays within a scope: by default the seed
URL's host, or an explicit URL prefix given with --scope. Non-HTML
responses are skipped, and pages that fail to load are reported without
aborting the crawl.

Examples:
  # Crawl a site and search for a keyword
  sitegrep search welcome https://example.com

  # Limit the crawl depth (0 = seed page only)
  sitegrep search --depth 1 pricing https://example.com

  # Restrict the crawl to a URL prefix
  sitegrep search --scope https://example.com/docs install https://example.com/docs/

  # Search several sites in one run
  sitegrep search golang https://blog.example.com https://docs.example.com

  # Output a full JSON report
  sitegrep search --json welcome https://example.com

  # Use a custom configuration file
  sitegrep search -c myconfig.yaml welcome https://example.com

Configuration file (.sitegrep) example:
  sites:
    docs.example.com:
      scope: https://docs.example.com/v2
      depth: 5
      headers:
        Authorization: "Bearer token"
  defaults:
    depth: 3`,
		Args: cobra.MinimumNArgs(2),
		RunE: runSearchCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth (0 = seed page only)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page request")
	cmd.Flags().StringP("scope", "s", "",
		"URL prefix bounding the crawl (default: the seed URL's host)")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Multi-seed flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls when multiple URLs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegrep in current, home, or XDG config directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSearch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// The first positional argument is the keyword, the rest are seed URLs.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.Keyword = args[0]
	cfg.Seeds = args[1:]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ScopeBase, err = cmd.Flags().GetString("scope")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runSearch executes the crawl-and-search run.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting search",
		"seeds", cfg.Seeds,
		"keyword", cfg.Keyword,
		"maxDepth", cfg.MaxDepth,
		"batchSize", cfg.BatchSize,
	)

	// Use batch processing for concurrent crawls if multiple seeds
	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchSearch(ctx, cfg, logger)
	}

	// Single seed or sequential crawling
	return runSequentialSearch(ctx, cfg, logger)
}

// runSequentialSearch crawls seeds one at a time.
func runSequentialSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	multi := len(cfg.Seeds) > 1

	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		crawlReport, err := crawlSeed(ctx, cfg, seed, logger)
		if err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			continue
		}

		if multi {
			fmt.Printf("== %s ==\n", seed)
		}
		if err := outputReport(cfg, crawlReport); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchSearch crawls multiple seeds concurrently.
func runBatchSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	p := batch.NewProcessor(
		func(ctx context.Context, seed string) (*model.CrawlReport, error) {
			return crawlSeed(ctx, cfg, seed, logger)
		},
		batch.WithConcurrency(cfg.BatchSize),
		batch.WithLogger(logger),
	)

	// Serialize report output across crawl goroutines
	var mu sync.Mutex
	return p.ProcessWithCallback(ctx, cfg.Seeds, func(seed string, crawlReport *model.CrawlReport, _ int, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			return
		}

		fmt.Printf("== %s ==\n", seed)
		if err := outputReport(cfg, crawlReport); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	})
}

// crawlSeed crawls a single seed and builds its report.
// Per-URL problems are recorded in the report; a returned error means the
// seed itself was unusable.
func crawlSeed(ctx context.Context, cfg *config.Config, seed string, logger *slog.Logger) (*model.CrawlReport, error) {
	// Site-specific configuration, keyed by the seed's host
	var site config.SiteConfig
	if cfg.SiteConfigs != nil {
		site = cfg.SiteConfigs.GetSiteConfig(config.SeedHost(seed))
	}

	// Site-specific settings override globals
	depth := cfg.MaxDepth
	if site.Depth > 0 {
		depth = site.Depth
	}
	scope := cfg.ScopeBase
	if scope == "" {
		scope = site.Scope
	}
	userAgent := cfg.UserAgent
	if site.UserAgent != "" {
		userAgent = site.UserAgent
	}

	fetcherOpts := []crawler.HTTPFetcherOption{
		crawler.WithUserAgent(userAgent),
	}
	if cfg.MaxBodySize > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithMaxBodySize(cfg.MaxBodySize))
	}
	if len(site.Headers) > 0 {
		fetcherOpts = append(fetcherOpts, crawler.WithHeaders(site.Headers))
	}

	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := crawler.NewHTTPFetcher(client, fetcherOpts...)

	crawlReport := model.NewCrawlReport(seed, cfg.Keyword)
	crawlReport.ScopeBase = scope

	// The reporter runs inline with the crawl, which is single-threaded,
	// so appending to the report needs no locking.
	reporter := crawler.ReporterFunc(func(o crawler.Outcome) {
		switch o.Kind {
		case crawler.OutcomeFetchFailed:
			crawlReport.AddError(o.URL, model.StageFetch, o.Err)
		case crawler.OutcomeParseFailed:
			crawlReport.AddError(o.URL, model.StageParse, o.Err)
		}
	})

	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxDepth(depth),
		crawler.WithReporter(reporter),
		crawler.WithLogger(logger),
	}
	if scope != "" {
		spiderOpts = append(spiderOpts, crawler.WithScopeBase(scope))
	}

	spider := crawler.NewSpider(fetcher, spiderOpts...)
	if err := spider.Crawl(ctx, seed); err != nil {
		return nil, err
	}

	stats := spider.Stats()
	crawlReport.URLsVisited = stats.URLsVisited
	crawlReport.PagesIndexed = stats.PagesIndexed
	crawlReport.PagesSkipped = stats.PagesSkipped
	crawlReport.Results = spider.Search(cfg.Keyword)
	crawlReport.Duration = time.Since(crawlReport.StartedAt)

	return crawlReport, nil
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions.
		// Crawled content may come from authenticated pages.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output wrapped with version metadata
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(crawlReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(crawlReport)
		return err
	}

	// Human-readable result listing (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(crawlReport)
	return err
}
