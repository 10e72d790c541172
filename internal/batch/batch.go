package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/sitegrep/internal/model"
	"golang.org/x/sync/errgroup"
)

// CrawlFunc crawls a single seed and returns its report.
// A returned error means the seed itself was unusable; per-URL problems
// are recorded inside the report instead.
type CrawlFunc func(ctx context.Context, seed string) (*model.CrawlReport, error)

// Processor handles concurrent crawling of multiple seeds.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We take a CrawlFunc rather than a crawler instance
// because each seed needs a fresh crawler and index. The function boundary
// keeps this package free of crawler construction details and makes the
// processor trivial to test.
type Processor struct {
	// crawl produces the report for one seed.
	crawl CrawlFunc

	// concurrency is the maximum number of concurrent seed crawls.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger for batch processing.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent seed crawls.
// Default is 4 if not specified.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewProcessor creates a new Processor.
func NewProcessor(crawl CrawlFunc, opts ...Option) *Processor {
	p := &Processor{
		crawl:       crawl,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Process crawls multiple seeds concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each seed gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// The returned slice has one entry per seed in input order; entries for
// seeds whose crawl could not even start are nil. A failed seed never
// aborts the others; the error return indicates cancellation only.
func (p *Processor) Process(ctx context.Context, seeds []string) ([]*model.CrawlReport, error) {
	p.logger.Info("starting batch crawl",
		"total_seeds", len(seeds),
		"concurrency", p.concurrency,
	)

	startTime := time.Now()

	results := make([]*model.CrawlReport, len(seeds))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			p.logger.Info("crawling seed",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			report, err := p.crawl(ctx, seed)
			if err != nil {
				p.logger.Warn("crawl failed",
					"seed", seed,
					"error", err,
				)
				// Continue with the remaining seeds; the slot stays nil.
				return nil
			}

			mu.Lock()
			results[i] = report
			mu.Unlock()

			p.logger.Info("crawl completed", "seed", seed)
			return nil
		})
	}

	err := g.Wait()

	p.logger.Info("batch crawl complete",
		"total_seeds", len(seeds),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// ProcessWithCallback crawls multiple seeds and calls a callback for each
// finished seed. This is useful for streaming results.
//
// The callback receives the seed, its report (nil when the crawl could not
// start), the seed's index in the original slice, and the seed-level error.
// The callback is called from the goroutine that finished the crawl, so it
// should be thread-safe if it accesses shared state.
func (p *Processor) ProcessWithCallback(
	ctx context.Context,
	seeds []string,
	callback func(seed string, report *model.CrawlReport, index int, err error),
) error {
	p.logger.Info("starting batch crawl with callback",
		"total_seeds", len(seeds),
		"concurrency", p.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, err := p.crawl(ctx, seed)
			callback(seed, report, i, err)
			return nil
		})
	}

	return g.Wait()
}
