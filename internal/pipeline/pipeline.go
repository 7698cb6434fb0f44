// Package pipeline orchestrates one scrape run: listing fetch, table
// discovery and normalization, deduplication, then politeness-throttled
// detail enrichment behind a consecutive-failure circuit breaker.
//
// Only the listing fetch can fail the run. Detail-page failures are soft:
// the affected records keep empty prize data and an unset EV, and enough
// of them in a row stops further enrichment entirely.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pwhitehead/lotto-luck/internal/game"
	"github.com/pwhitehead/lotto-luck/internal/logger"
)

// DefaultDelay is the politeness pause between detail-page fetches.
const DefaultDelay = time.Second

// Fetcher is the network collaborator driven by a run.
type Fetcher interface {
	// Listing returns the normalized records from a region's listing page.
	Listing(ctx context.Context, region string) ([]*game.Record, error)

	// PrizeTiers returns the prize table of one game's detail page.
	PrizeTiers(ctx context.Context, url string) ([]game.PrizeTier, error)
}

// Options configures one run.
type Options struct {
	Region string

	// Delay is the pause between detail fetches; DefaultDelay when zero,
	// negative disables it.
	Delay time.Duration

	// FailureThreshold overrides the breaker's default when positive.
	FailureThreshold int

	// MaxDetails caps how many detail pages are attempted. 0 = no cap.
	MaxDetails int

	// SkipDetails leaves every record unenriched.
	SkipDetails bool

	Log *logger.Logger
}

// Result is the outcome of one run.
type Result struct {
	// Records in dedup order: the order rows first appeared in the listing.
	Records []*game.Record

	Attempted     int
	Enriched      int
	BreakerOpened bool
}

// Run executes one scrape run. The returned error is non-nil only when the
// listing itself could not be fetched; everything after that degrades
// instead of failing. Cancelling ctx stops enrichment and returns the
// records built so far.
func Run(ctx context.Context, f Fetcher, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = logger.Default()
	}

	records, err := f.Listing(ctx, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	if len(records) == 0 {
		log.Warn("no data tables matched on the listing page", logger.Fields{
			"region": opts.Region,
		})
	}

	records = game.Deduplicate(records)
	log.Info("listing scraped", logger.Fields{
		"region": opts.Region,
		"games":  len(records),
	})

	res := &Result{Records: records}
	if opts.SkipDetails {
		return res, nil
	}

	delay := opts.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	br := NewBreaker(opts.FailureThreshold)
	for _, rec := range records {
		if ctx.Err() != nil {
			log.Warn("run cancelled, keeping partial enrichment", logger.Fields{
				"enriched": res.Enriched,
			})
			break
		}
		if br.Open() {
			break
		}
		if rec.DetailURL == "" {
			continue
		}
		if opts.MaxDetails > 0 && res.Attempted >= opts.MaxDetails {
			break
		}

		res.Attempted++
		tiers, err := f.PrizeTiers(ctx, rec.DetailURL)
		switch {
		case err != nil:
			log.Error("detail fetch failed", logger.Fields{"url": rec.DetailURL}, err)
			res.noteFailure(br, log)
		case len(tiers) == 0:
			log.Warn("prize table empty", logger.Fields{"url": rec.DetailURL})
			res.noteFailure(br, log)
		default:
			br.Success()
			rec.Enrich(tiers)
			res.Enriched++
			logger.IncrCounter("pipeline.enriched")
		}

		// Politeness pause before the next fetch; pointless once the
		// breaker is open because no further fetches happen.
		if !br.Open() && delay > 0 {
			sleep(ctx, delay)
		}
	}

	res.BreakerOpened = br.Open()
	log.Info("run complete", logger.Fields{
		"region":         opts.Region,
		"games":          len(records),
		"enriched":       res.Enriched,
		"attempted":      res.Attempted,
		"breaker_opened": res.BreakerOpened,
	})
	return res, nil
}

// noteFailure feeds the breaker and emits the single threshold warning.
func (r *Result) noteFailure(br *Breaker, log *logger.Logger) {
	logger.IncrCounter("pipeline.detail_failures")
	if br.Failure() {
		log.Warn("stopping detail enrichment after repeated failures, remaining games keep no prize data", nil)
	}
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
