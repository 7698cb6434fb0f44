package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pwhitehead/lotto-luck/internal/cache"
	"github.com/pwhitehead/lotto-luck/internal/logger"
	"github.com/pwhitehead/lotto-luck/internal/pipeline"
	"github.com/pwhitehead/lotto-luck/internal/scraper"
	"github.com/pwhitehead/lotto-luck/internal/storage"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitDegraded = 2
)

// ErrDegraded signals that the scrape finished and output was written, but
// the detail-page circuit breaker opened so some records lack prize data.
var ErrDegraded = errors.New("detail fetching halted early")

var (
	flagRegion      string
	flagDataDir     string
	flagFormat      string
	flagCached      bool
	flagRefresh     bool
	flagNoDetails   bool
	flagMaxDetails  int
	flagDelay       time.Duration
	flagTimeout     time.Duration
	flagPostgresDSN string
	flagRedisAddr   string
	flagCacheTTL    time.Duration
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lotto-luck",
		Short: "Scrape scratch-off lottery data and compute prize-weighted expected values",
		Long: `Scrapes a region's public scratch-off listing, follows each game's detail
page to collect remaining prize inventory, and computes the true expected
value of a ticket from what is actually left to win. Results are persisted
as JSON and CSV snapshots and printed to stdout.`,
		RunE:          runScrape,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVar(&flagRegion, "region", "", fmt.Sprintf("Region code (%s) (required)", strings.Join(scraper.Regions(), ", ")))
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/lotto-luck", "Data directory for snapshots")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json, or csv")
	cmd.Flags().BoolVar(&flagCached, "cached", false, "Serve the stored snapshot without scraping")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Scrape fresh data, bypassing the Redis cache")
	cmd.Flags().BoolVar(&flagNoDetails, "no-details", false, "Skip detail pages (no prize data or true EV)")
	cmd.Flags().IntVar(&flagMaxDetails, "max-details", 0, "Max detail pages to fetch (0 = all)")
	cmd.Flags().DurationVar(&flagDelay, "delay", pipeline.DefaultDelay, "Pause between detail-page fetches")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 10*time.Minute, "Overall run deadline (0 = none)")
	cmd.Flags().StringVar(&flagPostgresDSN, "postgres-dsn", "", "Also upsert records into this Postgres database")
	cmd.Flags().StringVar(&flagRedisAddr, "redis-addr", "", "Redis address for snapshot caching (e.g. localhost:6379)")
	cmd.Flags().DurationVar(&flagCacheTTL, "cache-ttl", cache.DefaultTTL, "How long cached snapshots stay fresh")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and metrics output")

	cmd.MarkFlagRequired("region")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	region := strings.ToUpper(strings.TrimSpace(flagRegion))
	if _, ok := scraper.RegionSlug(region); !ok {
		return fmt.Errorf("unsupported region %q (supported: %s)", flagRegion, strings.Join(scraper.Regions(), ", "))
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json', or 'csv')", flagFormat)
	}

	if flagCached && flagRefresh {
		return fmt.Errorf("--cached and --refresh are mutually exclusive")
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
	log := logger.Default()

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	ctx := context.Background()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	var snapCache *cache.SnapshotCache
	if flagRedisAddr != "" {
		snapCache = cache.New(flagRedisAddr, flagCacheTTL)
		defer snapCache.Close()
	}

	if flagCached {
		snap, err := loadStored(ctx, store, snapCache, region, log)
		if err != nil {
			return err
		}
		return WriteOutput(os.Stdout, snap, format, flagVerbose)
	}

	if snapCache != nil && !flagRefresh {
		snap, err := snapCache.Get(ctx, region)
		if err != nil {
			log.Warn("redis cache unavailable, scraping instead", logger.Fields{"addr": flagRedisAddr})
		} else if snap != nil {
			log.Info("serving cached snapshot", logger.Fields{
				"region":     region,
				"scraped_at": snap.ScrapedAt,
			})
			return WriteOutput(os.Stdout, snap, format, flagVerbose)
		}
	}

	res, err := pipeline.Run(ctx, scraper.New(), pipeline.Options{
		Region:      region,
		Delay:       flagDelay,
		MaxDetails:  flagMaxDetails,
		SkipDetails: flagNoDetails,
		Log:         log,
	})
	if err != nil {
		return err
	}

	snap := storage.NewSnapshot(region, res.Records)
	if err := store.Save(snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if err := store.SaveCSV(region, res.Records); err != nil {
		log.Warn("CSV export failed", logger.Fields{"path": store.CSVPath(region)})
	}

	if snapCache != nil {
		if err := snapCache.Set(ctx, snap); err != nil {
			log.Warn("failed to cache snapshot", logger.Fields{"addr": flagRedisAddr})
		}
	}

	if flagPostgresDSN != "" {
		pg, err := storage.OpenPostgres(flagPostgresDSN)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.UpsertRecords(ctx, res.Records); err != nil {
			return fmt.Errorf("writing records to postgres: %w", err)
		}
		log.Info("records upserted to postgres", logger.Fields{"count": len(res.Records)})
	}

	if err := WriteOutput(os.Stdout, snap, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagVerbose {
		log.Debug("run metrics", logger.Fields{"metrics": logger.MetricsSnapshot()})
	}

	if res.BreakerOpened {
		// Returned rather than exiting here so deferred cleanup runs;
		// Execute maps it to the degraded exit code.
		return ErrDegraded
	}
	return nil
}

// loadStored serves a previously persisted snapshot, preferring the Redis
// cache over the on-disk copy.
func loadStored(ctx context.Context, store *storage.Storage, snapCache *cache.SnapshotCache, region string, log *logger.Logger) (*storage.Snapshot, error) {
	if snapCache != nil {
		snap, err := snapCache.Get(ctx, region)
		if err != nil {
			log.Warn("redis cache unavailable, falling back to disk", nil)
		} else if snap != nil {
			return snap, nil
		}
	}

	snap, err := store.Load(region)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("no stored snapshot for %s; run without --cached first", region)
	}
	return snap, nil
}

// exitCode maps a command error onto the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDegraded):
		return ExitDegraded
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrDegraded) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if code := exitCode(err); code != ExitSuccess {
		os.Exit(code)
	}
}
