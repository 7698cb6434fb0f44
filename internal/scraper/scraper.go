package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/pwhitehead/lotto-luck/internal/game"
	"github.com/pwhitehead/lotto-luck/internal/logger"
)

const (
	// BaseURL is the root of the scraped site.
	BaseURL = "https://www.lottery.net"

	// Timeout bounds a single page fetch.
	Timeout = 30 * time.Second

	// The upstream blocks obvious bots, so requests carry browser-like headers.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// regionSlugs maps region codes to the site's URL path segments.
var regionSlugs = map[string]string{
	"NJ": "new-jersey",
	"NY": "new-york",
	"PA": "pennsylvania",
	"TX": "texas",
	"CA": "california",
	"FL": "florida",
}

// RegionSlug maps a region code like "NJ" to its URL path segment.
func RegionSlug(code string) (string, bool) {
	slug, ok := regionSlugs[strings.ToUpper(code)]
	return slug, ok
}

// Regions returns the supported region codes in sorted order.
func Regions() []string {
	codes := make([]string, 0, len(regionSlugs))
	for code := range regionSlugs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Scraper fetches and parses scratch-off lottery pages.
type Scraper struct {
	client       *http.Client
	baseURL      string
	retryInitial time.Duration
	retries      uint64
	now          func() time.Time
}

// New creates a Scraper against the live site.
func New() *Scraper {
	return &Scraper{
		client:       &http.Client{Timeout: Timeout},
		baseURL:      BaseURL,
		retryInitial: time.Second,
		retries:      2,
		now:          time.Now,
	}
}

// ListingURL builds the listing page URL for a region.
// Unknown region codes are a configuration error.
func (s *Scraper) ListingURL(region string) (string, error) {
	slug, ok := RegionSlug(region)
	if !ok {
		return "", fmt.Errorf("unsupported region %q (supported: %s)",
			region, strings.Join(Regions(), ", "))
	}
	return fmt.Sprintf("%s/%s/scratch-offs", s.baseURL, slug), nil
}

// Listing fetches the region's scratch-off listing page and returns the
// normalized game records found in its data tables, in document order.
// Records too empty to be meaningful are dropped; duplicates are not,
// deduplication is the caller's step.
func (s *Scraper) Listing(ctx context.Context, region string) ([]*game.Record, error) {
	listingURL, err := s.ListingURL(region)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := s.fetchWithRetry(ctx, listingURL)
	logger.RecordTiming("scrape.listing", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching listing %s: %w", listingURL, err)
	}
	logger.IncrCounter("scrape.listing.fetched")

	base, _ := url.Parse(listingURL)
	scrapedAt := s.now()
	region = strings.ToUpper(region)

	records := make([]*game.Record, 0)
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		headers, _ := tableHeaders(tbl)
		if !isListingTable(headers) {
			return
		}
		for _, r := range parseTable(tbl, base) {
			rec := normalizeRow(r, region, scrapedAt)
			if rec.Meaningful() {
				records = append(records, rec)
			}
		}
	})

	return records, nil
}

// isListingTable reports whether a table's headers look like a scratch-off
// listing: something odds-like next to something game-, price-, or
// prize-like.
func isListingTable(headers []string) bool {
	hasOdds, hasGame := false, false
	for _, h := range headers {
		lh := strings.ToLower(h)
		if strings.Contains(lh, "odds") {
			hasOdds = true
		}
		if strings.Contains(lh, "game") || strings.Contains(lh, "price") || strings.Contains(lh, "prize") {
			hasGame = true
		}
	}
	return hasOdds && hasGame
}

// fetchWithRetry fetches a page with capped exponential backoff. Used for
// the listing page only; detail pages get a single attempt each because
// their failures feed the enrichment circuit breaker instead.
func (s *Scraper) fetchWithRetry(ctx context.Context, pageURL string) (*goquery.Document, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInitial

	var doc *goquery.Document
	op := func() error {
		d, err := s.fetch(ctx, pageURL)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.retries), ctx)); err != nil {
		return nil, err
	}
	return doc, nil
}

// fetch retrieves and parses a single page.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", s.baseURL+"/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
