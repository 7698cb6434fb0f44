package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pwhitehead/lotto-luck/internal/coerce"
	"github.com/pwhitehead/lotto-luck/internal/game"
	"github.com/pwhitehead/lotto-luck/internal/logger"
)

// ErrNoPrizeTable reports a detail page with no recognizable prize table.
// Callers treat it as a soft failure, not a run-level error.
var ErrNoPrizeTable = errors.New("no prize table found")

var prizeHeaderPattern = regexp.MustCompile(`(?i)prize`)

// PrizeTiers fetches a game's detail page and extracts its prize table as
// (value, remaining, is-ticket) tiers, in table order. Rows without a
// parsable remaining count are dropped.
func (s *Scraper) PrizeTiers(ctx context.Context, detailURL string) ([]game.PrizeTier, error) {
	start := time.Now()
	doc, err := s.fetch(ctx, detailURL)
	logger.RecordTiming("scrape.detail", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching detail page: %w", err)
	}
	logger.IncrCounter("scrape.detail.fetched")

	tbl := findPrizeTable(doc)
	if tbl == nil {
		return nil, ErrNoPrizeTable
	}

	tiers := make([]game.PrizeTier, 0)
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		prizeCell := tr.Find(`td[data-title="Prize"]`).First()
		remCell := tr.Find(`td[data-title="Remaining"]`).First()

		// Rows lacking both tagged cells are header or decoration rows.
		// Markup without data-title tagging would need a positional
		// fallback here instead; the current site always tags.
		if prizeCell.Length() == 0 || remCell.Length() == 0 {
			return
		}

		remaining, ok := coerce.Int(coerce.Whitespace(remCell.Text()))
		if !ok {
			return
		}

		prizeText := coerce.Whitespace(prizeCell.Text())
		value, _ := coerce.Money(prizeText) // unparsable prize text counts as 0
		lower := strings.ToLower(prizeText)

		tiers = append(tiers, game.PrizeTier{
			Value:     value,
			Remaining: remaining,
			IsTicket:  strings.Contains(lower, "ticket") || strings.Contains(lower, "free"),
		})
	})

	return tiers, nil
}

// findPrizeTable returns the first table carrying a cell tagged as the
// Prize column, or failing that a header cell textually matching "Prize".
func findPrizeTable(doc *goquery.Document) *goquery.Selection {
	var target *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		if tbl.Find(`td[data-title="Prize"]`).Length() > 0 {
			target = tbl
			return false
		}
		matched := false
		tbl.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
			if prizeHeaderPattern.MatchString(th.Text()) {
				matched = true
				return false
			}
			return true
		})
		if matched {
			target = tbl
			return false
		}
		return true
	})
	return target
}
