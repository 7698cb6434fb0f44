package scraper

import (
	"strings"
	"time"

	"github.com/pwhitehead/lotto-luck/internal/coerce"
	"github.com/pwhitehead/lotto-luck/internal/game"
)

// Ranked header-name candidates per record field. Order matters: an exact
// match on any candidate beats a substring match on an earlier one.
var (
	nameHeaders         = []string{"game", "scratch-off", "ticket", "name", "title"}
	priceHeaders        = []string{"ticket price", "price", "cost"}
	oddsHeaders         = []string{"overall odds", "odds"}
	topPrizeHeaders     = []string{"top prize", "largest prize", "jackpot"}
	topRemainingHeaders = []string{"top prizes remaining", "remaining top prizes", "top remaining"}
	allRemainingHeaders = []string{"prizes remaining", "total prizes remaining", "remaining prizes"}
	gameNumberHeaders   = []string{"game number", "number", "no.", "id", "game #"}
)

// pick returns the first non-empty cell whose header matches a candidate,
// trying exact header names first and case-insensitive substring containment
// second. Cells are scanned in document order so ties resolve the same way
// on every run.
func (r tableRow) pick(candidates []string) string {
	for _, c := range candidates {
		for _, cl := range r.cells {
			if cl.header == c && cl.text != "" {
				return cl.text
			}
		}
	}
	for _, c := range candidates {
		for _, cl := range r.cells {
			if strings.Contains(cl.header, c) && cl.text != "" {
				return cl.text
			}
		}
	}
	return ""
}

// normalizeRow maps one raw table row onto a game record. Fields whose
// headers match nothing, or whose text fails to parse, stay unset.
func normalizeRow(r tableRow, region string, scrapedAt time.Time) *game.Record {
	rec := game.NewRecord(region, scrapedAt)
	rec.DetailURL = r.detailURL

	if v := r.pick(nameHeaders); v != "" {
		rec.Name = &v
	}
	if v, ok := coerce.Money(r.pick(priceHeaders)); ok {
		rec.Price = &v
	}
	if v, ok := coerce.Odds(r.pick(oddsHeaders)); ok {
		rec.OverallOdds = &v
	}
	if v, ok := coerce.Money(r.pick(topPrizeHeaders)); ok {
		rec.TopPrize = &v
	}
	if v, ok := coerce.Int(r.pick(topRemainingHeaders)); ok {
		rec.TopRemaining = &v
	}
	if v, ok := coerce.Int(r.pick(allRemainingHeaders)); ok {
		rec.AllRemaining = &v
	}

	// The game number often only appears embedded in the name text.
	numText := r.pick(gameNumberHeaders)
	if numText == "" && rec.Name != nil {
		numText = *rec.Name
	}
	if v, ok := coerce.Int(numText); ok {
		rec.GameNumber = &v
	}

	return rec
}
