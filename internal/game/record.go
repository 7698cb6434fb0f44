package game

import (
	"fmt"
	"time"
)

// Source identifies where records were scraped from.
const Source = "lottery_net"

// Sentinels substituted for absent fields when building the dedup key.
// Two distinct games that are both missing price and top prize but share a
// name will collapse under this key; kept here so a future key change is
// local to this file.
const (
	sentinelMoney = -1.0
	sentinelName  = ""
)

// PrizeTier is one row of a detail page's prize table.
type PrizeTier struct {
	Value     float64 `json:"prize"`
	Remaining int     `json:"remaining"`
	IsTicket  bool    `json:"is_ticket"`
}

// Record is one scratch-off game observation, normalized from a listing row.
//
// A Record has two lifecycle phases: it is built once from a listing-page row
// (all fields except the enrichment pair), then optionally enriched exactly
// once via Enrich, which attaches prize tiers and the computed EV. After
// that it is read-only. Optional fields are pointers; nil means the source
// text was absent or unparsable.
type Record struct {
	Region    string `json:"state"`
	Source    string `json:"source"`
	ScrapedAt string `json:"scrape_ts"`

	GameNumber   *int     `json:"game_number"`
	Name         *string  `json:"game_name"`
	Price        *float64 `json:"price"`
	OverallOdds  *float64 `json:"overall_odds_1_in"`
	TopPrize     *float64 `json:"top_prize_amount"`
	TopRemaining *int     `json:"top_prizes_remaining"`
	AllRemaining *int     `json:"all_prizes_remaining"`
	Status       string   `json:"status"`
	DetailURL    string   `json:"detail_url,omitempty"`

	PrizeTiers []PrizeTier `json:"prize_data"`
	TrueEV     *float64    `json:"true_ev"`
}

// NewRecord creates a bare Record with the pipeline-context fields set.
func NewRecord(region string, scrapedAt time.Time) *Record {
	return &Record{
		Region:     region,
		Source:     Source,
		ScrapedAt:  scrapedAt.UTC().Format(time.RFC3339),
		Status:     "active",
		PrizeTiers: make([]PrizeTier, 0),
	}
}

// Meaningful reports whether the record carries enough data to keep.
// A record with no name, no odds, and no price is discarded.
func (r *Record) Meaningful() bool {
	return r.Name != nil || r.OverallOdds != nil || r.Price != nil
}

// Enrich attaches prize-tier data and computes the true EV. EV stays unset
// when tiers is empty (no data is not the same as a zero EV).
func (r *Record) Enrich(tiers []PrizeTier) {
	r.PrizeTiers = tiers
	if ev, ok := ComputeEV(r.Price, tiers); ok {
		r.TrueEV = &ev
	}
}

// Key returns the record's identity for deduplication and upserts:
// name, price, and top prize, with sentinels for absent values.
func (r *Record) Key() string {
	name := sentinelName
	if r.Name != nil {
		name = *r.Name
	}
	price := sentinelMoney
	if r.Price != nil {
		price = *r.Price
	}
	topPrize := sentinelMoney
	if r.TopPrize != nil {
		topPrize = *r.TopPrize
	}
	// Unit separator: cannot appear in scraped text, and unlike NUL it is
	// legal in a Postgres text column.
	return fmt.Sprintf("%s\x1f%v\x1f%v", name, price, topPrize)
}

// Deduplicate drops records whose Key was already seen, preserving the
// order of first occurrence.
func Deduplicate(records []*Record) []*Record {
	seen := make(map[string]bool, len(records))
	unique := make([]*Record, 0, len(records))
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}
	return unique
}

// WinProbability returns the chance of winning any prize as a percentage,
// derived from the overall odds.
func (r *Record) WinProbability() (float64, bool) {
	if r.OverallOdds == nil || *r.OverallOdds <= 0 {
		return 0, false
	}
	return 100 / *r.OverallOdds, true
}

// Dead reports whether the game's top prizes are exhausted.
func (r *Record) Dead() bool {
	if r.TopRemaining != nil {
		return *r.TopRemaining == 0
	}
	if r.AllRemaining != nil {
		return *r.AllRemaining == 0
	}
	return false
}

// EstimatedEV is the naive top-prize-over-odds estimate, used for display
// when no prize-tier data was obtained.
func (r *Record) EstimatedEV() (float64, bool) {
	if r.TopPrize == nil || r.OverallOdds == nil || *r.OverallOdds <= 0 {
		return 0, false
	}
	return *r.TopPrize / *r.OverallOdds, true
}

// DisplayEV prefers the true EV and falls back to the estimate.
func (r *Record) DisplayEV() (float64, bool) {
	if r.TrueEV != nil {
		return *r.TrueEV, true
	}
	return r.EstimatedEV()
}
