package game

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	r := NewRecord("NJ", now)

	if r.Region != "NJ" {
		t.Errorf("expected region 'NJ', got %q", r.Region)
	}
	if r.Source != Source {
		t.Errorf("expected source %q, got %q", Source, r.Source)
	}
	if r.ScrapedAt != "2026-03-14T15:09:26Z" {
		t.Errorf("unexpected scrape timestamp %q", r.ScrapedAt)
	}
	if r.Status != "active" {
		t.Errorf("expected status 'active', got %q", r.Status)
	}
	if r.PrizeTiers == nil || len(r.PrizeTiers) != 0 {
		t.Error("expected empty prize tiers on a bare record")
	}
	if r.TrueEV != nil {
		t.Error("expected EV to be unset on a bare record")
	}
}

func TestMeaningful(t *testing.T) {
	now := time.Now()

	empty := NewRecord("NJ", now)
	if empty.Meaningful() {
		t.Error("record with no name, odds, or price should not be meaningful")
	}

	named := NewRecord("NJ", now)
	named.Name = strPtr("Lucky 7")
	if !named.Meaningful() {
		t.Error("record with a name should be meaningful")
	}

	priced := NewRecord("NJ", now)
	priced.Price = floatPtr(5)
	if !priced.Meaningful() {
		t.Error("record with a price should be meaningful")
	}
}

func TestDeduplicate(t *testing.T) {
	now := time.Now()
	build := func(name string, price, topPrize float64) *Record {
		r := NewRecord("NJ", now)
		r.Name = strPtr(name)
		r.Price = floatPtr(price)
		r.TopPrize = floatPtr(topPrize)
		return r
	}

	first := build("Lucky 7", 5, 100000)
	dupe := build("Lucky 7", 5, 100000)
	other := build("Cash Blast", 10, 500000)
	samePrice := build("Lucky 7", 5, 250000) // different top prize, kept

	unique := Deduplicate([]*Record{first, dupe, other, samePrice})

	if len(unique) != 3 {
		t.Fatalf("expected 3 unique records, got %d", len(unique))
	}
	if unique[0] != first {
		t.Error("first occurrence should win")
	}
	if unique[1] != other || unique[2] != samePrice {
		t.Error("dedup should preserve first-occurrence order")
	}
}

func TestDeduplicateSentinels(t *testing.T) {
	now := time.Now()
	a := NewRecord("NJ", now)
	a.Name = strPtr("Mystery Game")
	b := NewRecord("NJ", now)
	b.Name = strPtr("Mystery Game")

	// Both missing price and top prize: identical sentinel keys collapse.
	unique := Deduplicate([]*Record{a, b})
	if len(unique) != 1 {
		t.Fatalf("expected sentinel keys to collapse, got %d records", len(unique))
	}
}

func TestKeySeparatorInName(t *testing.T) {
	now := time.Now()

	// A name containing the old "|" separator plus sentinel-looking text
	// must not collide with a record whose fields genuinely hold those
	// values.
	a := NewRecord("NJ", now)
	a.Name = strPtr("Pick|-1")

	b := NewRecord("NJ", now)
	b.Name = strPtr("Pick")
	b.Price = floatPtr(-1)

	if a.Key() == b.Key() {
		t.Fatalf("distinct records share key %q", a.Key())
	}
	if unique := Deduplicate([]*Record{a, b}); len(unique) != 2 {
		t.Fatalf("expected 2 records, got %d", len(unique))
	}
}

func TestEnrich(t *testing.T) {
	r := NewRecord("NJ", time.Now())
	r.Price = floatPtr(5)

	r.Enrich([]PrizeTier{
		{Value: 100, Remaining: 10},
		{Value: 0, Remaining: 5, IsTicket: true},
	})

	if len(r.PrizeTiers) != 2 {
		t.Fatalf("expected 2 tiers attached, got %d", len(r.PrizeTiers))
	}
	if r.TrueEV == nil {
		t.Fatal("expected EV to be computed")
	}
	want := (100*10 + 5*5) / 15.0
	if *r.TrueEV != want {
		t.Errorf("TrueEV = %v, want %v", *r.TrueEV, want)
	}
}

func TestDerivedFields(t *testing.T) {
	r := NewRecord("NJ", time.Now())
	r.OverallOdds = floatPtr(4)
	r.TopPrize = floatPtr(100)
	r.TopRemaining = intPtr(0)

	if p, ok := r.WinProbability(); !ok || p != 25 {
		t.Errorf("WinProbability = %v, %v; want 25, true", p, ok)
	}
	if !r.Dead() {
		t.Error("game with 0 top prizes remaining should be dead")
	}
	if ev, ok := r.EstimatedEV(); !ok || ev != 25 {
		t.Errorf("EstimatedEV = %v, %v; want 25, true", ev, ok)
	}

	// DisplayEV prefers the true EV once set.
	r.Enrich([]PrizeTier{{Value: 10, Remaining: 1}})
	if ev, ok := r.DisplayEV(); !ok || ev != 10 {
		t.Errorf("DisplayEV = %v, %v; want 10, true", ev, ok)
	}
}
