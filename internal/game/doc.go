// Package game defines the normalized scratch-off game record, its
// deduplication rules, and the prize-weighted expected-value computation.
//
// Records are built from listing-page rows by the scraper, deduplicated by
// (name, price, top prize), optionally enriched with detail-page prize
// tiers, and then treated as read-only by persistence and output.
package game
