// Package scraper fetches and parses scratch-off lottery pages.
//
// The scraper package fetches a region's public scratch-off listing page,
// discovers its data tables despite inconsistent markup, maps arbitrary
// column headers onto the normalized game record via exact-then-substring
// header matching, and follows per-game detail links to harvest prize-tier
// tables. Column names vary between regions, so field extraction matches
// ranked header candidates instead of fixed positions.
package scraper
