// Package cli implements the command-line interface for lotto-luck.
//
// The cli package provides the Cobra-based CLI that runs the scrape
// pipeline for a region, persists the resulting snapshot (JSON and CSV,
// optionally Postgres and a Redis cache), and writes the records to stdout
// as text, JSON, or CSV.
package cli
