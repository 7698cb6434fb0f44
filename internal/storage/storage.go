// Package storage persists scrape results for downstream consumers: JSON
// snapshots and CSV exports on disk, and an optional Postgres sink.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pwhitehead/lotto-luck/internal/game"
)

// Snapshot is one region's scrape result at a point in time.
type Snapshot struct {
	Region    string         `json:"region"`
	ScrapedAt string         `json:"scraped_at"`
	Records   []*game.Record `json:"records"`
}

// NewSnapshot wraps records in a snapshot stamped with the current time.
func NewSnapshot(region string, records []*game.Record) *Snapshot {
	return &Snapshot{
		Region:    strings.ToUpper(region),
		ScrapedAt: time.Now().UTC().Format(time.RFC3339),
		Records:   records,
	}
}

// Storage handles on-disk persistence of scrape snapshots.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating it if needed.
// A leading ~/ expands to the home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// SnapshotPath returns the JSON snapshot path for a region.
func (s *Storage) SnapshotPath(region string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("scratchoffs_%s.json", strings.ToUpper(region)))
}

// CSVPath returns the CSV export path for a region.
func (s *Storage) CSVPath(region string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("scratchoffs_%s.csv", strings.ToUpper(region)))
}

// Load reads a region's snapshot from disk. It returns (nil, nil) when no
// snapshot has been saved yet.
func (s *Storage) Load(region string) (*Snapshot, error) {
	data, err := os.ReadFile(s.SnapshotPath(region))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save writes a region's snapshot to disk.
func (s *Storage) Save(snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.SnapshotPath(snapshot.Region), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// SaveCSV writes a region's records as CSV next to the snapshot.
func (s *Storage) SaveCSV(region string, records []*game.Record) error {
	f, err := os.Create(s.CSVPath(region))
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
