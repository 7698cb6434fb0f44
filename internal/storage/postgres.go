package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/pwhitehead/lotto-luck/internal/game"
)

// PostgresStore upserts scraped game records into a Postgres table, keyed
// by (region, game identity), so repeated runs refresh rows in place.
type PostgresStore struct {
	db *sql.DB
}

const createGamesTable = `
CREATE TABLE IF NOT EXISTS scratch_games (
	region               TEXT NOT NULL,
	game_key             TEXT NOT NULL,
	source               TEXT NOT NULL,
	scrape_ts            TIMESTAMPTZ NOT NULL,
	game_number          INTEGER,
	game_name            TEXT,
	price                DOUBLE PRECISION,
	overall_odds_1_in    DOUBLE PRECISION,
	top_prize_amount     DOUBLE PRECISION,
	top_prizes_remaining INTEGER,
	all_prizes_remaining INTEGER,
	status               TEXT NOT NULL,
	detail_url           TEXT,
	prize_data           JSONB NOT NULL DEFAULT '[]',
	true_ev              DOUBLE PRECISION,
	PRIMARY KEY (region, game_key)
)`

// OpenPostgres connects to Postgres and ensures the games table exists.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(createGamesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating scratch_games table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the database connection.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// UpsertRecords writes every record, replacing any previous observation of
// the same game in the same region.
func (p *PostgresStore) UpsertRecords(ctx context.Context, records []*game.Record) error {
	for _, r := range records {
		if err := p.upsertRecord(ctx, r); err != nil {
			return fmt.Errorf("upserting %q: %w", r.Key(), err)
		}
	}
	return nil
}

func (p *PostgresStore) upsertRecord(ctx context.Context, r *game.Record) error {
	tiers, err := json.Marshal(r.PrizeTiers)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO scratch_games
		  (region, game_key, source, scrape_ts, game_number, game_name, price,
		   overall_odds_1_in, top_prize_amount, top_prizes_remaining,
		   all_prizes_remaining, status, detail_url, prize_data, true_ev)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (region, game_key) DO UPDATE SET
		  source               = EXCLUDED.source,
		  scrape_ts            = EXCLUDED.scrape_ts,
		  game_number          = EXCLUDED.game_number,
		  game_name            = EXCLUDED.game_name,
		  price                = EXCLUDED.price,
		  overall_odds_1_in    = EXCLUDED.overall_odds_1_in,
		  top_prize_amount     = EXCLUDED.top_prize_amount,
		  top_prizes_remaining = EXCLUDED.top_prizes_remaining,
		  all_prizes_remaining = EXCLUDED.all_prizes_remaining,
		  status               = EXCLUDED.status,
		  detail_url           = EXCLUDED.detail_url,
		  prize_data           = EXCLUDED.prize_data,
		  true_ev              = EXCLUDED.true_ev
	`
	_, err = p.db.ExecContext(ctx, q,
		r.Region, r.Key(), r.Source, r.ScrapedAt,
		r.GameNumber, r.Name, r.Price, r.OverallOdds, r.TopPrize,
		r.TopRemaining, r.AllRemaining, r.Status, r.DetailURL,
		tiers, r.TrueEV,
	)
	return err
}
