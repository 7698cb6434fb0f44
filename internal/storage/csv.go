package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pwhitehead/lotto-luck/internal/game"
)

// csvHeader lists the exported columns. Downstream consumers bind to these
// names, so the set and order are stable.
var csvHeader = []string{
	"state",
	"source",
	"scrape_ts",
	"game_number",
	"game_name",
	"price",
	"overall_odds_1_in",
	"top_prize_amount",
	"top_prizes_remaining",
	"all_prizes_remaining",
	"status",
	"detail_url",
	"prize_data",
	"true_ev",
}

// WriteCSV writes records as CSV with a header row. Absent optional fields
// become empty cells; prize tiers are serialized as a JSON cell.
func WriteCSV(w io.Writer, records []*game.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		tiers, err := json.Marshal(r.PrizeTiers)
		if err != nil {
			return err
		}

		row := []string{
			r.Region,
			r.Source,
			r.ScrapedAt,
			csvInt(r.GameNumber),
			csvString(r.Name),
			csvFloat(r.Price),
			csvFloat(r.OverallOdds),
			csvFloat(r.TopPrize),
			csvInt(r.TopRemaining),
			csvInt(r.AllRemaining),
			r.Status,
			r.DetailURL,
			string(tiers),
			csvFloat(r.TrueEV),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func csvInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
