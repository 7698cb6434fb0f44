package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pwhitehead/lotto-luck/internal/game"
	"github.com/pwhitehead/lotto-luck/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// WriteOutput writes the snapshot in the specified format
func WriteOutput(w io.Writer, snap *storage.Snapshot, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, snap)
	case FormatCSV:
		return storage.WriteCSV(w, snap.Records)
	case FormatText:
		return writeText(w, snap, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the snapshot as indented JSON
func writeJSON(w io.Writer, snap *storage.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// writeText outputs a human-readable table. Rows keep scrape order so
// repeated runs diff cleanly.
func writeText(w io.Writer, snap *storage.Snapshot, verbose bool) error {
	if len(snap.Records) == 0 {
		fmt.Fprintln(w, "No games found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tPRICE\tEV\tTOP PRIZE\tWIN %\tODDS (1 IN)\tTOP REM\tSTATUS")

	enriched := 0
	for _, r := range snap.Records {
		if r.TrueEV != nil {
			enriched++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			textName(r),
			textMoney(r.Price),
			textEV(r),
			textMoney(r.TopPrize),
			textWinProb(r),
			textOdds(r.OverallOdds),
			textInt(r.TopRemaining),
			textStatus(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s: %d games (%d with prize data), scraped %s\n",
		snap.Region, len(snap.Records), enriched, snap.ScrapedAt)

	if verbose {
		for _, r := range snap.Records {
			if len(r.PrizeTiers) == 0 {
				continue
			}
			fmt.Fprintf(w, "\n%s prize tiers:\n", textName(r))
			for _, tier := range r.PrizeTiers {
				label := fmt.Sprintf("$%.2f", tier.Value)
				if tier.IsTicket {
					label = "free ticket"
				}
				fmt.Fprintf(w, "  %s: %d remaining\n", label, tier.Remaining)
			}
		}
	}
	return nil
}

func textName(r *game.Record) string {
	if r.Name == nil {
		return "(unnamed)"
	}
	return *r.Name
}

func textMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.0f", *v)
}

// textEV marks odds-based estimates with a tilde to distinguish them from
// EVs computed from actual remaining prizes.
func textEV(r *game.Record) string {
	ev, ok := r.DisplayEV()
	if !ok {
		return "-"
	}
	if r.TrueEV == nil {
		return fmt.Sprintf("~$%.2f", ev)
	}
	return fmt.Sprintf("$%.2f", ev)
}

func textWinProb(r *game.Record) string {
	p, ok := r.WinProbability()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", p)
}

func textOdds(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func textInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func textStatus(r *game.Record) string {
	if r.Dead() {
		return "dead"
	}
	return r.Status
}
