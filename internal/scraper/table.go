package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pwhitehead/lotto-luck/internal/coerce"
)

// cell is one positionally-aligned header/value pair from a table row.
// Headers are lowercased and whitespace-normalized for matching.
type cell struct {
	header string
	text   string
}

// tableRow is one data row: cells in document order plus the hyperlink
// found in the row's first cell, if any.
type tableRow struct {
	cells     []cell
	detailURL string
}

// tableHeaders derives a table's header sequence from its thead, falling
// back to the first row's cells. The returned selection is the row the
// headers came from (nil when a thead was used) so callers can exclude it
// from the data rows.
func tableHeaders(tbl *goquery.Selection) ([]string, *goquery.Selection) {
	headers := make([]string, 0)
	tbl.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, coerce.Whitespace(th.Text()))
	})
	if len(headers) > 0 {
		return headers, nil
	}

	first := tbl.Find("tr").First()
	first.Find("th, td").Each(func(_ int, h *goquery.Selection) {
		headers = append(headers, coerce.Whitespace(h.Text()))
	})
	return headers, first
}

// parseTable converts a table into one tableRow per data row, aligning
// cell text to headers by position. Cells beyond the header count get
// synthetic col_N names. Relative detail links are resolved against base.
func parseTable(tbl *goquery.Selection, base *url.URL) []tableRow {
	headers, headerRow := tableHeaders(tbl)

	rows := make([]tableRow, 0)
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if headerRow != nil && tr.IsSelection(headerRow) {
			return
		}
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		row := tableRow{cells: make([]cell, 0, tds.Length())}
		tds.Each(func(i int, td *goquery.Selection) {
			header := fmt.Sprintf("col_%d", i)
			if i < len(headers) {
				header = headers[i]
			}
			row.cells = append(row.cells, cell{
				header: strings.ToLower(coerce.Whitespace(header)),
				text:   coerce.Whitespace(td.Text()),
			})

			if i == 0 {
				if href, ok := td.Find("a[href]").First().Attr("href"); ok {
					row.detailURL = resolveRef(base, href)
				}
			}
		})
		rows = append(rows, row)
	})
	return rows
}

// resolveRef resolves a possibly-relative href against the page URL.
func resolveRef(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
