package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func tableFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc.Find("table").First()
}

func TestTableHeadersFromThead(t *testing.T) {
	tbl := tableFromHTML(t, `<table>
		<thead><tr><th>Game</th><th> Ticket   Price </th></tr></thead>
		<tbody><tr><td>Lucky 7</td><td>$5</td></tr></tbody>
	</table>`)

	headers, headerRow := tableHeaders(tbl)
	if len(headers) != 2 || headers[0] != "Game" || headers[1] != "Ticket Price" {
		t.Errorf("headers = %v", headers)
	}
	if headerRow != nil {
		t.Error("thead-derived headers should not mark a data row as the header row")
	}
}

func TestTableHeadersFromFirstRow(t *testing.T) {
	tbl := tableFromHTML(t, `<table>
		<tr><td>Game</td><td>Price</td></tr>
		<tr><td>Lucky 7</td><td>$5</td></tr>
	</table>`)

	headers, headerRow := tableHeaders(tbl)
	if len(headers) != 2 || headers[0] != "Game" {
		t.Errorf("headers = %v", headers)
	}
	if headerRow == nil {
		t.Fatal("expected the first row to be marked as the header row")
	}

	// The header row built from td cells must not reappear as data.
	rows := parseTable(tbl, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(rows))
	}
	if rows[0].cells[0].text != "Lucky 7" {
		t.Errorf("data row = %+v", rows[0])
	}
}

func TestParseTableSyntheticHeaders(t *testing.T) {
	tbl := tableFromHTML(t, `<table>
		<thead><tr><th>Game</th></tr></thead>
		<tr><td>Lucky 7</td><td>$5</td><td>extra</td></tr>
	</table>`)

	rows := parseTable(tbl, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	cells := rows[0].cells
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if cells[1].header != "col_1" || cells[2].header != "col_2" {
		t.Errorf("synthetic headers = %q, %q", cells[1].header, cells[2].header)
	}
}

func TestParseTableDetailLink(t *testing.T) {
	tbl := tableFromHTML(t, `<table>
		<thead><tr><th>Game</th><th>Price</th></tr></thead>
		<tr><td><a href="/nj/scratch-offs/7-lucky">Lucky 7</a></td><td><a href="/ignored">$5</a></td></tr>
	</table>`)

	base, _ := url.Parse("https://www.lottery.net/new-jersey/scratch-offs")
	rows := parseTable(tbl, base)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	// Only the first cell's hyperlink is recorded, resolved against base.
	want := "https://www.lottery.net/nj/scratch-offs/7-lucky"
	if rows[0].detailURL != want {
		t.Errorf("detailURL = %q, want %q", rows[0].detailURL, want)
	}
}

func TestResolveRef(t *testing.T) {
	base, _ := url.Parse("https://www.lottery.net/new-jersey/scratch-offs")

	tests := []struct {
		name string
		base *url.URL
		href string
		want string
	}{
		{"relative", base, "/texas/scratch-offs/1", "https://www.lottery.net/texas/scratch-offs/1"},
		{"absolute", base, "https://other.example.com/x", "https://other.example.com/x"},
		{"nil base", nil, "/texas/scratch-offs/1", "/texas/scratch-offs/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveRef(tt.base, tt.href); got != tt.want {
				t.Errorf("resolveRef = %q, want %q", got, tt.want)
			}
		})
	}
}
