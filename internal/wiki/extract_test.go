package wiki

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"awards/internal"
	"awards/internal/pipeline"
	"awards/internal/table"
)

const baftaPage = `<html><body>
<table class="wikitable">
<tr><th>Year</th><th>Film</th><th>Director(s)</th></tr>
<tr style="background:#B0C4DE"><th rowspan="2">2000 <small>(54th)</small></th><td><b>Gladiator</b><sup class="reference">[1]</sup></td><td>Ridley Scott</td></tr>
<tr><td>Billy Elliot</td><td>Stephen Daldry</td></tr>
<tr style="background:#B0C4DE"><th rowspan="2">2001 (55th)</th><td><b>The Lord of the Rings</b></td><td>Peter Jackson</td></tr>
<tr><td>Amélie †</td><td>Jean-Pierre Jeunet</td></tr>
</table>
<table class="infobox"><tr><th>x</th></tr><tr><td>y</td></tr></table>
</body></html>`

func TestExtractTablesExpandsRowspan(t *testing.T) {
	tables, err := ExtractTables([]byte(baftaPage))
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 {
		t.Fatalf("len=%d", len(tables))
	}
	tb := tables[0]
	if got := strings.Join(tb.Columns(), ","); got != "Year,Film,Director(s),Winner" {
		t.Fatalf("columns=%s", got)
	}
	if tb.Len() != 4 {
		t.Fatalf("rows=%d", tb.Len())
	}
	if got := tb.Get(1, "Year").Str(); got != "2000 (54th)" {
		t.Fatalf("year=%q", got)
	}
	if got := tb.Get(0, "Film").Str(); got != "Gladiator" {
		t.Fatalf("film=%q", got)
	}
	if got := tb.Get(3, "Film").Str(); got != "Amélie" {
		t.Fatalf("film=%q", got)
	}
	if tb.Get(0, "Winner").Str() != "yes" || !tb.Get(1, "Winner").IsNull() {
		t.Fatal("winner marks wrong")
	}
}

func TestExtractTablesColspan(t *testing.T) {
	page := `<table class="wikitable"><tr><th>Year</th><th colspan="2">Actor</th></tr>` +
		`<tr><td>2004</td><td colspan="2">Sean Penn</td></tr></table>`
	tables, err := ExtractTables([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(tables[0].Columns(), ","); got != "Year,Actor,Actor (2)" {
		t.Fatalf("columns=%s", got)
	}
	if tables[0].Has("Winner") {
		t.Fatal("no winner markup, no winner column")
	}
}

func TestExtractTablesBoldOutsideNomineeIgnored(t *testing.T) {
	page := `<table class="wikitable">` +
		`<tr><th>Year</th><th>Actor</th><th>Film</th></tr>` +
		`<tr><td><b>2004</b></td><td>Bill Murray</td><td>Lost in Translation</td></tr>` +
		`<tr><td>2004</td><td><b>Sean Penn</b></td><td>Mystic River</td></tr>` +
		`</table>`
	tables, err := ExtractTables([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	tb := tables[0]
	if !tb.Get(0, "Winner").IsNull() {
		t.Fatal("bold year must not mark the row")
	}
	if tb.Get(1, "Winner").Str() != "yes" {
		t.Fatal("bold nominee should mark the row")
	}
}

func TestExtractTablesNone(t *testing.T) {
	if _, err := ExtractTables([]byte("<p>nothing</p>")); err == nil {
		t.Fatal("expected error")
	}
}

func TestConvertFeedsSecondaryNormalizer(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bafta-film.csv")
	n, err := ConvertHTML([]byte(baftaPage), -1, out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("rows=%d", n)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	raw, err := table.ReadCSV(f, ',')
	if err != nil {
		t.Fatal(err)
	}
	src, _, err := pipeline.CleanSecondary(raw, "Bafta", internal.TypeFilm, internal.DefaultUnwantedColumns)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := src.Table.Get(2, "Bafta-win").Num(); n != 1 {
		t.Fatal("lord of the rings should win 2001")
	}
	if !src.Table.Get(3, "Bafta-win").IsNull() {
		t.Fatal("amelie did not win")
	}
}

func TestSelectTableIndex(t *testing.T) {
	tables, err := ExtractTables([]byte(baftaPage))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := SelectTable(tables, 3); err == nil {
		t.Fatal("expected out of range error")
	}
	if tb, err := SelectTable(tables, 0); err != nil || tb.Len() != 4 {
		t.Fatalf("tb=%v err=%v", tb, err)
	}
}
