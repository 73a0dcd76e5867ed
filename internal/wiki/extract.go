package wiki

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"awards/internal"
	"awards/internal/table"
	"awards/internal/util"
)

var ErrNoTables = errors.New("no award tables found")

type span struct {
	text string
	left int
}

// slot is one expanded column of a row. sel is nil when the slot is
// filled by a rowspan from an earlier row.
type slot struct {
	text string
	sel  *goquery.Selection
}

// Header names that hold the nominee, person columns before Film.
var nomineeHeaders = []string{"Actress", "Actor", "Name", "Nominee", "Nominees", "Film"}

// ExtractTables reads every "wikitable" on the page. Row and column spans
// are expanded so each output row is complete. When winner rows are marked
// by a row background, or by background or bold text in the nominee cell,
// the table gains a Winner column.
func ExtractTables(html []byte) ([]*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []*table.Table
	doc.Find("table.wikitable").Each(func(_ int, tbl *goquery.Selection) {
		if t := parseTable(tbl); t != nil {
			out = append(out, t)
		}
	})
	if len(out) == 0 {
		return nil, ErrNoTables
	}
	return out, nil
}

func parseTable(tbl *goquery.Selection) *table.Table {
	rows := tbl.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	headers := uniqueHeaders(slotTexts(expandRow(rows.First(), map[int]*span{})))
	if len(headers) == 0 {
		return nil
	}
	nominee := nomineeColumn(headers)

	pending := map[int]*span{}
	var body [][]string
	var winners []bool
	anyWinner := false
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		slots := expandRow(row, pending)
		cells := slotTexts(slots)
		if len(cells) == 0 || allEmpty(cells) {
			return
		}
		win := isWinnerRow(row, slots, nominee)
		anyWinner = anyWinner || win
		body = append(body, cells)
		winners = append(winners, win)
	})

	cols := headers
	addWinner := anyWinner && !contains(headers, internal.ColWinner)
	if addWinner {
		cols = append(append([]string(nil), headers...), internal.ColWinner)
	}

	t := table.New(cols...)
	for i, cells := range body {
		values := make([]table.Value, len(cols))
		for k := range headers {
			if k < len(cells) && cells[k] != "" {
				values[k] = table.String(cells[k])
			}
		}
		if addWinner && winners[i] {
			values[len(cols)-1] = table.String("yes")
		}
		_ = t.AppendRow(values...)
	}
	return t
}

// expandRow returns the cells of row by column, filling slots still covered
// by a rowspan from an earlier row.
func expandRow(row *goquery.Selection, pending map[int]*span) []slot {
	cells := row.ChildrenFiltered("th,td")
	var out []slot
	col, ci := 0, 0
	for {
		if sp, ok := pending[col]; ok {
			out = append(out, slot{text: sp.text})
			sp.left--
			if sp.left == 0 {
				delete(pending, col)
			}
			col++
			continue
		}
		if ci >= cells.Length() {
			break
		}
		cell := cells.Eq(ci)
		ci++

		text := cellText(cell)
		rowspan := attrInt(cell, "rowspan")
		colspan := attrInt(cell, "colspan")
		for k := 0; k < colspan; k++ {
			out = append(out, slot{text: text, sel: cell})
			if rowspan > 1 {
				pending[col] = &span{text: text, left: rowspan - 1}
			}
			col++
		}
	}
	return out
}

func cellText(cell *goquery.Selection) string {
	c := cell.Clone()
	c.Find("sup.reference, style, .sortkey, span[style*='display:none']").Remove()
	c.Find("br").ReplaceWithHtml(" ")
	return util.StripFootnotes(c.Text())
}

func slotTexts(slots []slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.text
	}
	return out
}

func nomineeColumn(headers []string) int {
	for _, h := range nomineeHeaders {
		for i, c := range headers {
			if c == h {
				return i
			}
		}
	}
	return -1
}

// isWinnerRow only inspects the nominee cell, so a bold year or ceremony
// cell does not mark the row.
func isWinnerRow(row *goquery.Selection, slots []slot, nominee int) bool {
	if hasBackground(row) {
		return true
	}
	if nominee < 0 || nominee >= len(slots) || slots[nominee].sel == nil {
		return false
	}
	cell := slots[nominee].sel
	return hasBackground(cell) || cell.Find("b").Length() > 0
}

func hasBackground(s *goquery.Selection) bool {
	style := strings.ToLower(s.AttrOr("style", ""))
	return strings.Contains(style, "background")
}

func attrInt(cell *goquery.Selection, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr(name, "1")))
	if err != nil || v < 1 {
		return 1
	}
	return v
}

func uniqueHeaders(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s (%d)", h, n)
		}
		out = append(out, h)
	}
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
