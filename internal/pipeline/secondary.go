package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"awards/internal"
	"awards/internal/table"
	"awards/internal/util"
)

// Columns that, when present in a secondary table, name the winner
// explicitly instead of relying on row order.
var winnerColumns = []string{"Winner", "Won", "Result"}

var ErrMultipleWinners = errors.New("more than one winner in a year")

// Source is one normalized (ceremony, entity type) table.
type Source struct {
	Ceremony internal.Ceremony
	Type     internal.EntityType
	Table    *table.Table
}

func (s Source) Label() string { return string(s.Ceremony) + "/" + string(s.Type) }

// CleanSecondary normalizes one scraped ceremony table to the columns
// Year, Name, [Film], Type, <ceremony>-nom, <ceremony>-win.
//
// Winners come from an explicit winner column when the table has one. A
// year with no mark, or a table without such a column, takes its first row
// as the winner, which relies on the source listing winners first. Two
// marks in one year is ErrMultipleWinners.
func CleanSecondary(raw *table.Table, ceremony internal.Ceremony, typ internal.EntityType, unwanted []string) (Source, []string, error) {
	label := string(ceremony) + "/" + string(typ)
	src := typ.SourceColumn()
	switch {
	case raw.Has(src) && src != internal.ColName && raw.Has(internal.ColName):
		return Source{}, nil, fmt.Errorf("%s: both %s and %s columns present", label, src, internal.ColName)
	case !raw.Has(src) && raw.Has(internal.ColName):
		src = internal.ColName
	case !raw.Has(src):
		return Source{}, nil, fmt.Errorf("%s: %w: %s", label, table.ErrMissingColumn, src)
	}
	if !raw.Has(internal.ColYear) {
		return Source{}, nil, fmt.Errorf("%s: %w: %s", label, table.ErrMissingColumn, internal.ColYear)
	}

	years, err := secondaryYears(raw)
	if err != nil {
		return Source{}, nil, fmt.Errorf("%s: %w", label, err)
	}

	winnerCol := ""
	for _, c := range winnerColumns {
		if raw.Has(c) {
			winnerCol = c
			break
		}
	}

	drop := make(map[string]struct{}, len(unwanted))
	for _, c := range unwanted {
		drop[c] = struct{}{}
	}
	var unexpected []string
	for _, c := range raw.Columns() {
		if c == src || c == internal.ColYear || c == internal.ColFilm || c == winnerCol {
			continue
		}
		if _, ok := drop[c]; !ok {
			unexpected = append(unexpected, c)
		}
	}

	cols := []string{internal.ColYear, internal.ColName}
	if typ == internal.TypeFilm || raw.Has(internal.ColFilm) {
		cols = append(cols, internal.ColFilm)
	}
	cols = append(cols, internal.ColType, ceremony.NomColumn(), ceremony.WinColumn())
	out := table.New(cols...)

	winners, err := winnerRows(raw, years, winnerCol)
	if err != nil {
		return Source{}, nil, fmt.Errorf("%s: %w", label, err)
	}

	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)
		name := textValue(util.CleanText(row.Get(src).Str()))

		win := table.Null()
		if winners[i] {
			win = table.Number(1)
		}

		values := []table.Value{table.Year(years[i]), name}
		switch {
		case typ == internal.TypeFilm:
			values = append(values, name)
		case raw.Has(internal.ColFilm):
			values = append(values, textValue(util.CleanText(row.Get(internal.ColFilm).Str())))
		}
		values = append(values, table.String(string(typ)), table.Number(1.0), win)
		if err := out.AppendRow(values...); err != nil {
			return Source{}, nil, err
		}
	}

	return Source{Ceremony: ceremony, Type: typ, Table: out}, unexpected, nil
}

// winnerRows flags the winning row of every year.
func winnerRows(raw *table.Table, years []int, winnerCol string) ([]bool, error) {
	out := make([]bool, raw.Len())
	marked := map[int]int{}
	if winnerCol != "" {
		for i := range out {
			if isWinnerMark(raw.Get(i, winnerCol)) {
				out[i] = true
				marked[years[i]]++
				if marked[years[i]] > 1 {
					return nil, fmt.Errorf("%w: %d, row %d", ErrMultipleWinners, years[i], i+2)
				}
			}
		}
	}

	for i := range out {
		if marked[years[i]] == 0 {
			out[i] = true
			marked[years[i]] = 1
		}
	}
	return out, nil
}

// secondaryYears reads the Year column as integers when every cell is an
// integer, otherwise from the first four characters of each cell.
func secondaryYears(raw *table.Table) ([]int, error) {
	integral := true
	for i := 0; i < raw.Len(); i++ {
		v := raw.Get(i, internal.ColYear)
		if v.IsNull() {
			return nil, fmt.Errorf("row %d: %w: empty", i+2, util.ErrBadYear)
		}
		if !util.IsInteger(v.Str()) {
			integral = false
		}
	}

	out := make([]int, raw.Len())
	for i := range out {
		s := raw.Get(i, internal.ColYear).Str()
		if integral {
			out[i], _ = strconv.Atoi(strings.TrimSpace(s))
			continue
		}
		y, err := util.ParseLeadingYear(s)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out[i] = y
	}
	return out, nil
}

func isWinnerMark(v table.Value) bool {
	s := strings.ToLower(strings.TrimSpace(v.Str()))
	switch s {
	case "won", "win", "winner", "yes", "y", "x":
		return true
	}
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
