package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"awards/internal"
	"awards/internal/table"
	"awards/internal/util"
)

type OscarOptions struct {
	YearFrom   int
	Categories map[string]internal.EntityType
	// Types fixes the order in which per-type subsets are stacked.
	Types []internal.EntityType
}

// CleanOscars turns the raw academy table into long form with columns
// Year, Name, Film, Type, Oscar-win. Slash years are dropped; any other
// unparsable year is an error.
func CleanOscars(raw *table.Table, opts OscarOptions) (*table.Table, error) {
	required := []string{internal.ColYear, internal.ColCategory, internal.ColFilm, internal.ColWinner}
	for _, t := range opts.Categories {
		if t != internal.TypeFilm {
			required = append(required, internal.ColName)
			break
		}
	}
	for _, col := range required {
		if !raw.Has(col) {
			return nil, fmt.Errorf("oscars: %w: %s", table.ErrMissingColumn, col)
		}
	}

	subsets := make(map[internal.EntityType]*table.Table, len(opts.Types))
	for _, t := range opts.Types {
		subsets[t] = table.New(internal.ColYear, internal.ColName, internal.ColFilm, internal.ColType, internal.ColOscarWin)
	}

	for i := 0; i < raw.Len(); i++ {
		row := raw.Row(i)
		year, skip, err := util.ParseCeremonyYear(row.Get(internal.ColYear).Str())
		if err != nil {
			return nil, fmt.Errorf("oscars row %d: %w", i+2, err)
		}
		if skip || year < opts.YearFrom {
			continue
		}

		typ, ok := opts.Categories[strings.TrimSpace(row.Get(internal.ColCategory).Str())]
		if !ok {
			continue
		}
		subset, ok := subsets[typ]
		if !ok {
			continue
		}

		won, err := parseWinner(row.Get(internal.ColWinner))
		if err != nil {
			return nil, fmt.Errorf("oscars row %d: %w", i+2, err)
		}

		film := util.CleanText(row.Get(internal.ColFilm).Str())
		name := film
		if typ != internal.TypeFilm {
			name = util.CleanText(row.Get(internal.ColName).Str())
		}

		if err := subset.AppendRow(
			table.Year(year),
			textValue(name),
			textValue(film),
			table.String(string(typ)),
			table.Number(won),
		); err != nil {
			return nil, err
		}
	}

	ordered := make([]*table.Table, 0, len(opts.Types))
	for _, t := range opts.Types {
		ordered = append(ordered, subsets[t])
	}
	return table.Concat(ordered...), nil
}

func parseWinner(v table.Value) (float64, error) {
	if v.IsNull() {
		return 0, nil
	}
	won, err := strconv.ParseBool(strings.TrimSpace(v.Str()))
	if err != nil {
		return 0, fmt.Errorf("bad winner flag %q", v.Str())
	}
	if won {
		return 1, nil
	}
	return 0, nil
}

func textValue(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.String(s)
}
