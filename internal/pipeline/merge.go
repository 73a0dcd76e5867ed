package pipeline

import (
	"fmt"

	"awards/internal"
	"awards/internal/table"
)

var joinKeys = map[string]struct{}{
	internal.ColYear: {},
	internal.ColName: {},
	internal.ColFilm: {},
	internal.ColType: {},
}

// JoinReport records key alignment for one join step.
type JoinReport struct {
	Stage string
	Stats table.JoinStats
}

type MergeOptions struct {
	Types      []internal.EntityType
	Ceremonies []internal.Ceremony
}

// MergeSecondary outer-joins the ceremony tables of each entity type in
// ceremony order, then stacks the per-type results.
func MergeSecondary(sources []Source, opts MergeOptions) (*table.Table, []JoinReport, error) {
	byKey := make(map[string]Source, len(sources))
	for _, s := range sources {
		byKey[s.Label()] = s
	}

	var reports []JoinReport
	groups := make([]*table.Table, 0, len(opts.Types))
	for _, typ := range opts.Types {
		var merged *table.Table
		for _, c := range opts.Ceremonies {
			src, ok := byKey[string(c)+"/"+string(typ)]
			if !ok {
				return nil, nil, fmt.Errorf("merge: %w: %s/%s", ErrMissingSource, c, typ)
			}
			if merged == nil {
				merged = src.Table
				continue
			}
			next, stats, err := table.OuterJoin(merged, src.Table, keyColumns(merged, src.Table))
			if err != nil {
				return nil, nil, fmt.Errorf("merge %s: %w", src.Label(), err)
			}
			reports = append(reports, JoinReport{Stage: "outer " + src.Label(), Stats: stats})
			merged = next
		}
		if merged != nil {
			groups = append(groups, merged)
		}
	}
	return table.Concat(groups...), reports, nil
}

// Merge left-joins the primary table onto the stacked secondary table,
// fills every missing indicator with 0 and fixes the column layout.
func Merge(primary, secondary *table.Table, showFilms bool) (*table.Table, JoinReport, error) {
	var report JoinReport
	full := primary
	if len(secondary.Columns()) == 0 {
		report.Stats.LeftOnly = primary.Len()
		for i := 0; i < primary.Len(); i++ {
			report.Stats.LeftOnlyRows = append(report.Stats.LeftOnlyRows, i)
		}
	} else {
		joined, stats, err := table.LeftJoin(primary, secondary, keyColumns(primary, secondary))
		if err != nil {
			return nil, report, fmt.Errorf("merge primary: %w", err)
		}
		report = JoinReport{Stage: "left primary", Stats: stats}
		full = joined
	}

	full = full.FillNull(table.Number(0))
	full, err := full.Move(internal.ColOscarWin, internal.OscarWinSlot)
	if err != nil {
		return nil, report, err
	}
	if !showFilms {
		full = full.Drop(internal.ColFilm)
	}
	return full, report, nil
}

func keyColumns(l, r *table.Table) []string {
	var on []string
	for _, c := range table.SharedColumns(l, r) {
		if _, ok := joinKeys[c]; ok {
			on = append(on, c)
		}
	}
	return on
}
