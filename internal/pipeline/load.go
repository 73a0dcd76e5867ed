package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"awards/internal"
	"awards/internal/config"
	"awards/internal/table"
)

var ErrMissingSource = errors.New("missing source file")

type Loader struct {
	cfg config.Config
	log *slog.Logger
}

func NewLoader(cfg config.Config, log *slog.Logger) *Loader {
	return &Loader{cfg: cfg, log: log}
}

type Result struct {
	Table       *table.Table
	Diagnostics Diagnostics
	Stats       internal.RunStats
}

// Load reads every input file under the configured data directory and
// returns the merged award table. Nothing is cached between calls.
func (l *Loader) Load() (Result, error) {
	ds := l.cfg.Dataset

	raw, err := readTable(filepath.Join(l.cfg.DataDir, l.cfg.OscarsFile), '\t')
	if err != nil {
		return Result{}, err
	}
	primary, err := CleanOscars(raw, OscarOptions{YearFrom: l.cfg.YearFrom, Categories: ds.Categories, Types: ds.Types})
	if err != nil {
		return Result{}, err
	}
	l.log.Debug("primary table cleaned", "raw", raw.Len(), "kept", primary.Len())

	stats := internal.RunStats{PrimaryRows: primary.Len(), SecondaryRows: map[string]int{}}
	sources := make([]Source, 0, len(ds.Types)*len(ds.Ceremonies))
	for _, typ := range ds.Types {
		for _, c := range ds.Ceremonies {
			path := filepath.Join(l.cfg.DataDir, c.FileName(typ))
			raw, err := readTable(path, ',')
			if err != nil {
				return Result{}, err
			}
			src, unexpected, err := CleanSecondary(raw, c, typ, ds.UnwantedColumns)
			if err != nil {
				return Result{}, err
			}
			if len(unexpected) > 0 {
				l.log.Warn("dropping unexpected columns", "source", src.Label(), "columns", unexpected)
			}
			stats.SecondaryRows[src.Label()] = src.Table.Len()
			sources = append(sources, src)
		}
	}

	secondary, joins, err := MergeSecondary(sources, MergeOptions{Types: ds.Types, Ceremonies: ds.Ceremonies})
	if err != nil {
		return Result{}, err
	}
	full, report, err := Merge(primary, secondary, l.cfg.ShowFilms)
	if err != nil {
		return Result{}, err
	}
	if report.Stage != "" {
		joins = append(joins, report)
	}

	diag := Diagnostics{Joins: joins}
	diag.Unmatched, diag.NearMisses = FindMismatches(primary, secondary, report.Stats.LeftOnlyRows, l.cfg.NearMissThreshold)
	for _, j := range joins {
		if j.Stats.DuplicateKeys > 0 {
			l.log.Warn("duplicate join keys", "stage", j.Stage, "keys", j.Stats.DuplicateKeys)
		}
	}
	for _, m := range diag.NearMisses {
		if m.Name == m.Candidate {
			l.log.Warn("film title mismatch", "year", m.Year, "type", m.Type, "name", m.Name, "primary_film", m.Film, "secondary_film", m.CandidateFilm)
			continue
		}
		l.log.Warn("possible name mismatch", "year", m.Year, "type", m.Type, "primary", m.Name, "secondary", m.Candidate, "score", m.Score)
	}
	l.log.Info("merge complete", "rows", full.Len(), "unmatched", len(diag.Unmatched), "near_misses", len(diag.NearMisses))

	stats.OutputRows = full.Len()
	stats.Unmatched = len(diag.Unmatched)
	stats.NearMisses = len(diag.NearMisses)
	stats.DuplicateKeys = diag.DuplicateKeys()
	return Result{Table: full, Diagnostics: diag, Stats: stats}, nil
}

func readTable(path string, sep rune) (*table.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := table.ReadCSV(f, sep)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
