package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"awards/internal"
	"awards/internal/table"
	"awards/internal/util"
)

// createdAtLayout is fixed width so createdAt sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  dataDir TEXT NOT NULL,
  showFilms INTEGER NOT NULL,
  rowCount INTEGER NOT NULL,
  columnsJson TEXT NOT NULL,
  statsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS award_rows (
  runId TEXT NOT NULL,
  position INTEGER NOT NULL,
  year INTEGER,
  name TEXT,
  type TEXT,
  cellsJson TEXT NOT NULL,
  PRIMARY KEY(runId, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_award_rows_lookup ON award_rows(year, type, name);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun stores a merged table and returns the new run id.
func (d *DB) SaveRun(dataDir string, showFilms bool, t *table.Table, stats internal.RunStats) (string, error) {
	id := uuid.NewString()
	cols := t.Columns()
	columnsJSON, _ := json.Marshal(cols)
	statsJSON, _ := json.Marshal(stats)

	tx, err := d.conn.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (id, dataDir, showFilms, rowCount, columnsJson, statsJson, createdAt)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, id, dataDir, showFilms, t.Len(), string(columnsJSON), string(statsJSON), time.Now().UTC().Format(createdAtLayout)); err != nil {
		return "", err
	}

	stmt, err := tx.Prepare(`INSERT INTO award_rows (runId, position, year, name, type, cellsJson) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		cells := make([]string, len(cols))
		for k, c := range cols {
			cells[k] = t.Get(i, c).String()
		}
		cellsJSON, _ := json.Marshal(cells)

		var year *int
		if ts, ok := t.Get(i, internal.ColYear).Time(); ok {
			y := ts.Year()
			year = &y
		}
		if _, err := stmt.Exec(id, i, year, t.Get(i, internal.ColName).String(), t.Get(i, internal.ColType).String(), string(cellsJSON)); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, createdAt, dataDir, showFilms, rowCount, statsJson
FROM runs ORDER BY createdAt DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		var statsJSON string
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.DataDir, &row.ShowFilms, &row.RowCount, &statsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(statsJSON), &row.Stats); err != nil {
			return nil, fmt.Errorf("run %s stats: %w", row.ID, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LoadRunTable rebuilds the stored table of a run. Year cells come back as
// dates, indicator cells as numbers and everything else as text.
func (d *DB) LoadRunTable(runID string) (*table.Table, error) {
	var columnsJSON string
	err := d.conn.QueryRow(`SELECT columnsJson FROM runs WHERE id = ?`, runID).Scan(&columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, err
	}

	var cols []string
	if err := json.Unmarshal([]byte(columnsJSON), &cols); err != nil {
		return nil, err
	}
	numeric := make(map[string]bool, len(cols))
	for _, c := range cols {
		numeric[c] = c != internal.ColYear && c != internal.ColName && c != internal.ColFilm && c != internal.ColType
	}

	rows, err := d.conn.Query(`SELECT cellsJson FROM award_rows WHERE runId = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	t := table.New(cols...)
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, err
		}
		if len(cells) != len(cols) {
			return nil, fmt.Errorf("run %s: stored row has %d cells, want %d", runID, len(cells), len(cols))
		}
		values := make([]table.Value, len(cols))
		for k, c := range cols {
			values[k] = decodeCell(c, numeric[c], cells[k])
		}
		if err := t.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

func decodeCell(col string, numeric bool, s string) table.Value {
	if s == "" {
		return table.Null()
	}
	if col == internal.ColYear {
		if y, err := util.ParseLeadingYear(s); err == nil {
			return table.Year(y)
		}
	}
	if numeric {
		var f float64
		if _, err := fmt.Sscan(s, &f); err == nil {
			return table.Number(f)
		}
	}
	return table.String(s)
}
