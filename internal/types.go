package internal

import "strings"

type EntityType string

const (
	TypeFilm    EntityType = "film"
	TypeActress EntityType = "actress"
	TypeActor   EntityType = "actor"
)

// Column names shared by every normalized award table.
const (
	ColYear      = "Year"
	ColName      = "Name"
	ColFilm      = "Film"
	ColType      = "Type"
	ColCategory  = "Category"
	ColWinner    = "Winner"
	ColOscarWin  = "Oscar-win"
	OscarWinSlot = 4
)

// SourceColumn is the secondary-file column that holds the entity name,
// e.g. "Actress" for actress tables.
func (e EntityType) SourceColumn() string {
	s := string(e)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e EntityType) Valid() bool {
	switch e {
	case TypeFilm, TypeActress, TypeActor:
		return true
	}
	return false
}

// Ceremony is one awarding body whose per-type tables feed the merge.
type Ceremony string

func (c Ceremony) NomColumn() string { return string(c) + "-nom" }

func (c Ceremony) WinColumn() string { return string(c) + "-win" }

// FileName follows the <ceremony-lowercased>-<type>.csv convention.
func (c Ceremony) FileName(t EntityType) string {
	return strings.ToLower(string(c)) + "-" + string(t) + ".csv"
}

var (
	DefaultCeremonies = []Ceremony{"Bafta", "Sag", "Gg-dram", "Gg-com"}
	DefaultTypes      = []EntityType{TypeFilm, TypeActress, TypeActor}

	// DefaultCategories maps primary-table categories to entity types.
	DefaultCategories = map[string]EntityType{
		"BEST PICTURE":              TypeFilm,
		"ACTRESS IN A LEADING ROLE": TypeActress,
		"ACTOR IN A LEADING ROLE":   TypeActor,
	}

	DefaultUnwantedColumns = []string{
		"Director(s)", "Producer(s)", "Country", "Cast members", "Role(s)",
		"Ref.", "Character", "Director", "Producers", "Producer",
	}
)

// RunStats is persisted alongside each stored merge run.
type RunStats struct {
	PrimaryRows   int            `json:"primaryRows"`
	SecondaryRows map[string]int `json:"secondaryRows"`
	OutputRows    int            `json:"outputRows"`
	Unmatched     int            `json:"unmatched"`
	NearMisses    int            `json:"nearMisses"`
	DuplicateKeys int            `json:"duplicateKeys"`
}

type RunRow struct {
	ID        string
	CreatedAt string
	DataDir   string
	ShowFilms bool
	RowCount  int
	Stats     RunStats
}
