package pipeline

import (
	"errors"
	"testing"

	"awards/internal"
	"awards/internal/util"
)

func TestCleanSecondaryFilmFirstRowWins(t *testing.T) {
	raw := mustRead(t, "Year,Film,Director(s),Producer(s)\n"+
		"2001 (54th),Gladiator ,Ridley Scott,Douglas Wick\n"+
		"2001 (54th),Billy Elliot,Stephen Daldry,Greg Brenman\n"+
		"2002 (55th),The Lord of the Rings,Peter Jackson,Barrie Osborne\n"+
		"2002 (55th),Amélie,Jean-Pierre Jeunet,Claudie Ossard\n", ',')

	src, unexpected, err := CleanSecondary(raw, "Bafta", internal.TypeFilm, internal.DefaultUnwantedColumns)
	if err != nil {
		t.Fatal(err)
	}
	if len(unexpected) != 0 {
		t.Fatalf("unexpected=%v", unexpected)
	}
	out := src.Table
	want := []string{"Year", "Name", "Film", "Type", "Bafta-nom", "Bafta-win"}
	if got := out.Columns(); len(got) != len(want) {
		t.Fatalf("columns=%v", got)
	}
	for i, c := range want {
		if out.Columns()[i] != c {
			t.Fatalf("columns=%v", out.Columns())
		}
	}
	if got := out.Get(0, "Name").Str(); got != "Gladiator" {
		t.Fatalf("name=%q", got)
	}
	if got := out.Get(0, "Film").Str(); got != "Gladiator" {
		t.Fatalf("film=%q", got)
	}

	winsPerYear := map[int]int{}
	for i := 0; i < out.Len(); i++ {
		if n, _ := out.Get(i, "Bafta-nom").Num(); n != 1 {
			t.Fatalf("row %d nom=%v", i, n)
		}
		ts, _ := out.Get(i, "Year").Time()
		win := out.Get(i, "Bafta-win")
		if win.IsNull() {
			continue
		}
		winsPerYear[ts.Year()]++
	}
	if winsPerYear[2001] != 1 || winsPerYear[2002] != 1 {
		t.Fatalf("wins=%v", winsPerYear)
	}
	if out.Get(0, "Bafta-win").IsNull() || !out.Get(1, "Bafta-win").IsNull() {
		t.Fatal("first listed row per year must be the winner")
	}
}

func TestCleanSecondaryIntegerYears(t *testing.T) {
	raw := mustRead(t, "Year,Actress,Film,Role(s)\n2003,Nicole Kidman,The Hours,Virginia Woolf\n2003,Renée Zellweger,Chicago,Roxie Hart\n", ',')
	src, _, err := CleanSecondary(raw, "Sag", internal.TypeActress, internal.DefaultUnwantedColumns)
	if err != nil {
		t.Fatal(err)
	}
	out := src.Table
	if out.Has("Role(s)") || !out.Has("Film") {
		t.Fatalf("columns=%v", out.Columns())
	}
	if ts, _ := out.Get(1, "Year").Time(); ts.Year() != 2003 {
		t.Fatalf("year=%v", ts)
	}
	if got := out.Get(1, "Type").Str(); got != "actress" {
		t.Fatalf("type=%q", got)
	}
}

func TestCleanSecondaryExplicitWinner(t *testing.T) {
	raw := mustRead(t, "Year,Actor,Film,Winner\n2004,Bill Murray,Lost in Translation,\n2004,Johnny Depp,Pirates of the Caribbean,yes\n", ',')
	src, _, err := CleanSecondary(raw, "Gg-com", internal.TypeActor, nil)
	if err != nil {
		t.Fatal(err)
	}
	out := src.Table
	if out.Has("Winner") {
		t.Fatal("winner column must be dropped")
	}
	if !out.Get(0, "Gg-com-win").IsNull() {
		t.Fatal("first row is not the winner here")
	}
	if n, _ := out.Get(1, "Gg-com-win").Num(); n != 1 {
		t.Fatal("explicit winner ignored")
	}
}

func TestCleanSecondaryUnmarkedYearFallsBackToFirstRow(t *testing.T) {
	raw := mustRead(t, "Year,Actor,Film,Winner\n"+
		"2004,Bill Murray,Lost in Translation,\n"+
		"2004,Johnny Depp,Pirates of the Caribbean,yes\n"+
		"2005,Jamie Foxx,Ray,\n"+
		"2005,Johnny Depp,Finding Neverland,\n", ',')
	src, _, err := CleanSecondary(raw, "Gg-com", internal.TypeActor, nil)
	if err != nil {
		t.Fatal(err)
	}
	out := src.Table
	winsPerYear := map[int]int{}
	for i := 0; i < out.Len(); i++ {
		if n, _ := out.Get(i, "Gg-com-win").Num(); n == 1 {
			ts, _ := out.Get(i, "Year").Time()
			winsPerYear[ts.Year()]++
		}
	}
	if winsPerYear[2004] != 1 || winsPerYear[2005] != 1 {
		t.Fatalf("wins=%v", winsPerYear)
	}
	if n, _ := out.Get(2, "Gg-com-win").Num(); n != 1 {
		t.Fatal("first 2005 row should win when no row is marked")
	}
}

func TestCleanSecondaryRejectsTwoWinnersInAYear(t *testing.T) {
	raw := mustRead(t, "Year,Actor,Film,Winner\n"+
		"2004,Bill Murray,Lost in Translation,yes\n"+
		"2004,Johnny Depp,Pirates of the Caribbean,yes\n", ',')
	_, _, err := CleanSecondary(raw, "Gg-com", internal.TypeActor, nil)
	if !errors.Is(err, ErrMultipleWinners) {
		t.Fatalf("err=%v", err)
	}
}

func TestCleanSecondaryReportsUnexpectedColumns(t *testing.T) {
	raw := mustRead(t, "Year,Actor,Notes\n2004,Sean Penn,x\n", ',')
	_, unexpected, err := CleanSecondary(raw, "Sag", internal.TypeActor, internal.DefaultUnwantedColumns)
	if err != nil {
		t.Fatal(err)
	}
	if len(unexpected) != 1 || unexpected[0] != "Notes" {
		t.Fatalf("unexpected=%v", unexpected)
	}
}

func TestCleanSecondaryErrors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{name: "no name column", csv: "Year,Director\n2001,x\n"},
		{name: "no year column", csv: "Film\nx\n"},
		{name: "bad year", csv: "Year,Film\nunknown,x\n"},
		{name: "empty year", csv: "Year,Film\n,x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := CleanSecondary(mustRead(t, tc.csv, ','), "Bafta", internal.TypeFilm, nil); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	_, _, err := CleanSecondary(mustRead(t, "Year,Film\nsoon,x\n", ','), "Bafta", internal.TypeFilm, nil)
	if !errors.Is(err, util.ErrBadYear) {
		t.Fatalf("err=%v", err)
	}
}
