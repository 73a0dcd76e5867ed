package table

import (
	"bytes"
	"strings"
	"testing"
)

func mkTable(t *testing.T, cols []string, rows ...[]Value) *Table {
	t.Helper()
	tb := New(cols...)
	for _, r := range rows {
		if err := tb.AppendRow(r...); err != nil {
			t.Fatal(err)
		}
	}
	return tb
}

func TestValueString(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{name: "null", v: Null(), want: ""},
		{name: "string", v: String("Gladiator"), want: "Gladiator"},
		{name: "whole number", v: Number(1.0), want: "1"},
		{name: "fraction", v: Number(0.5), want: "0.5"},
		{name: "year", v: Year(2001), want: "2001-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.String(); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestCloneDoesNotShareRows(t *testing.T) {
	src := mkTable(t, []string{"Name"}, []Value{String("a")})
	cp := src.Clone()
	if err := cp.Set(0, "Name", String("b")); err != nil {
		t.Fatal(err)
	}
	if got := src.Get(0, "Name").Str(); got != "a" {
		t.Fatalf("source mutated: %q", got)
	}
}

func TestWithColumnAppendsAndReplaces(t *testing.T) {
	src := mkTable(t, []string{"Name"}, []Value{String(" a ")}, []Value{String("b")})
	added := src.WithColumn("Type", func(Row) Value { return String("film") })
	if got := added.Columns(); len(got) != 2 || got[1] != "Type" {
		t.Fatalf("columns=%v", got)
	}
	trimmed := added.WithColumn("Name", func(r Row) Value { return String(strings.TrimSpace(r.Get("Name").Str())) })
	if got := trimmed.Get(0, "Name").Str(); got != "a" {
		t.Fatalf("name=%q", got)
	}
	if src.Has("Type") || src.Get(0, "Name").Str() != " a " {
		t.Fatal("source mutated")
	}
}

func TestDropSelectMove(t *testing.T) {
	src := mkTable(t, []string{"Year", "Film", "Name", "Type", "Bafta-nom", "Oscar-win"},
		[]Value{Year(2001), String("Gladiator"), String("Gladiator"), String("film"), Number(1), Number(1)})

	moved, err := src.Move("Oscar-win", 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Year", "Film", "Name", "Type", "Oscar-win", "Bafta-nom"}
	if got := moved.Columns(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", got, want)
	}
	if n, _ := moved.Get(0, "Oscar-win").Num(); n != 1 {
		t.Fatalf("oscar-win=%v", n)
	}

	dropped := moved.Drop("Film", "Missing")
	if dropped.Has("Film") || len(dropped.Columns()) != 5 {
		t.Fatalf("columns=%v", dropped.Columns())
	}
	if _, err := src.Select("Nope"); err == nil {
		t.Fatal("expected missing column error")
	}
}

func TestConcatUnionsColumns(t *testing.T) {
	films := mkTable(t, []string{"Year", "Film", "Name"}, []Value{Year(2001), String("Gladiator"), String("Gladiator")})
	actors := mkTable(t, []string{"Year", "Name", "Character"}, []Value{Year(2001), String("Russell Crowe"), String("Maximus")})
	out := Concat(films, actors)
	if got := strings.Join(out.Columns(), ","); got != "Year,Film,Name,Character" {
		t.Fatalf("columns=%s", got)
	}
	if out.Len() != 2 {
		t.Fatalf("len=%d", out.Len())
	}
	if !out.Get(1, "Film").IsNull() || !out.Get(0, "Character").IsNull() {
		t.Fatal("missing cells must be null")
	}
}

func TestFillNull(t *testing.T) {
	src := mkTable(t, []string{"a", "b"}, []Value{Null(), Number(1)})
	out := src.FillNull(Number(0))
	if n, ok := out.Get(0, "a").Num(); !ok || n != 0 {
		t.Fatalf("a=%v", out.Get(0, "a"))
	}
	if !src.Get(0, "a").IsNull() {
		t.Fatal("source mutated")
	}
}

func TestReadWriteCSV(t *testing.T) {
	in := "\ufeffYear\tCategory\tName\n2001\tBEST PICTURE\t\n2002\tACTOR IN A LEADING ROLE\t\"Denzel Washington\"\n"
	tb, err := ReadCSV(strings.NewReader(in), '\t')
	if err != nil {
		t.Fatal(err)
	}
	if tb.Len() != 2 || !tb.Has("Year") {
		t.Fatalf("len=%d cols=%v", tb.Len(), tb.Columns())
	}
	if !tb.Get(0, "Name").IsNull() {
		t.Fatal("empty cell should be null")
	}
	if got := tb.Get(1, "Name").Str(); got != "Denzel Washington" {
		t.Fatalf("name=%q", got)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tb); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Year,Category,Name\n2001,BEST PICTURE,\n") {
		t.Fatalf("csv=%q", buf.String())
	}
}

func TestReadCSVRejectsDuplicateHeader(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("Year,Year\n1,2\n"), ','); err == nil {
		t.Fatal("expected error")
	}
}
