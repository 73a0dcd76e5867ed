package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"awards/internal/config"
	"awards/internal/logging"
	"awards/internal/pipeline"
	"awards/internal/storage"
	"awards/internal/wiki"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)

	cmd := os.Args[1]
	switch cmd {
	case "merge":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dataDir := fs.String("data", cfg.DataDir, "input directory")
		showFilms := fs.Bool("show-films", cfg.ShowFilms, "keep the Film column")
		out := fs.String("out", filepath.Join(cfg.OutputDir, "awards.csv"), "output .csv or .xlsx path")
		save := fs.Bool("save", false, "record the run in the database")
		_ = fs.Parse(os.Args[2:])

		cfg.DataDir = *dataDir
		cfg.ShowFilms = *showFilms
		res, err := pipeline.NewLoader(cfg, log).Load()
		must(err)
		must(pipeline.WriteTable(res.Table, *out))
		fmt.Printf("merge done rows=%d unmatched=%d near_misses=%d output=%s\n", res.Table.Len(), res.Stats.Unmatched, res.Stats.NearMisses, *out)

		if *save {
			db, err := storage.Open(cfg.DBPath)
			must(err)
			defer db.Close()
			id, err := db.SaveRun(cfg.DataDir, cfg.ShowFilms, res.Table, res.Stats)
			must(err)
			fmt.Printf("run saved id=%s\n", id)
		}
	case "wiki:convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		html := fs.String("html", "", "saved page path")
		index := fs.Int("table", -1, "table index, -1 stacks every table with a Year column")
		out := fs.String("out", "", "output csv path, e.g. data/bafta-film.csv")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--html", *html))
		must(cfg.Require("--out", *out))
		n, err := wiki.ConvertFile(*html, *index, *out)
		must(err)
		fmt.Printf("converted %d rows to %s\n", n, *out)
	case "wiki:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		page := fs.String("page", "", "page title")
		out := fs.String("out", "", "output html path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--page", *page))
		must(cfg.Require("--out", *out))
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		body, err := wiki.NewClient(cfg).FetchPage(ctx, *page)
		must(err)
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		must(os.WriteFile(*out, body, 0o644))
		fmt.Printf("fetched %q bytes=%d output=%s\n", *page, len(body), *out)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %s  data=%s rows=%d unmatched=%d near_misses=%d\n", r.ID, r.CreatedAt, r.DataDir, r.RowCount, r.Stats.Unmatched, r.Stats.NearMisses)
		}
	case "runs:export":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("run", "", "run id")
		out := fs.String("out", "", "output .csv or .xlsx path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--run", *runID))
		must(cfg.Require("--out", *out))
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		t, err := db.LoadRunTable(*runID)
		must(err)
		must(pipeline.WriteTable(t, *out))
		fmt.Printf("exported %d rows to %s\n", t.Len(), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: awards <command>")
	fmt.Println("commands:")
	fmt.Println("  merge [--data=data] [--show-films] [--out=out/awards.csv|.xlsx] [--save]")
	fmt.Println("  wiki:fetch --page=\"BAFTA Award for Best Film\" --out=raw/bafta-film.html")
	fmt.Println("  wiki:convert --html=raw/bafta-film.html [--table=-1] --out=data/bafta-film.csv")
	fmt.Println("  runs:list [--limit=20]")
	fmt.Println("  runs:export --run=<id> --out=out/run.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
