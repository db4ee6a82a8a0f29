// Command etl scrapes AO3 works into a catalog file the server and CLI can
// serve.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/theLastOfCats/ficbox/internal/ao3"
	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/config"
	"github.com/theLastOfCats/ficbox/internal/logger"
	"github.com/theLastOfCats/ficbox/internal/model"
)

type options struct {
	mode         string
	workID       int64
	relationship string
	days         int
	minKudos     int
	output       string
	merge        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.mode, "mode", "single", "single or weekly")
	flag.Int64Var(&opts.workID, "work-id", ao3.DemoWorkID, "work to fetch in single mode")
	flag.StringVar(&opts.relationship, "relationship", ao3.DefaultRelationship, "relationship tag searched in weekly mode")
	flag.IntVar(&opts.days, "days", 7, "look-back window in weekly mode")
	flag.IntVar(&opts.minKudos, "min-kudos", 0, "minimum kudos in weekly mode")
	flag.StringVar(&opts.output, "output", "", "catalog file to write (default CATALOG_PATH)")
	flag.BoolVar(&opts.merge, "merge", true, "merge into an existing catalog instead of replacing it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	if opts.output == "" {
		opts.output = cfg.CatalogPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := ao3.NewClient(cfg.AO3BaseURL, cfg.AO3RequestDelay, log)
	if err := run(ctx, client, opts, log, os.Stdout); err != nil {
		log.Error("etl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *ao3.Client, opts options, log *slog.Logger, out io.Writer) error {
	var fetched []model.Fic

	switch opts.mode {
	case "single":
		fic, err := client.FetchWork(ctx, opts.workID)
		if err != nil {
			return err
		}
		fetched = []model.Fic{*fic}
	case "weekly":
		ids, err := client.SearchRecent(ctx, opts.relationship, opts.days, opts.minKudos)
		if err != nil {
			return err
		}
		log.Info("found recent works", "count", len(ids), "days", opts.days)
		fetched, err = client.FetchBatch(ctx, ids)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	result := fetched
	if opts.merge {
		existing, err := readCatalog(opts.output)
		if err != nil {
			return err
		}
		result = mergeCatalog(existing, fetched)
	}

	if err := writeCatalog(opts.output, result); err != nil {
		return err
	}

	printSummary(out, fetched)
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "Wrote %d fics to %s\n", len(result), opts.output)
	return nil
}

// readCatalog returns the fics already at path, or none if the file does not exist.
func readCatalog(path string) ([]model.Fic, error) {
	fics, err := catalog.FileProvider{Path: path}.Fics(context.Background())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return fics, err
}

// mergeCatalog replaces existing entries by id and appends new ones, keeping
// the existing order.
func mergeCatalog(existing, fetched []model.Fic) []model.Fic {
	index := make(map[string]int, len(existing))
	merged := make([]model.Fic, len(existing), len(existing)+len(fetched))
	copy(merged, existing)
	for i, f := range merged {
		index[f.ID] = i
	}

	for _, f := range fetched {
		if i, ok := index[f.ID]; ok {
			// Hand-curated fields survive a re-scrape.
			f.Quote = merged[i].Quote
			f.State = merged[i].State
			f.AuthorStats = merged[i].AuthorStats
			merged[i] = f
			continue
		}
		index[f.ID] = len(merged)
		merged = append(merged, f)
	}
	return merged
}

func writeCatalog(path string, fics []model.Fic) error {
	if fics == nil {
		fics = []model.Fic{}
	}
	raw, err := json.MarshalIndent(fics, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return os.Rename(tmp, path)
}

func printSummary(w io.Writer, fics []model.Fic) {
	p := message.NewPrinter(language.English)
	for _, f := range fics {
		p.Fprintf(w, "%s  %s by %s\n", f.ID, f.Title, f.Author)
		p.Fprintf(w, "    rating %s, %s, %d words in %d chapters\n", f.Rating, f.Status, f.Stats.Words, f.Stats.Chapters)
		p.Fprintf(w, "    %d kudos, %d hits, %d bookmarks, %d comments\n", f.Stats.Kudos, f.Stats.Hits, f.Stats.Bookmarks, f.Stats.Comments)
	}
}
