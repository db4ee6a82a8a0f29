package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/theLastOfCats/ficbox/internal/config"
	"github.com/theLastOfCats/ficbox/internal/model"
)

func TestOpenWithSQLiteFile(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "fics.json")
	doc := `[{"id":"a","title":"A","rating":"G","status":"completed","state":{"fluff":5}}]`
	if err := os.WriteFile(catalogPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		DBPath:           filepath.Join(dir, "nested", "ficbox.db"),
		CatalogPath:      catalogPath,
		StorageKeyPrefix: "caitvi-",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	c, err := Open(ctx, cfg, false, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	fics, err := c.Catalog.Fics(ctx)
	if err != nil || len(fics) != 1 {
		t.Fatalf("expected one fic, got %v, %v", fics, err)
	}
	if err := c.Store.SetReadingStatus(ctx, "a", model.StatusReading); err != nil {
		t.Fatal(err)
	}
	c.Close()

	// State survives reopening the same file.
	c, err = Open(ctx, cfg, false, logger)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer c.Close()
	if got := c.Store.ReadingStatus(ctx, "a"); got != model.StatusReading {
		t.Errorf("expected persisted status, got %q", got)
	}
}

func TestOpenEphemeral(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := Open(context.Background(), &config.Config{CatalogPath: "unused.json"}, true, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !c.Store.Available() {
		t.Error("ephemeral store should be available")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestRedactDSN(t *testing.T) {
	if got := redactDSN("user:secret@tcp(localhost:3306)/ficbox"); got != "user:***@tcp(localhost:3306)/ficbox" {
		t.Errorf("got %q", got)
	}
	if got := redactDSN("data/ficbox.db"); got != "data/ficbox.db" {
		t.Errorf("got %q", got)
	}
}
