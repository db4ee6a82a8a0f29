package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/theLastOfCats/ficbox/internal/db"
	"github.com/theLastOfCats/ficbox/internal/model"
)

// SetupTestDB creates an in-memory SQLite DB with schema, private to the test.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.New(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("Failed to init in-memory db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// Fic builds a valid catalog entry with the given id; opts adjust it.
func Fic(id string, opts ...func(*model.Fic)) model.Fic {
	f := model.Fic{
		ID:          id,
		Title:       "Fic " + id,
		Author:      "PiltoverWriter",
		Summary:     "A story about breaking apart and coming back together.",
		Rating:      model.RatingTeen,
		Category:    "F/F",
		Status:      model.PublicationCompleted,
		Tags:        []string{"Slow Burn"},
		State:       model.FicState{Spice: 1, Angst: 1, Fluff: 1},
		Stats:       model.FicStats{Words: 1000, Chapters: 1, Kudos: 10},
		AuthorStats: model.AuthorStats{Spice: 1, Angst: 1, Fluff: 1, Plot: 1, Romance: 1},
		OriginLink:  "https://archiveofourown.org/works/" + id,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithFluff(n int) func(*model.Fic) { return func(f *model.Fic) { f.State.Fluff = n } }
func WithAngst(n int) func(*model.Fic) { return func(f *model.Fic) { f.State.Angst = n } }
func WithSpice(n int) func(*model.Fic) { return func(f *model.Fic) { f.State.Spice = n } }
func WithKudos(n int) func(*model.Fic) { return func(f *model.Fic) { f.Stats.Kudos = n } }
