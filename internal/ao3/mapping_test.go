package ao3

import (
	"testing"

	"github.com/theLastOfCats/ficbox/internal/model"
)

func TestMapRating(t *testing.T) {
	tests := map[string]model.Rating{
		"General Audiences":     model.RatingGeneral,
		"Teen And Up Audiences": model.RatingTeen,
		"Mature":                model.RatingMature,
		" Explicit ":            model.RatingExplicit,
		"Not Rated":             model.RatingTeen,
		"Something Else":        model.RatingTeen,
	}
	for in, want := range tests {
		if got := MapRating(in); got != want {
			t.Errorf("MapRating(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapStatus(t *testing.T) {
	if got := MapStatus("Completed"); got != model.PublicationCompleted {
		t.Errorf("got %q", got)
	}
	if got := MapStatus("Work in Progress"); got != model.PublicationOngoing {
		t.Errorf("got %q", got)
	}
	if got := MapStatus(""); got != model.PublicationOngoing {
		t.Errorf("got %q", got)
	}
}

func TestCleanSummary(t *testing.T) {
	in := `<p>After the <em>Council</em> explosion,</p> <p>Caitlyn &amp; Vi</p><script>alert(1)</script>`
	got := CleanSummary(in)
	want := "After the Council explosion, Caitlyn & Vi"
	if got != want {
		t.Errorf("CleanSummary = %q, want %q", got, want)
	}
}

func TestIsTranslated(t *testing.T) {
	if !IsTranslated([]string{"Fluff", "Translation Available"}) {
		t.Error("expected translated")
	}
	if IsTranslated([]string{"Fluff", "Angst"}) {
		t.Error("expected not translated")
	}
}

func TestMapCategory(t *testing.T) {
	if got := MapCategory([]string{"F/M", "F/F"}); got != "F/F" {
		t.Errorf("got %q", got)
	}
	if got := MapCategory(nil); got != "Other" {
		t.Errorf("got %q", got)
	}
}
