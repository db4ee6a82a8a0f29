package templates

import (
	"strings"
	"testing"

	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/testutil"
)

func TestRenderCard(t *testing.T) {
	m := NewManager()
	fic := testutil.Fic("1", testutil.WithFluff(4), func(f *model.Fic) {
		f.Title = "Cupcake & Sheriff"
		f.Quote = "Hey, cupcake."
		f.Rating = model.RatingMature
	})

	html, err := m.RenderCard(CardData{Fic: &fic, Status: model.StatusReading})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{
		`data-status="reading"`,
		"Cupcake &amp; Sheriff",
		`title="Mature"`,
		"●●●●○",
		"Hey, cupcake.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("card missing %q:\n%s", want, html)
		}
	}
}

func TestRenderEmptyCard(t *testing.T) {
	m := NewManager()
	html, err := m.RenderCard(CardData{Mood: model.MoodAngst})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "Nothing left to read for angst") {
		t.Errorf("unexpected empty card:\n%s", html)
	}
}

func TestRenderCaches(t *testing.T) {
	m := NewManager()
	if _, err := m.Render("empty.html", CardData{}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := m.Render("empty.html", CardData{}); err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if len(m.cache) != 1 {
		t.Errorf("expected 1 cached template, got %d", len(m.cache))
	}

	if _, err := m.Render("missing.html", nil); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestMeterClamps(t *testing.T) {
	meter := funcs["meter"].(func(int) string)
	if got := meter(9); got != "●●●●●" {
		t.Errorf("meter(9) = %q", got)
	}
	if got := meter(-1); got != "○○○○○" {
		t.Errorf("meter(-1) = %q", got)
	}
}
