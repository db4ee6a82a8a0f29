package recommend

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/storage"
	"github.com/theLastOfCats/ficbox/internal/testutil"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPickExcludesReadingFic(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(5)),
		testutil.Fic("b", testutil.WithFluff(5)),
	}
	statuses := model.ReadingStatusMap{"a": model.StatusReading}
	rng := seeded()

	for i := 0; i < 100; i++ {
		got := PickRandomFic(model.MoodFluff, fics, statuses, rng)
		if got == nil || got.ID != "b" {
			t.Fatalf("trial %d: expected b, got %v", i, got)
		}
	}
}

func TestPickFallsBackToMostKudos(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(2), testutil.WithKudos(100)),
		testutil.Fic("b", testutil.WithFluff(1), testutil.WithKudos(500)),
	}
	rng := seeded()

	for i := 0; i < 20; i++ {
		got := PickRandomFic(model.MoodFluff, fics, nil, rng)
		if got == nil || got.ID != "b" {
			t.Fatalf("expected kudos fallback b, got %v", got)
		}
	}
}

func TestPickFallbackTieGoesToFirst(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithKudos(10)),
		testutil.Fic("b", testutil.WithKudos(300)),
		testutil.Fic("c", testutil.WithKudos(300)),
	}

	got := PickRandomFic(model.MoodAngst, fics, nil, seeded())
	if got == nil || got.ID != "b" {
		t.Errorf("expected first max-kudos fic b, got %v", got)
	}
}

func TestPickFallbackSkipsIneligible(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithKudos(900)),
		testutil.Fic("b", testutil.WithKudos(50)),
	}
	statuses := model.ReadingStatusMap{"a": model.StatusCompleted}

	got := PickRandomFic(model.MoodSpicy, fics, statuses, seeded())
	if got == nil || got.ID != "b" {
		t.Errorf("expected b, got %v", got)
	}
}

func TestPickReturnsNilWhenNothingEligible(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(5), testutil.WithAngst(5), testutil.WithSpice(5)),
		testutil.Fic("b"),
	}
	statuses := model.ReadingStatusMap{"a": model.StatusReading, "b": model.StatusCompleted}

	for _, mood := range model.Moods {
		if got := PickRandomFic(mood, fics, statuses, seeded()); got != nil {
			t.Errorf("mood %s: expected nil, got %v", mood, got.ID)
		}
	}
	if got := PickRandomFic(model.MoodFluff, nil, nil, seeded()); got != nil {
		t.Errorf("expected nil for empty catalog, got %v", got)
	}
}

func TestPickDroppedAndNoneAreEligible(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithAngst(4)),
	}
	for _, st := range []model.ReadingStatus{model.StatusNone, model.StatusDropped} {
		got := PickRandomFic(model.MoodAngst, fics, model.ReadingStatusMap{"a": st}, seeded())
		if got == nil || got.ID != "a" {
			t.Errorf("status %s: expected a, got %v", st, got)
		}
	}
}

func TestPickUsesMoodField(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("fluffy", testutil.WithFluff(5), testutil.WithKudos(1)),
		testutil.Fic("sad", testutil.WithAngst(5), testutil.WithKudos(1)),
		testutil.Fic("hot", testutil.WithSpice(4), testutil.WithKudos(1)),
		testutil.Fic("popular", testutil.WithKudos(10000)),
	}
	cases := map[model.Mood]string{
		model.MoodFluff: "fluffy",
		model.MoodAngst: "sad",
		model.MoodSpicy: "hot",
	}
	for mood, want := range cases {
		got := PickRandomFic(mood, fics, nil, seeded())
		if got == nil || got.ID != want {
			t.Errorf("mood %s: expected %s, got %v", mood, want, got)
		}
	}
}

func TestPickResultIsElementOfInput(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithSpice(5)),
		testutil.Fic("b", testutil.WithSpice(3)),
	}
	got := PickRandomFic(model.MoodSpicy, fics, nil, seeded())
	if got != &fics[0] {
		t.Errorf("expected pointer into input slice")
	}
}

func TestPickIsUniformOverMatchedSet(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(4)),
		testutil.Fic("b", testutil.WithFluff(5)),
		testutil.Fic("c", testutil.WithFluff(3), testutil.WithKudos(99999)),
		testutil.Fic("d", testutil.WithFluff(5)),
		testutil.Fic("e", testutil.WithFluff(5)),
	}
	statuses := model.ReadingStatusMap{"e": model.StatusReading}
	rng := seeded()

	const trials = 30000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		got := PickRandomFic(model.MoodFluff, fics, statuses, rng)
		if got == nil {
			t.Fatal("unexpected nil")
		}
		counts[got.ID]++
	}

	if counts["c"] != 0 || counts["e"] != 0 {
		t.Fatalf("picked outside the matched eligible set: %v", counts)
	}
	expected := trials / 3
	for _, id := range []string{"a", "b", "d"} {
		if diff := counts[id] - expected; diff < -expected/10 || diff > expected/10 {
			t.Errorf("fic %s picked %d times, expected about %d", id, counts[id], expected)
		}
	}
}

func TestUnknownMoodFallsBack(t *testing.T) {
	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(5), testutil.WithKudos(1)),
		testutil.Fic("b", testutil.WithKudos(2)),
	}
	got := PickRandomFic(model.Mood("sleepy"), fics, nil, seeded())
	if got == nil || got.ID != "b" {
		t.Errorf("expected kudos fallback for unknown mood, got %v", got)
	}
}

func TestSelectorReloadsStatuses(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemoryKV())
	selector := NewSelector(store, NewLockedRand(7))

	fics := []model.Fic{
		testutil.Fic("a", testutil.WithFluff(5)),
		testutil.Fic("b", testutil.WithFluff(5)),
	}

	if err := store.SetReadingStatus(ctx, "a", model.StatusReading); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if got := selector.Pick(ctx, model.MoodFluff, fics); got == nil || got.ID != "b" {
			t.Fatalf("expected b while a is being read, got %v", got)
		}
	}

	store.SetReadingStatus(ctx, "b", model.StatusCompleted)
	store.SetReadingStatus(ctx, "a", model.StatusDropped)
	for i := 0; i < 20; i++ {
		if got := selector.Pick(ctx, model.MoodFluff, fics); got == nil || got.ID != "a" {
			t.Fatalf("expected a after status change, got %v", got)
		}
	}
}

func TestRevealWaitsAfterPick(t *testing.T) {
	fic := testutil.Fic("a")
	picked := false

	start := time.Now()
	got, err := Reveal(context.Background(), 20*time.Millisecond, func() *model.Fic {
		picked = true
		return &fic
	})
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if !picked || got == nil || got.ID != "a" {
		t.Errorf("expected picked fic a, got %v", got)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("result surfaced before the reveal delay")
	}
}

func TestRevealCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fic := testutil.Fic("a")
	got, err := Reveal(ctx, time.Hour, func() *model.Fic { return &fic })
	if err == nil || got != nil {
		t.Errorf("expected cancellation without result, got %v, %v", got, err)
	}
}
