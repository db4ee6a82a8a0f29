// Package recommend picks a blind-box fic for a mood.
package recommend

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/theLastOfCats/ficbox/internal/model"
)

// MoodThreshold is the minimum mood-correlated score for a fic to match.
const MoodThreshold = 4

// Rand is the random source used for the uniform pick. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// LockedRand wraps a seeded generator for use from concurrent requests.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed uint64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// PickRandomFic returns a fic from fics for the mood, or nil when none is
// eligible. Fics the reader is reading or has completed are never picked.
// Among eligible fics scoring at least MoodThreshold one is chosen uniformly;
// if none scores that high, the eligible fic with the most kudos wins, ties
// going to the earliest. The result points into fics.
func PickRandomFic(mood model.Mood, fics []model.Fic, statuses model.ReadingStatusMap, rng Rand) *model.Fic {
	if rng == nil {
		rng = globalRand{}
	}

	available := make([]int, 0, len(fics))
	for i := range fics {
		switch statuses.Get(fics[i].ID) {
		case model.StatusReading, model.StatusCompleted:
			continue
		}
		available = append(available, i)
	}

	matched := make([]int, 0, len(available))
	for _, i := range available {
		if mood.Score(fics[i].State) >= MoodThreshold {
			matched = append(matched, i)
		}
	}

	if len(matched) == 0 {
		best := -1
		for _, i := range available {
			if best < 0 || fics[i].Stats.Kudos > fics[best].Stats.Kudos {
				best = i
			}
		}
		if best < 0 {
			return nil
		}
		return &fics[best]
	}

	return &fics[matched[rng.IntN(len(matched))]]
}

// StatusSource supplies the current reading statuses; *storage.Store implements it.
type StatusSource interface {
	ReadingStatusMap(ctx context.Context) model.ReadingStatusMap
}

type Selector struct {
	statuses StatusSource
	rng      Rand
}

func NewSelector(statuses StatusSource, rng Rand) *Selector {
	if rng == nil {
		rng = globalRand{}
	}
	return &Selector{statuses: statuses, rng: rng}
}

// Pick reloads the status map on every call so status changes made between
// picks are honoured.
func (s *Selector) Pick(ctx context.Context, mood model.Mood, fics []model.Fic) *model.Fic {
	var statuses model.ReadingStatusMap
	if s.statuses != nil {
		statuses = s.statuses.ReadingStatusMap(ctx)
	}
	return PickRandomFic(mood, fics, statuses, s.rng)
}
