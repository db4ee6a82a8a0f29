package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFic    = errors.New("invalid fic")
	ErrUnknownStatus = errors.New("unknown reading status")
	ErrUnknownMood   = errors.New("unknown mood")
)

// MaxScore is the top of the 0-5 intensity scale used by State and AuthorStats.
const MaxScore = 5

type Rating string

const (
	RatingGeneral  Rating = "G"
	RatingTeen     Rating = "T"
	RatingMature   Rating = "M"
	RatingExplicit Rating = "E"
)

type RatingInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var Ratings = map[Rating]RatingInfo{
	RatingGeneral:  {Label: "G", Description: "General Audiences"},
	RatingTeen:     {Label: "T", Description: "Teen And Up Audiences"},
	RatingMature:   {Label: "M", Description: "Mature"},
	RatingExplicit: {Label: "E", Description: "Explicit"},
}

func (r Rating) Valid() bool {
	_, ok := Ratings[r]
	return ok
}

// PublicationStatus is whether the author has finished the work, not whether
// the reader has.
type PublicationStatus string

const (
	PublicationCompleted PublicationStatus = "completed"
	PublicationOngoing   PublicationStatus = "ongoing"
)

func (s PublicationStatus) Valid() bool {
	return s == PublicationCompleted || s == PublicationOngoing
}

type FicState struct {
	Spice int `json:"spice"`
	Angst int `json:"angst"`
	Fluff int `json:"fluff"`
}

type FicStats struct {
	Words     int `json:"words"`
	Chapters  int `json:"chapters"`
	Kudos     int `json:"kudos"`
	Hits      int `json:"hits"`
	Comments  int `json:"comments"`
	Bookmarks int `json:"bookmarks"`
}

type AuthorStats struct {
	Spice   int `json:"spice"`
	Angst   int `json:"angst"`
	Fluff   int `json:"fluff"`
	Plot    int `json:"plot"`
	Romance int `json:"romance"`
}

type Fic struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Author       string            `json:"author"`
	Summary      string            `json:"summary"`
	Rating       Rating            `json:"rating"`
	Category     string            `json:"category"`
	Status       PublicationStatus `json:"status"`
	IsTranslated bool              `json:"isTranslated"`
	Tags         []string          `json:"tags,omitempty"`
	State        FicState          `json:"state"`
	Stats        FicStats          `json:"stats"`
	Quote        string            `json:"quote"`
	AuthorStats  AuthorStats       `json:"authorStats"`
	OriginLink   string            `json:"originLink"`
}

// Validate checks the invariants a catalog entry must satisfy before it is served.
func (f Fic) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidFic)
	}
	if !f.Rating.Valid() {
		return fmt.Errorf("%w: %s has rating %q", ErrInvalidFic, f.ID, f.Rating)
	}
	if !f.Status.Valid() {
		return fmt.Errorf("%w: %s has status %q", ErrInvalidFic, f.ID, f.Status)
	}

	scores := map[string]int{
		"state.spice":         f.State.Spice,
		"state.angst":         f.State.Angst,
		"state.fluff":         f.State.Fluff,
		"authorStats.spice":   f.AuthorStats.Spice,
		"authorStats.angst":   f.AuthorStats.Angst,
		"authorStats.fluff":   f.AuthorStats.Fluff,
		"authorStats.plot":    f.AuthorStats.Plot,
		"authorStats.romance": f.AuthorStats.Romance,
	}
	for name, v := range scores {
		if v < 0 || v > MaxScore {
			return fmt.Errorf("%w: %s has %s=%d outside 0-%d", ErrInvalidFic, f.ID, name, v, MaxScore)
		}
	}

	counts := map[string]int{
		"words":     f.Stats.Words,
		"chapters":  f.Stats.Chapters,
		"kudos":     f.Stats.Kudos,
		"hits":      f.Stats.Hits,
		"comments":  f.Stats.Comments,
		"bookmarks": f.Stats.Bookmarks,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: %s has negative %s", ErrInvalidFic, f.ID, name)
		}
	}
	return nil
}

type ReadingStatus string

const (
	StatusNone      ReadingStatus = "none"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
	StatusDropped   ReadingStatus = "dropped"
)

func ParseReadingStatus(s string) (ReadingStatus, error) {
	switch st := ReadingStatus(s); st {
	case StatusNone, StatusReading, StatusCompleted, StatusDropped:
		return st, nil
	case "":
		return StatusNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// ReadingStatusMap maps fic id to the reader's status. A missing id means StatusNone.
type ReadingStatusMap map[string]ReadingStatus

func (m ReadingStatusMap) Get(id string) ReadingStatus {
	if st, ok := m[id]; ok {
		return st
	}
	return StatusNone
}

func (m ReadingStatusMap) Clone() ReadingStatusMap {
	out := make(ReadingStatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type FicsCache struct {
	Data      []Fic `json:"data"`
	UpdatedAt int64 `json:"updatedAt"` // Unix milliseconds
}

type Mood string

const (
	MoodFluff Mood = "fluff"
	MoodAngst Mood = "angst"
	MoodSpicy Mood = "spicy"
)

var Moods = []Mood{MoodFluff, MoodAngst, MoodSpicy}

func ParseMood(s string) (Mood, error) {
	switch m := Mood(s); m {
	case MoodFluff, MoodAngst, MoodSpicy:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
}

// Score returns the intensity correlated with the mood, or -1 for an unknown mood.
func (m Mood) Score(s FicState) int {
	switch m {
	case MoodFluff:
		return s.Fluff
	case MoodAngst:
		return s.Angst
	case MoodSpicy:
		return s.Spice
	default:
		return -1
	}
}
