// Package catalog loads, caches and filters the fic catalog.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/theLastOfCats/ficbox/internal/model"
)

// Filter narrows the catalog. Zero fields do not filter.
type Filter struct {
	Query  string
	Rating model.Rating
	Status model.PublicationStatus
}

// Apply returns the fics matching f in catalog order. The query matches the
// title, the author or any tag, ignoring case.
func (f Filter) Apply(fics []model.Fic) []model.Fic {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(f.Query))

	out := make([]model.Fic, 0, len(fics))
	for _, fic := range fics {
		if q != "" && !matchesQuery(fold, fic, q) {
			continue
		}
		if f.Rating != "" && fic.Rating != f.Rating {
			continue
		}
		if f.Status != "" && fic.Status != f.Status {
			continue
		}
		out = append(out, fic)
	}
	return out
}

func matchesQuery(fold cases.Caser, fic model.Fic, q string) bool {
	if strings.Contains(fold.String(fic.Title), q) || strings.Contains(fold.String(fic.Author), q) {
		return true
	}
	for _, tag := range fic.Tags {
		if strings.Contains(fold.String(tag), q) {
			return true
		}
	}
	return false
}

func Find(fics []model.Fic, id string) (model.Fic, bool) {
	for _, fic := range fics {
		if fic.ID == id {
			return fic, true
		}
	}
	return model.Fic{}, false
}
