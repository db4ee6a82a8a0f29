package ao3

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/theLastOfCats/ficbox/internal/model"
)

var ratingNames = map[string]model.Rating{
	"General Audiences":     model.RatingGeneral,
	"Teen And Up Audiences": model.RatingTeen,
	"Mature":                model.RatingMature,
	"Explicit":              model.RatingExplicit,
	"Not Rated":             model.RatingTeen,
}

// MapRating converts an AO3 rating name; unknown names count as Teen.
func MapRating(name string) model.Rating {
	if r, ok := ratingNames[strings.TrimSpace(name)]; ok {
		return r
	}
	return model.RatingTeen
}

// MapStatus treats anything mentioning "complete" as finished.
func MapStatus(status string) model.PublicationStatus {
	if strings.Contains(strings.ToLower(status), "complete") {
		return model.PublicationCompleted
	}
	return model.PublicationOngoing
}

var summaryPolicy = bluemonday.StrictPolicy()

// CleanSummary strips all markup from an AO3 summary block.
func CleanSummary(raw string) string {
	text := summaryPolicy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(text))
}

// IsTranslated reports whether any tag marks the work as a translation.
func IsTranslated(tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), "translation") {
			return true
		}
	}
	return false
}

func MapCategory(categories []string) string {
	for _, c := range categories {
		if strings.TrimSpace(c) == "F/F" {
			return "F/F"
		}
	}
	return "Other"
}

func FicID(workID int64) string {
	return "ao3_" + strconv.FormatInt(workID, 10)
}
