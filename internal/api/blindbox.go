package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/recommend"
)

type BlindBoxHandler struct {
	Catalog  Catalog
	Selector *recommend.Selector
}

type BlindBoxRequest struct {
	Mood string `json:"mood"`
}

// BlindBoxResponse carries a nil Fic when nothing can be recommended; the
// widget renders that as its empty state.
type BlindBoxResponse struct {
	Mood model.Mood `json:"mood"`
	Fic  *model.Fic `json:"fic"`
}

func (h *BlindBoxHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req BlindBoxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mood, err := model.ParseMood(req.Mood)
	if err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fics, err := h.Catalog.Fics(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		JSONError(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}

	fic := h.Selector.Pick(r.Context(), mood, fics)
	writeJSON(w, http.StatusOK, BlindBoxResponse{Mood: mood, Fic: fic})
}
