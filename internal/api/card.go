package api

import (
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/recommend"
	"github.com/theLastOfCats/ficbox/internal/status"
	"github.com/theLastOfCats/ficbox/internal/templates"
)

// CardHandler serves HTML fragments the widget can embed directly.
type CardHandler struct {
	Catalog   Catalog
	Tracker   *status.Tracker
	Selector  *recommend.Selector
	Templates *templates.Manager
}

func (h *CardHandler) Fic(w http.ResponseWriter, r *http.Request) {
	fics, err := h.Catalog.Fics(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		http.Error(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}

	fic, ok := catalog.Find(fics, r.PathValue("id"))
	if !ok {
		http.Error(w, "Fic not found", http.StatusNotFound)
		return
	}
	h.render(w, templates.CardData{Fic: &fic, Status: h.Tracker.Status(r.Context(), fic.ID)})
}

// BlindBox opens a box for ?mood= and renders the result, or the empty card.
func (h *CardHandler) BlindBox(w http.ResponseWriter, r *http.Request) {
	mood, err := model.ParseMood(r.URL.Query().Get("mood"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fics, err := h.Catalog.Fics(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		http.Error(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}

	data := templates.CardData{Mood: mood, Fic: h.Selector.Pick(r.Context(), mood, fics)}
	if data.Fic != nil {
		data.Status = h.Tracker.Status(r.Context(), data.Fic.ID)
	}
	h.render(w, data)
}

func (h *CardHandler) render(w http.ResponseWriter, data templates.CardData) {
	html, err := h.Templates.RenderCard(data)
	if err != nil {
		slog.Error("error rendering card", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
