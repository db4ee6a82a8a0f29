package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/model"
)

// Catalog supplies the current fic list; *catalog.CachedProvider implements it.
type Catalog interface {
	Fics(ctx context.Context) ([]model.Fic, error)
}

type FicHandler struct {
	Catalog Catalog
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Alive"))
}

func (h *FicHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query:  q.Get("q"),
		Rating: model.Rating(q.Get("rating")),
		Status: model.PublicationStatus(q.Get("status")),
	}
	if filter.Rating != "" && !filter.Rating.Valid() {
		JSONError(w, "Unknown rating", http.StatusBadRequest)
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		JSONError(w, "Unknown status", http.StatusBadRequest)
		return
	}

	fics, err := h.Catalog.Fics(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		JSONError(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, filter.Apply(fics))
}

func (h *FicHandler) Get(w http.ResponseWriter, r *http.Request) {
	fics, err := h.Catalog.Fics(r.Context())
	if err != nil {
		slog.Error("error loading catalog", "error", err)
		JSONError(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}

	fic, ok := catalog.Find(fics, r.PathValue("id"))
	if !ok {
		JSONError(w, "Fic not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, fic)
}

// CacheHandler lets the widget force a catalog reload.
type CacheHandler struct {
	Provider interface {
		Refresh(ctx context.Context) ([]model.Fic, error)
	}
}

func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	fics, err := h.Provider.Refresh(r.Context())
	if err != nil {
		slog.Error("error refreshing catalog", "error", err)
		JSONError(w, "Catalog unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"fics": len(fics)})
}
