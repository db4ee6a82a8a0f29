package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/status"
)

type StatusHandler struct {
	Tracker *status.Tracker
	Catalog Catalog
}

type StatusResponse struct {
	ID     string              `json:"id"`
	Status model.ReadingStatus `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.Snapshot(r.Context()))
}

func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, StatusResponse{ID: id, Status: h.Tracker.Status(r.Context(), id)})
}

func (h *StatusHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	st, err := model.ParseReadingStatus(req.Status)
	if err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.Catalog != nil {
		fics, err := h.Catalog.Fics(r.Context())
		if err != nil {
			slog.Error("error loading catalog", "error", err)
			JSONError(w, "Catalog unavailable", http.StatusInternalServerError)
			return
		}
		if _, ok := catalog.Find(fics, id); !ok {
			JSONError(w, "Fic not found", http.StatusNotFound)
			return
		}
	}

	if err := h.Tracker.Update(r.Context(), id, st); err != nil {
		slog.Error("error saving reading status", "fic_id", id, "error", err)
		JSONError(w, "Storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{ID: id, Status: st})
}
