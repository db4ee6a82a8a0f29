// Package status keeps an in-memory mirror of the reader's status map in
// step with the persistence store.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/theLastOfCats/ficbox/internal/model"
)

// Backend is the persistence the Tracker writes through to; *storage.Store implements it.
type Backend interface {
	LoadReadingStatusMap(ctx context.Context) (model.ReadingStatusMap, error)
	SetReadingStatus(ctx context.Context, id string, status model.ReadingStatus) error
}

// Tracker serves status reads from memory. The mirror never holds StatusNone:
// setting none removes the entry, so Snapshot only lists fics with a status.
// The map is loaded on first use; a failed load is retried on the next call.
type Tracker struct {
	backend Backend

	mu     sync.RWMutex
	loaded bool
	mirror model.ReadingStatusMap
}

func NewTracker(backend Backend) *Tracker {
	return &Tracker{backend: backend}
}

func (t *Tracker) load(ctx context.Context) error {
	t.mu.RLock()
	loaded := t.loaded
	t.mu.RUnlock()
	if loaded {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx)
}

func (t *Tracker) loadLocked(ctx context.Context) error {
	if t.loaded {
		return nil
	}

	m, err := t.backend.LoadReadingStatusMap(ctx)
	if err != nil {
		return fmt.Errorf("loading reading statuses: %w", err)
	}
	mirror := make(model.ReadingStatusMap, len(m))
	for id, st := range m {
		if st != model.StatusNone {
			mirror[id] = st
		}
	}
	t.mirror = mirror
	t.loaded = true
	return nil
}

// Status reads none while the map cannot be loaded.
func (t *Tracker) Status(ctx context.Context, id string) model.ReadingStatus {
	if err := t.load(ctx); err != nil {
		slog.Error("reading status unavailable", "fic_id", id, "error", err)
		return model.StatusNone
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mirror.Get(id)
}

// Update writes status through to the backend and then mirrors it. When the
// write fails the mirror is left as it was.
func (t *Tracker) Update(ctx context.Context, id string, status model.ReadingStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.loadLocked(ctx); err != nil {
		return err
	}

	if err := t.backend.SetReadingStatus(ctx, id, status); err != nil {
		return fmt.Errorf("saving status of %s: %w", id, err)
	}

	if status == model.StatusNone {
		delete(t.mirror, id)
	} else {
		t.mirror[id] = status
	}
	return nil
}

func (t *Tracker) Snapshot(ctx context.Context) model.ReadingStatusMap {
	if err := t.load(ctx); err != nil {
		slog.Error("reading statuses unavailable", "error", err)
		return model.ReadingStatusMap{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mirror.Clone()
}
