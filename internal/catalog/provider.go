package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/theLastOfCats/ficbox/internal/model"
	"github.com/theLastOfCats/ficbox/internal/storage"
)

type Provider interface {
	Fics(ctx context.Context) ([]model.Fic, error)
}

// FileProvider reads a JSON array of fics, the format cmd/etl writes.
type FileProvider struct {
	Path string
}

func (p FileProvider) Fics(_ context.Context) ([]model.Fic, error) {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Decode(raw)
}

// Decode parses and validates a catalog document. Duplicate ids are rejected.
func Decode(raw []byte) ([]model.Fic, error) {
	var fics []model.Fic
	if err := json.Unmarshal(raw, &fics); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(fics))
	for _, fic := range fics {
		if err := fic.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[fic.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", model.ErrInvalidFic, fic.ID)
		}
		seen[fic.ID] = struct{}{}
	}
	return fics, nil
}

// StaticProvider serves a fixed slice.
type StaticProvider []model.Fic

func (s StaticProvider) Fics(_ context.Context) ([]model.Fic, error) {
	return s, nil
}

// CachedProvider fronts an upstream provider with the store's fics cache.
// Every upstream load rewrites the cache wholesale.
type CachedProvider struct {
	Upstream Provider
	Store    *storage.Store
	Logger   *slog.Logger

	mu sync.Mutex
}

func (c *CachedProvider) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *CachedProvider) Fics(ctx context.Context) ([]model.Fic, error) {
	if fics := c.Store.FicsCache(ctx); fics != nil {
		return fics, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have filled the cache while we waited.
	if fics := c.Store.FicsCache(ctx); fics != nil {
		return fics, nil
	}
	return c.loadLocked(ctx)
}

// Refresh drops the cached snapshot and reloads from upstream.
func (c *CachedProvider) Refresh(ctx context.Context) ([]model.Fic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Store.ClearFicsCache(ctx)
	return c.loadLocked(ctx)
}

func (c *CachedProvider) loadLocked(ctx context.Context) ([]model.Fic, error) {
	fics, err := c.Upstream.Fics(ctx)
	if err != nil {
		return nil, err
	}
	c.Store.SetFicsCache(ctx, fics)
	c.logger().Info("catalog loaded from upstream", "fics", len(fics))
	return fics, nil
}
