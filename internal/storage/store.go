package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/theLastOfCats/ficbox/internal/model"
)

const (
	KeyReadingStatus = "reading-status"
	KeyFicsCache     = "fics-cache"
)

// CacheTTL is how long a fics cache snapshot stays fresh.
const CacheTTL = 24 * time.Hour

// Store is the persistence layer for reading statuses and the fics cache.
// Reads never fail: missing or corrupt entries degrade to empty results and
// are logged. A Store without a KV behaves as if no storage exists.
type Store struct {
	kv     KV
	now    func() time.Time
	logger *slog.Logger
	prefix string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithKeyPrefix namespaces both keys, e.g. "caitvi-" yields "caitvi-reading-status".
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether the store has a backend to persist into.
func (s *Store) Available() bool {
	return s != nil && s.kv != nil
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// ReadingStatusMap never fails: a backend error is logged and reads as empty.
func (s *Store) ReadingStatusMap(ctx context.Context) model.ReadingStatusMap {
	m, err := s.LoadReadingStatusMap(ctx)
	if err != nil {
		s.logger.Error("failed to read reading status map", "error", err)
		return model.ReadingStatusMap{}
	}
	return m
}

// LoadReadingStatusMap is ReadingStatusMap for callers that must tell a
// backend failure from an empty map. Malformed data still reads as empty.
func (s *Store) LoadReadingStatusMap(ctx context.Context) (model.ReadingStatusMap, error) {
	if !s.Available() {
		return model.ReadingStatusMap{}, nil
	}

	raw, ok, err := s.kv.Get(ctx, s.key(KeyReadingStatus))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return model.ReadingStatusMap{}, nil
	}

	var m model.ReadingStatusMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.logger.Error("error parsing reading status map", "error", err)
		return model.ReadingStatusMap{}, nil
	}
	if m == nil {
		m = model.ReadingStatusMap{}
	}
	return m, nil
}

func (s *Store) ReadingStatus(ctx context.Context, id string) model.ReadingStatus {
	return s.ReadingStatusMap(ctx).Get(id)
}

// SetReadingStatus rewrites the whole map with id set to status. StatusNone is
// stored literally; dropping none entries is the Tracker's job. If the current
// map cannot be read nothing is written.
func (s *Store) SetReadingStatus(ctx context.Context, id string, status model.ReadingStatus) error {
	if !s.Available() {
		return nil
	}

	m, err := s.LoadReadingStatusMap(ctx)
	if err != nil {
		s.logger.Error("error reading status map before update", "fic_id", id, "error", err)
		return fmt.Errorf("reading status map: %w", err)
	}
	m[id] = status

	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key(KeyReadingStatus), string(raw)); err != nil {
		s.logger.Error("error saving reading status map", "fic_id", id, "error", err)
		return err
	}
	return nil
}

// cacheEnvelope accepts the legacy "updateAt" spelling written by older widgets.
type cacheEnvelope struct {
	Data           []model.Fic `json:"data"`
	UpdatedAt      *int64      `json:"updatedAt"`
	LegacyUpdateAt *int64      `json:"updateAt,omitempty"`
}

// FicsCache returns the cached catalog, or nil when there is no entry, the
// entry is unreadable, or it is older than CacheTTL.
func (s *Store) FicsCache(ctx context.Context) []model.Fic {
	if !s.Available() {
		return nil
	}

	raw, ok, err := s.kv.Get(ctx, s.key(KeyFicsCache))
	if err != nil {
		s.logger.Error("failed to read fics cache", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var env cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.logger.Error("error parsing fics cache", "error", err)
		return nil
	}

	updatedAt := env.UpdatedAt
	if updatedAt == nil {
		updatedAt = env.LegacyUpdateAt
	}
	if updatedAt == nil {
		s.logger.Warn("fics cache has no timestamp, treating as stale")
		return nil
	}

	age := s.now().UnixMilli() - *updatedAt
	if age > CacheTTL.Milliseconds() {
		return nil
	}
	if env.Data == nil {
		return []model.Fic{}
	}
	return env.Data
}

// SetFicsCache replaces the cache with data stamped now. Failures are logged
// and swallowed; the cache is best-effort.
func (s *Store) SetFicsCache(ctx context.Context, data []model.Fic) {
	if !s.Available() {
		return
	}

	if data == nil {
		data = []model.Fic{}
	}
	raw, err := json.Marshal(model.FicsCache{Data: data, UpdatedAt: s.now().UnixMilli()})
	if err != nil {
		s.logger.Error("error encoding fics cache", "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.key(KeyFicsCache), string(raw)); err != nil {
		s.logger.Error("error setting fics cache", "error", err)
	}
}

func (s *Store) ClearFicsCache(ctx context.Context) {
	if !s.Available() {
		return
	}
	if err := s.kv.Delete(ctx, s.key(KeyFicsCache)); err != nil {
		s.logger.Error("error clearing fics cache", "error", err)
	}
}
