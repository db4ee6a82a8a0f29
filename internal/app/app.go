// Package app wires configuration into the storage, catalog and
// recommendation components shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/config"
	"github.com/theLastOfCats/ficbox/internal/db"
	"github.com/theLastOfCats/ficbox/internal/storage"
)

// Components bundles what cmd/server and cmd/ficbox both need.
type Components struct {
	Store   *storage.Store
	Catalog *catalog.CachedProvider
	close   func() error
}

func (c *Components) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// OpenKV picks the storage backend: memory when ephemeral, Redis when
// REDIS_ADDR is set, otherwise the SQLite/MySQL database at DB_PATH.
func OpenKV(ctx context.Context, cfg *config.Config, ephemeral bool, logger *slog.Logger) (storage.KV, func() error, error) {
	switch {
	case ephemeral:
		logger.Info("using in-memory storage")
		return storage.NewMemoryKV(), nil, nil
	case cfg.RedisAddr != "":
		kv, err := storage.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("using redis storage", "addr", cfg.RedisAddr)
		return kv, kv.Close, nil
	default:
		database, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using database storage", "dialect", database.Dialect(), "path", redactDSN(cfg.DBPath))
		return database, database.Close, nil
	}
}

func Open(ctx context.Context, cfg *config.Config, ephemeral bool, logger *slog.Logger) (*Components, error) {
	kv, closeFn, err := OpenKV(ctx, cfg, ephemeral, logger)
	if err != nil {
		return nil, err
	}

	store := storage.New(kv,
		storage.WithLogger(logger),
		storage.WithKeyPrefix(cfg.StorageKeyPrefix),
	)
	provider := &catalog.CachedProvider{
		Upstream: catalog.FileProvider{Path: cfg.CatalogPath},
		Store:    store,
		Logger:   logger,
	}
	return &Components{Store: store, Catalog: provider, close: closeFn}, nil
}

// redactDSN hides the password of a MySQL DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	creds := dsn[:at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":***"
	}
	return creds + dsn[at:]
}
