package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQLite string

//go:embed schema_mysql.sql
var schemaMySQL string

const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

type DB struct {
	*sql.DB
	dialect string
}

func New(dsn string) (*DB, error) {
	var db *sql.DB
	var err error
	var dbType string

	// MySQL DSN examples: user:password@tcp(host:port)/dbname, user:password@/dbname
	// SQLite DSN: file path (e.g., data/ficbox.db, :memory:, file:name?mode=memory)
	isMySQL := strings.Contains(dsn, "@")

	if isMySQL {
		dbType = DialectMySQL
		db, err = sql.Open("mysql", dsn)
	} else {
		dbType = DialectSQLite
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			dir := filepath.Dir(dsn)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		if !strings.Contains(dsn, "?") {
			dsn += "?"
		} else {
			dsn += "&"
		}

		// modernc.org/sqlite uses _pragma query parameters
		pragmas := []string{
			"_pragma=journal_mode(WAL)",
			"_pragma=busy_timeout(30000)",
			"_pragma=synchronous(NORMAL)",
		}
		dsn += strings.Join(pragmas, "&")

		db, err = sql.Open("sqlite", dsn)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if dbType == DialectSQLite {
		// A single writer keeps read-modify-write of the status map serialised.
		db.SetMaxOpenConns(1)
	}

	if err := initSchema(db, dbType); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{DB: db, dialect: dbType}, nil
}

func initSchema(db *sql.DB, dbType string) error {
	var schema string
	if dbType == DialectMySQL {
		schema = schemaMySQL
	} else {
		schema = schemaSQLite
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (db *DB) Dialect() string {
	return db.dialect
}

// Get returns the stored value for key. ok is false when the key is absent.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT storage_value FROM kv_store WHERE storage_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (db *DB) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (storage_key, storage_value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(storage_key) DO UPDATE SET storage_value=excluded.storage_value, updated_at=excluded.updated_at`
	if db.dialect == DialectMySQL {
		query = `INSERT INTO kv_store (storage_key, storage_value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE storage_value=VALUES(storage_value), updated_at=VALUES(updated_at)`
	}
	_, err := db.ExecContext(ctx, query, key, value, time.Now().UnixMilli())
	return err
}

func (db *DB) Delete(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM kv_store WHERE storage_key = ?`, key)
	return err
}
