package testutil

import (
	"os"
	"testing"

	"github.com/theLastOfCats/ficbox/internal/db"
)

// SetupMySQLTestDB initializes a MySQL-backed DB for integration tests.
// It skips tests when MYSQL_TEST_DSN is not set.
func SetupMySQLTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set; skipping MySQL integration tests")
	}

	database, err := db.New(dsn)
	if err != nil {
		t.Fatalf("failed to init mysql test db: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close()
	})

	if _, err := database.Exec("TRUNCATE TABLE kv_store"); err != nil {
		t.Fatalf("mysql reset failed: %v", err)
	}
	return database
}

// RedisTestAddr returns REDIS_TEST_ADDR or skips the test.
func RedisTestAddr(t *testing.T) string {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set; skipping Redis integration tests")
	}
	return addr
}
