// Package dbtest connects integration tests to real databases.
// Tests are skipped unless the matching DSN variable is set.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/selivandex/newslens/internal/adapters/database"
	"github.com/selivandex/newslens/pkg/models"
)

const (
	PostgresDSNEnv   = "NEWSLENS_TEST_POSTGRES_DSN"
	ClickHouseDSNEnv = "NEWSLENS_TEST_CLICKHOUSE_DSN"
)

// MigrationsPath returns the absolute path of the repository migrations
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

// Postgres connects to the test PostgreSQL database and applies migrations.
// The connection is closed when the test ends.
func Postgres(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if testing.Short() || dsn == "" {
		t.Skipf("skipping PostgreSQL integration test (set %s)", PostgresDSNEnv)
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := database.Wrap(conn)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close database: %v", err)
		}
	})

	if err := database.RunMigrations(db.Conn(), MigrationsPath()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// ClickHouse connects to the test ClickHouse database
func ClickHouse(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(ClickHouseDSNEnv)
	if testing.Short() || dsn == "" {
		t.Skipf("skipping ClickHouse integration test (set %s)", ClickHouseDSNEnv)
	}

	conn, err := sqlx.Connect("clickhouse", dsn)
	if err != nil {
		t.Fatalf("failed to connect to test ClickHouse: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// CreateRun inserts an analysis run and removes it, with everything that
// references it, when the test ends
func CreateRun(t *testing.T, db *database.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.DB().Exec(`
		INSERT INTO analysis_runs (id, news_file, tickers, headlines, mean_score)
		VALUES ($1, 'test.csv', '{AAPL}', 0, 0)
	`, id)
	if err != nil {
		t.Fatalf("failed to create test run: %v", err)
	}

	t.Cleanup(func() { DeleteRun(t, db, id) })

	return id
}

// DeleteRun removes a run and its cascaded rows
func DeleteRun(t *testing.T, db *database.DB, id uuid.UUID) {
	t.Helper()

	if _, err := db.DB().ExecContext(context.Background(), "DELETE FROM analysis_runs WHERE id = $1", id); err != nil {
		t.Logf("warning: failed to delete test run: %v", err)
	}
}

// SentimentFixture returns news records with matching sentiment results
func SentimentFixture() ([]models.NewsRecord, []models.SentimentResult) {
	news := []models.NewsRecord{
		{Row: 0, Headline: "Apple stock is great", Publisher: "Lisa Levin", Stock: "AAPL"},
		{Row: 1, Headline: "Apple outlook looks bad", Publisher: "vick@benzinga.com", Organization: "benzinga", Stock: "AAPL"},
	}
	results := []models.SentimentResult{
		{Row: 0, Headline: news[0].Headline, Score: 0.6249, Category: models.CategoryPositive, Group: models.GroupPositive},
		{Row: 1, Headline: news[1].Headline, Score: -0.5423, Category: models.CategoryNegative, Group: models.GroupNegative},
	}
	return news, results
}
