package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/hellraiser/internal/config"
)

// SetupTestDB creates a test database connection and ensures the schema exists.
// Tests are skipped unless HELLRAISER_TEST_DB points at a reachable database.
func SetupTestDB(t *testing.T) *DB {
	if os.Getenv("HELLRAISER_TEST_DB") == "" {
		t.Skip("HELLRAISER_TEST_DB not set; skipping database test")
	}

	cfg, err := config.LoadWithDefaults(os.Getenv("HELLRAISER_TEST_CONFIG"))
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	cfg.Database.Name = os.Getenv("HELLRAISER_TEST_DB")

	// Create context for connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	// Apply the archive schema before any test touches it
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()

	if err := db.EnsureSchema(schemaCtx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

// TruncateArchive clears archived predictions between test cases
func TruncateArchive(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "TRUNCATE home_run_predictions"); err != nil {
		t.Fatalf("failed to truncate prediction archive: %v", err)
	}
}
