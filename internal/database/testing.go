package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/podium-picks/internal/config"
)

// TestConfigEnv names the config file used by database-backed tests
const TestConfigEnv = "PODIUM_PICKS_TEST_CONFIG"

// SetupTestDB connects to the test database, bootstraps the schema and
// skips the calling test when no test database is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("%s not set - skipping database test", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := BootstrapSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to bootstrap test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
