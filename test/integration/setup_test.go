// Package integration provides end-to-end tests for the data protection
// subsystem against a real PostgreSQL database. Tests are skipped unless
// TEST_DATABASE_URL points at a disposable database.
package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/require"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/app"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	testOperatorToken = "integration-test-operator-token"
	testKMSKeyURI     = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="
	testHashSecret    = "aW50ZWdyYXRpb24tdGVzdC1hdWRpdC1oYXNoLXNlY3JldC0wMDAx"
)

// testContext holds the container and database handle shared by one test.
type testContext struct {
	container *app.Container
	db        *sql.DB
}

// setupTestContext migrates the test database, wipes all tables, and builds a
// container wired to it. The lockout and blacklist thresholds are lowered so
// escalation paths are reachable in a handful of requests.
func setupTestContext(t *testing.T) *testContext {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gin.SetMode(gin.TestMode)
	runMigrations(t, dsn)

	cfg := &config.Config{
		ServerHost:           "127.0.0.1",
		ServerPort:           8080,
		OperatorToken:        testOperatorToken,
		DBDriver:             "postgres",
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		LogLevel:             "error",
		KMSKeyURI:            testKMSKeyURI,
		EncryptionAlgorithm:  "aes-gcm",
		AuditHashSecret:      testHashSecret,
		AuditRetentionDays:   3650,
		LockoutMaxAttempts:   3,
		BlacklistThreshold:   6,
		// High enough that pattern analysis never fires during these tests.
		PatternRepeatThreshold:     1000,
		PatternDistinctIPThreshold: 1000,
		NotificationTimeout:        time.Second,
		NotificationRatePerSec:     100,
		NotificationBurst:          10,
		RateLimitEnabled:           false,
		CORSEnabled:                false,
		MetricsEnabled:             false,
	}

	container := app.NewContainer(cfg)

	db, err := container.DB()
	require.NoError(t, err, "failed to connect to test database")

	_, err = db.Exec(`TRUNCATE audit_events, encryption_keys, lockout_records,
		blacklist_entries, patients, providers, appointments, insurance_policies
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "failed to reset test database")

	t.Cleanup(func() {
		if err := container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: failed to shutdown container: %v", err)
		}
	})

	return &testContext{container: container, db: db}
}

func runMigrations(t *testing.T, dsn string) {
	t.Helper()

	m, err := migrate.New("file://../../migrations/postgres", dsn)
	require.NoError(t, err, "failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to run migrations: %v", err)
	}

	sourceErr, dbErr := m.Close()
	require.NoError(t, sourceErr, "failed to close migration source")
	require.NoError(t, dbErr, "failed to close migration database")
}
