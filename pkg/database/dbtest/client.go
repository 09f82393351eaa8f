// Package dbtest provides a shared testcontainers-backed PostgreSQL fixture
// for integration tests: a CI_DATABASE_URL passthrough for CI runners,
// falling back to a disposable postgres testcontainer locally, migrated with
// this module's own golang-migrate schema before being handed to the test.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/icfp25/aedificium/pkg/database"
)

// NewTestClient returns a *database.Client against either CI_DATABASE_URL
// (CI mode) or a fresh postgres testcontainer (local dev mode), migrated and
// ready to use. The container and connection pool are cleaned up via
// t.Cleanup.
func NewTestClient(t *testing.T) *database.Client {
	t.Helper()
	ctx := context.Background()

	connStr := os.Getenv("CI_DATABASE_URL")
	if connStr != "" {
		t.Log("dbtest: using external PostgreSQL from CI_DATABASE_URL")
	} else {
		t.Log("dbtest: using testcontainers for PostgreSQL")
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			if err := testcontainers.TerminateContainer(pgContainer); err != nil {
				t.Logf("dbtest: failed to terminate container: %v", err)
			}
		})

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = 10
	pool.MaxIdleConns = 5

	client, err := database.NewClient(connStr, pool)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
