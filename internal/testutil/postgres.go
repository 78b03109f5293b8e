//go:build integration

// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresURLEnv, when set, points the integration tests at an existing
// database instead of starting a container.
const PostgresURLEnv = "KIBBLE_TEST_POSTGRES_URL"

// SetupPostgres returns a connection string for a database that lives until
// the test ends.
func SetupPostgres(t testing.TB) string {
	t.Helper()
	if url := os.Getenv(PostgresURLEnv); url != "" {
		return url
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("kibble_test"),
		postgres.WithUsername("kibble"),
		postgres.WithPassword("kibble"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	return connStr
}
