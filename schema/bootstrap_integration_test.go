//go:build integration

package schema

import (
	"context"
	"testing"

	"github.com/ripkitten-co/kibble/internal/pg"
	"github.com/ripkitten-co/kibble/internal/testutil"
)

func setupSchemaTest(t *testing.T) (pg.Executor, context.Context) {
	t.Helper()
	connStr := testutil.SetupPostgres(t)
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool, ctx
}

func TestEnsureSets(t *testing.T) {
	exec, ctx := setupSchemaTest(t)
	b := New()

	if err := b.EnsureSets(ctx, exec, DefaultTable); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !b.IsCreated(DefaultTable) {
		t.Fatal("table should be cached after creation")
	}

	// second call hits the cache path
	if err := b.EnsureSets(ctx, exec, DefaultTable); err != nil {
		t.Fatalf("cached call: %v", err)
	}

	_, err := exec.Exec(ctx,
		`INSERT INTO kibble_sets (key, member) VALUES ($1, $2)`,
		"custom_1", []byte{0x00},
	)
	if err != nil {
		t.Fatalf("insert member row: %v", err)
	}

	var member []byte
	row := exec.QueryRow(ctx, `SELECT member FROM kibble_sets WHERE key = $1`, "custom_1")
	if err := row.Scan(&member); err != nil {
		t.Fatalf("read member row: %v", err)
	}
	if len(member) != 1 || member[0] != 0x00 {
		t.Errorf("member: got %x, want 00", member)
	}
}
