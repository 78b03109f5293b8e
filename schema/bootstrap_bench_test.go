//go:build integration

package schema

import (
	"context"
	"testing"

	"github.com/ripkitten-co/kibble/internal/pg"
	"github.com/ripkitten-co/kibble/internal/testutil"
)

func setupSchemaBench(b *testing.B) (pg.Executor, context.Context) {
	b.Helper()
	connStr := testutil.SetupPostgres(b)
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, connStr)
	if err != nil {
		b.Fatalf("new pool: %v", err)
	}
	b.Cleanup(func() { pool.Close() })
	return pool, ctx
}

func BenchmarkEnsureSets_Cold(b *testing.B) {
	exec, ctx := setupSchemaBench(b)
	b.ReportAllocs()
	for b.Loop() {
		bs := New()
		if err := bs.EnsureSets(ctx, exec, "bench_cold"); err != nil {
			b.Fatalf("ensure: %v", err)
		}
	}
}

func BenchmarkEnsureSets_Cached(b *testing.B) {
	exec, ctx := setupSchemaBench(b)
	bs := New()
	_ = bs.EnsureSets(ctx, exec, "bench_cached")
	b.ReportAllocs()
	for b.Loop() {
		if err := bs.EnsureSets(ctx, exec, "bench_cached"); err != nil {
			b.Fatalf("ensure: %v", err)
		}
	}
}
