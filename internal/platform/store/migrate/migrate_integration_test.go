//go:build integration_pg

package migrate_test

import (
	"context"
	"testing"

	"livetakip/internal/platform/store"
	"livetakip/internal/platform/store/migrate"
	"livetakip/internal/platform/store/pgtest"
)

func TestUpIsIdempotent(t *testing.T) {
	st := pgtest.Open(t)
	pool, _ := store.PoolOf(st.PG)
	ctx := context.Background()

	if err := migrate.Up(ctx, pool); err != nil {
		t.Fatalf("second Up: %v", err)
	}
	v, dirty, err := migrate.Version(pool)
	if err != nil || dirty || v != 2 {
		t.Fatalf("Version = %d dirty=%v err=%v", v, dirty, err)
	}

	for _, table := range []string{"threads", "messages", "personnel", "sync_jobs", "alerts", "chat_analysis"} {
		n, err := store.Scalar[int](ctx, st.PG,
			`SELECT count(*) FROM information_schema.tables WHERE table_name = $1`, table)
		if err != nil || n != 1 {
			t.Fatalf("table %s missing (n=%d err=%v)", table, n, err)
		}
	}
}
