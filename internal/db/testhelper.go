package db

import (
	"context"
	"path/filepath"
	"testing"
)

// OpenTestSQLite opens a migrated write/read pool pair in t.TempDir() and
// registers cleanup. Tests that don't need the split can use Write for
// everything.
func OpenTestSQLite(t *testing.T) *Pool {
	t.Helper()

	ctx := context.Background()
	pool, err := Open(ctx, filepath.Join(t.TempDir(), "test.sqlite"), 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := RunMigrations(ctx, pool.Write, nil); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return pool
}
