// Package databasetest opens throwaway SQLite stores for tests.
package databasetest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/database"
)

// Open returns a migrated SQLite database under t.TempDir(), closed on cleanup.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.InitSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("init schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var userSeq atomic.Int64

// CreateUser inserts an account with a throwaway password and returns its id.
func CreateUser(t testing.TB, db *sqlx.DB) int64 {
	t.Helper()
	name := fmt.Sprintf("user%d", userSeq.Add(1))
	u, err := database.NewUserRepository(db).Create(context.Background(), name, "x", time.Now().UTC())
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}
