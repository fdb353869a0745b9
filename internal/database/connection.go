package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/wordbook/internal/config"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// Connect opens the configured database and creates the schema.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DBType {
	case "postgres":
		db, err = sqlx.ConnectContext(ctx, driverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	default:
		db, err = OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens (and creates) the SQLite file at path.
// Every transaction starts with BEGIN IMMEDIATE so read-modify-write sequences serialize.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_txlock=immediate&_busy_timeout=5000", path)
	db, err := sqlx.ConnectContext(ctx, driverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func isPostgres(q sqlx.ExtContext) bool {
	return q.DriverName() == driverPostgres
}
