package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/example/wordbook/internal/apperr"
)

// WithTx runs fn inside a transaction that commits when fn returns nil and
// rolls back otherwise. fn must only use tx: on SQLite the pool holds a single
// connection, so touching db inside fn blocks forever.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit transaction", err)
	}
	return nil
}

// forUpdate appends a row lock on PostgreSQL. SQLite transactions are
// already exclusive for writers (BEGIN IMMEDIATE).
func forUpdate(q sqlx.ExtContext, query string) string {
	if isPostgres(q) {
		return query + " FOR UPDATE"
	}
	return query
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}

// storageErr classifies a driver error: unique violations become Conflict,
// everything else Storage.
func storageErr(op string, err error) error {
	if isUniqueViolation(err) {
		return &apperr.Error{Kind: apperr.KindConflict, Msg: op + ": already exists", Err: err}
	}
	return apperr.Storage(op, err)
}

var errNoRows = sql.ErrNoRows

// notFoundOr maps sql.ErrNoRows to NotFound(what) and classifies the rest.
func notFoundOr(op, what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s not found", what)
	}
	return storageErr(op, err)
}

func get(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func selectAll(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (sql.Result, error) {
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
