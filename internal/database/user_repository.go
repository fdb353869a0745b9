package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// UserRepository handles database operations for accounts
type UserRepository struct {
	q sqlx.ExtContext
}

// NewUserRepository creates a repository bound to a connection or transaction
func NewUserRepository(q sqlx.ExtContext) *UserRepository {
	return &UserRepository{q: q}
}

// Create inserts a new account. A taken username yields a Conflict error.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, now time.Time) (*models.User, error) {
	user := models.User{Username: username, Password: passwordHash, CreatedAt: now}
	err := get(ctx, r.q, &user.ID,
		`INSERT INTO users (username, password, created_at) VALUES (?, ?, ?) RETURNING id`,
		username, passwordHash, now)
	if err != nil {
		return nil, storageErr("create user", err)
	}
	return &user, nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := get(ctx, r.q, &user, `SELECT id, username, password, api_key_enc, created_at FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, notFoundOr("get user", "user", err)
	}
	return &user, nil
}

// GetByUsername returns a user by login name
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := get(ctx, r.q, &user, `SELECT id, username, password, api_key_enc, created_at FROM users WHERE username = ?`, username)
	if err != nil {
		return nil, notFoundOr("get user", "user", err)
	}
	return &user, nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := exec(ctx, r.q, `UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return storageErr("update password", err)
	}
	if rowsAffected(res) == 0 {
		return notFoundOr("update password", "user", errNoRows)
	}
	return nil
}

// SetAPIKey stores the sealed AI provider key; nil clears it.
func (r *UserRepository) SetAPIKey(ctx context.Context, id int64, sealed *string) error {
	res, err := exec(ctx, r.q, `UPDATE users SET api_key_enc = ? WHERE id = ?`, sealed, id)
	if err != nil {
		return storageErr("save api key", err)
	}
	if rowsAffected(res) == 0 {
		return notFoundOr("save api key", "user", errNoRows)
	}
	return nil
}
