package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// GameSessionRepository handles the append-only quiz log
type GameSessionRepository struct {
	q sqlx.ExtContext
}

// NewGameSessionRepository creates a repository bound to a connection or transaction
func NewGameSessionRepository(q sqlx.ExtContext) *GameSessionRepository {
	return &GameSessionRepository{q: q}
}

// Create appends a session
func (r *GameSessionRepository) Create(ctx context.Context, s *models.GameSession) error {
	err := get(ctx, r.q, &s.ID,
		`INSERT INTO game_sessions (user_id, game_type, score, exp_earned, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		s.UserID, s.GameType, s.Score, s.ExpEarned, s.CreatedAt)
	if err != nil {
		return storageErr("create game session", err)
	}
	return nil
}

// Count returns the number of finished sessions of the user
func (r *GameSessionRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM game_sessions WHERE user_id = ?`, userID); err != nil {
		return 0, storageErr("count game sessions", err)
	}
	return n, nil
}

// ListRecent returns up to limit sessions, newest first
func (r *GameSessionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.GameSession, error) {
	sessions := []models.GameSession{}
	err := selectAll(ctx, r.q, &sessions,
		`SELECT id, user_id, game_type, score, exp_earned, created_at FROM game_sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, storageErr("list game sessions", err)
	}
	return sessions, nil
}
