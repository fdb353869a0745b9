package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const statsColumns = `user_id, total_exp, current_level, total_stars, consecutive_days, last_learn_date, total_words_learned`

// GameStatsRepository handles the per-user progression row
type GameStatsRepository struct {
	q sqlx.ExtContext
}

// NewGameStatsRepository creates a repository bound to a connection or transaction
func NewGameStatsRepository(q sqlx.ExtContext) *GameStatsRepository {
	return &GameStatsRepository{q: q}
}

// GetForUpdate creates the row with defaults when missing, then loads and locks it.
func (r *GameStatsRepository) GetForUpdate(ctx context.Context, userID int64) (*models.GameStats, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, err
	}
	var s models.GameStats
	if err := get(ctx, r.q, &s, forUpdate(r.q, `SELECT `+statsColumns+` FROM game_stats WHERE user_id = ?`), userID); err != nil {
		return nil, storageErr("get game stats", err)
	}
	return &s, nil
}

// Get returns the stats without creating them; a user without a row reads as level 1.
func (r *GameStatsRepository) Get(ctx context.Context, userID int64) (*models.GameStats, error) {
	var s models.GameStats
	err := get(ctx, r.q, &s, `SELECT `+statsColumns+` FROM game_stats WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.GameStats{UserID: userID, CurrentLevel: 1}, nil
	}
	if err != nil {
		return nil, storageErr("get game stats", err)
	}
	return &s, nil
}

// UpdateExp stores the new experience total and level.
func (r *GameStatsRepository) UpdateExp(ctx context.Context, userID int64, totalExp, level int) error {
	if _, err := exec(ctx, r.q, `UPDATE game_stats SET total_exp = ?, current_level = ? WHERE user_id = ?`, totalExp, level, userID); err != nil {
		return storageErr("update exp", err)
	}
	return nil
}

// UpdateStreak stores the consecutive-days counter and the local date it was touched.
func (r *GameStatsRepository) UpdateStreak(ctx context.Context, userID int64, days int, date string) error {
	if _, err := exec(ctx, r.q, `UPDATE game_stats SET consecutive_days = ?, last_learn_date = ? WHERE user_id = ?`, days, date, userID); err != nil {
		return storageErr("update streak", err)
	}
	return nil
}

// AddStars atomically increments the star balance and returns the new total.
func (r *GameStatsRepository) AddStars(ctx context.Context, userID int64, n int) (int, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return 0, err
	}
	var total int
	err := get(ctx, r.q, &total, `UPDATE game_stats SET total_stars = total_stars + ? WHERE user_id = ? RETURNING total_stars`, n, userID)
	if err != nil {
		return 0, storageErr("add stars", err)
	}
	return total, nil
}

// IncrementWordsLearned bumps the lifetime add counter.
func (r *GameStatsRepository) IncrementWordsLearned(ctx context.Context, userID int64) error {
	if err := r.ensure(ctx, userID); err != nil {
		return err
	}
	if _, err := exec(ctx, r.q, `UPDATE game_stats SET total_words_learned = total_words_learned + 1 WHERE user_id = ?`, userID); err != nil {
		return storageErr("increment words learned", err)
	}
	return nil
}

func (r *GameStatsRepository) ensure(ctx context.Context, userID int64) error {
	_, err := exec(ctx, r.q, `INSERT INTO game_stats (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return storageErr("create game stats", err)
	}
	return nil
}
