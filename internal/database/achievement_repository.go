package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// AchievementRepository handles unlocked achievements
type AchievementRepository struct {
	q sqlx.ExtContext
}

// NewAchievementRepository creates a repository bound to a connection or transaction
func NewAchievementRepository(q sqlx.ExtContext) *AchievementRepository {
	return &AchievementRepository{q: q}
}

// Unlock records the achievement if absent. inserted is false when it was already unlocked.
func (r *AchievementRepository) Unlock(ctx context.Context, userID int64, achievementID string, now time.Time) (inserted bool, err error) {
	res, err := exec(ctx, r.q, `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID, now)
	if err != nil {
		return false, storageErr("unlock achievement", err)
	}
	return rowsAffected(res) == 1, nil
}

// ListByUser returns all unlocked achievements of the user.
func (r *AchievementRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	if err := selectAll(ctx, r.q, &out, `SELECT id, user_id, achievement_id, unlocked_at FROM user_achievements WHERE user_id = ? ORDER BY unlocked_at, id`, userID); err != nil {
		return nil, storageErr("list achievements", err)
	}
	return out, nil
}
