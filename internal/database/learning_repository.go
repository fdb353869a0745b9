package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// LearningRepository handles the pinyin and graded English drills
type LearningRepository struct {
	q sqlx.ExtContext
}

// NewLearningRepository creates a repository bound to a connection or transaction
func NewLearningRepository(q sqlx.ExtContext) *LearningRepository {
	return &LearningRepository{q: q}
}

// EnsurePinyin creates a zero-count row unless it exists.
func (r *LearningRepository) EnsurePinyin(ctx context.Context, userID int64, pinyin, typ string, now time.Time) error {
	_, err := exec(ctx, r.q, `
		INSERT INTO pinyin_learn (user_id, pinyin, type, learn_count, created_at)
		VALUES (?, ?, ?, 0, ?)
		ON CONFLICT (user_id, pinyin, type) DO NOTHING`,
		userID, pinyin, typ, now)
	if err != nil {
		return storageErr("init pinyin", err)
	}
	return nil
}

// LearnPinyin increments the drill count and returns the new value.
func (r *LearningRepository) LearnPinyin(ctx context.Context, userID int64, pinyin, typ string, now time.Time) (int, error) {
	var count int
	err := get(ctx, r.q, &count, `
		INSERT INTO pinyin_learn (user_id, pinyin, type, learn_count, created_at, last_learned_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, pinyin, type) DO UPDATE SET
			learn_count = pinyin_learn.learn_count + 1,
			last_learned_at = excluded.last_learned_at
		RETURNING learn_count`,
		userID, pinyin, typ, now, now)
	if err != nil {
		return 0, storageErr("learn pinyin", err)
	}
	return count, nil
}

// ListPinyin returns the user's pinyin rows.
func (r *LearningRepository) ListPinyin(ctx context.Context, userID int64) ([]models.PinyinLearn, error) {
	rows := []models.PinyinLearn{}
	err := selectAll(ctx, r.q, &rows, `
		SELECT user_id, pinyin, type, learn_count, created_at, last_learned_at
		FROM pinyin_learn WHERE user_id = ? ORDER BY type, pinyin`, userID)
	if err != nil {
		return nil, storageErr("list pinyin", err)
	}
	return rows, nil
}

// LearnEnglish upserts a graded word and returns its learn count.
func (r *LearningRepository) LearnEnglish(ctx context.Context, userID int64, word, level string, now time.Time) (int, error) {
	var count int
	err := get(ctx, r.q, &count, `
		INSERT INTO english_learn (user_id, word, level, learn_count, created_at, last_learned_at)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, word, level) DO UPDATE SET
			learn_count = english_learn.learn_count + 1,
			last_learned_at = excluded.last_learned_at
		RETURNING learn_count`,
		userID, word, level, now, now)
	if err != nil {
		return 0, storageErr("learn english word", err)
	}
	return count, nil
}

// ListEnglish returns graded words, optionally filtered by level, most recent first.
func (r *LearningRepository) ListEnglish(ctx context.Context, userID int64, level string) ([]models.EnglishLearn, error) {
	rows := []models.EnglishLearn{}
	var err error
	if level == "" {
		err = selectAll(ctx, r.q, &rows, `
			SELECT user_id, word, level, learn_count, created_at, last_learned_at
			FROM english_learn WHERE user_id = ? ORDER BY last_learned_at DESC`, userID)
	} else {
		err = selectAll(ctx, r.q, &rows, `
			SELECT user_id, word, level, learn_count, created_at, last_learned_at
			FROM english_learn WHERE user_id = ? AND level = ? ORDER BY last_learned_at DESC`, userID, level)
	}
	if err != nil {
		return nil, storageErr("list english words", err)
	}
	return rows, nil
}
