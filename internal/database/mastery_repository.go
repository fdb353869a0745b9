package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// MasteryRepository handles per-item answer records
type MasteryRepository struct {
	q sqlx.ExtContext
}

// NewMasteryRepository creates a repository bound to a connection or transaction
func NewMasteryRepository(q sqlx.ExtContext) *MasteryRepository {
	return &MasteryRepository{q: q}
}

// GetForUpdate loads and locks the record. found is false when the user never answered the item.
func (r *MasteryRepository) GetForUpdate(ctx context.Context, userID, itemID int64) (rec *models.MasteryRecord, found bool, err error) {
	var m models.MasteryRecord
	query := forUpdate(r.q, `
		SELECT id, user_id, item_id, correct_count, wrong_count, consecutive_correct, mastery_level,
			last_practiced_at, mastered_at
		FROM mastery_records WHERE user_id = ? AND item_id = ?`)
	err = get(ctx, r.q, &m, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.MasteryRecord{UserID: userID, ItemID: itemID}, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get mastery record", err)
	}
	return &m, true, nil
}

// Upsert writes the record. mastered_at keeps its first non-null value.
func (r *MasteryRepository) Upsert(ctx context.Context, m *models.MasteryRecord) error {
	_, err := exec(ctx, r.q, `
		INSERT INTO mastery_records (user_id, item_id, correct_count, wrong_count, consecutive_correct,
			mastery_level, last_practiced_at, mastered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			correct_count = excluded.correct_count,
			wrong_count = excluded.wrong_count,
			consecutive_correct = excluded.consecutive_correct,
			mastery_level = excluded.mastery_level,
			last_practiced_at = excluded.last_practiced_at,
			mastered_at = COALESCE(mastery_records.mastered_at, excluded.mastered_at)`,
		m.UserID, m.ItemID, m.CorrectCount, m.WrongCount, m.ConsecutiveCorrect,
		m.MasteryLevel, m.LastPracticedAt, m.MasteredAt)
	if err != nil {
		return storageErr("save mastery record", err)
	}
	return nil
}

// Get returns the record without locking, for read endpoints and tests.
func (r *MasteryRepository) Get(ctx context.Context, userID, itemID int64) (*models.MasteryRecord, error) {
	var m models.MasteryRecord
	err := get(ctx, r.q, &m, `
		SELECT id, user_id, item_id, correct_count, wrong_count, consecutive_correct, mastery_level,
			last_practiced_at, mastered_at
		FROM mastery_records WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return nil, notFoundOr("get mastery record", "mastery record", err)
	}
	return &m, nil
}
