package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const deletedColumns = `id, user_id, kind, text, phonetic, meaning, practice_count, mastery_level,
	consecutive_correct, is_mastered, mastered_at, added_at, deleted_at`

// DeletedRepository handles tombstones of removed vocabulary items
type DeletedRepository struct {
	q sqlx.ExtContext
}

// NewDeletedRepository creates a repository bound to a connection or transaction
func NewDeletedRepository(q sqlx.ExtContext) *DeletedRepository {
	return &DeletedRepository{q: q}
}

// Put stores d, replacing any previous tombstone with the same natural key.
func (r *DeletedRepository) Put(ctx context.Context, d models.DeletedItem) error {
	_, err := exec(ctx, r.q, `
		INSERT INTO deleted_vocabulary_items (user_id, kind, text, phonetic, meaning, practice_count,
			mastery_level, consecutive_correct, is_mastered, mastered_at, added_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, kind, text) DO UPDATE SET
			phonetic = excluded.phonetic,
			meaning = excluded.meaning,
			practice_count = excluded.practice_count,
			mastery_level = excluded.mastery_level,
			consecutive_correct = excluded.consecutive_correct,
			is_mastered = excluded.is_mastered,
			mastered_at = excluded.mastered_at,
			added_at = excluded.added_at,
			deleted_at = excluded.deleted_at`,
		d.UserID, d.Kind, d.Text, d.Phonetic, d.Meaning, d.PracticeCount,
		d.MasteryLevel, d.ConsecutiveCorrect, d.IsMastered, d.MasteredAt, d.AddedAt, d.DeletedAt)
	if err != nil {
		return storageErr("store tombstone", err)
	}
	return nil
}

// Get returns the tombstone for the natural key, or a NotFound error.
func (r *DeletedRepository) Get(ctx context.Context, userID int64, kind models.Kind, text string) (*models.DeletedItem, error) {
	var d models.DeletedItem
	err := get(ctx, r.q, &d, `SELECT `+deletedColumns+` FROM deleted_vocabulary_items WHERE user_id = ? AND kind = ? AND text = ?`, userID, kind, text)
	if err != nil {
		return nil, notFoundOr("get tombstone", "tombstone", err)
	}
	return &d, nil
}

// Remove deletes the tombstone for the natural key if present.
func (r *DeletedRepository) Remove(ctx context.Context, userID int64, kind models.Kind, text string) error {
	if _, err := exec(ctx, r.q, `DELETE FROM deleted_vocabulary_items WHERE user_id = ? AND kind = ? AND text = ?`, userID, kind, text); err != nil {
		return storageErr("remove tombstone", err)
	}
	return nil
}

// ListByUser returns tombstones, most recently deleted first.
func (r *DeletedRepository) ListByUser(ctx context.Context, userID int64, kind models.Kind) ([]models.DeletedItem, error) {
	items := []models.DeletedItem{}
	if err := selectAll(ctx, r.q, &items, `SELECT `+deletedColumns+` FROM deleted_vocabulary_items WHERE user_id = ? AND kind = ? ORDER BY deleted_at DESC, id DESC`, userID, kind); err != nil {
		return nil, storageErr("list tombstones", err)
	}
	return items, nil
}

// Count returns the number of tombstones of a kind ("known" words).
func (r *DeletedRepository) Count(ctx context.Context, userID int64, kind models.Kind) (int, error) {
	var n int
	if err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM deleted_vocabulary_items WHERE user_id = ? AND kind = ?`, userID, kind); err != nil {
		return 0, storageErr("count tombstones", err)
	}
	return n, nil
}

// CountMastered returns how many tombstones were mastered when deleted.
func (r *DeletedRepository) CountMastered(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM deleted_vocabulary_items WHERE user_id = ? AND is_mastered = ?`, userID, true); err != nil {
		return 0, storageErr("count mastered tombstones", err)
	}
	return n, nil
}
