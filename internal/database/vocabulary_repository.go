package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

const itemColumns = `id, user_id, kind, text, phonetic, meaning, practice_count, mastery_level,
	consecutive_correct, is_mastered, mastered_at, created_at`

// VocabularyRepository handles database operations for active vocabulary items
type VocabularyRepository struct {
	q sqlx.ExtContext
}

// NewVocabularyRepository creates a repository bound to a connection or transaction
func NewVocabularyRepository(q sqlx.ExtContext) *VocabularyRepository {
	return &VocabularyRepository{q: q}
}

// Create inserts a fresh item with zeroed counters. A duplicate
// (user, kind, text) yields a Conflict error.
func (r *VocabularyRepository) Create(ctx context.Context, item *models.VocabularyItem) error {
	err := get(ctx, r.q, &item.ID, `
		INSERT INTO vocabulary_items (user_id, kind, text, phonetic, meaning, practice_count,
			mastery_level, consecutive_correct, is_mastered, created_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
		RETURNING id`,
		item.UserID, item.Kind, item.Text, item.Phonetic, item.Meaning, false, item.CreatedAt)
	if err != nil {
		return storageErr("create vocabulary item", err)
	}
	item.PracticeCount = 0
	item.MasteryLevel = 0
	item.ConsecutiveCorrect = 0
	item.IsMastered = false
	item.MasteredAt = nil
	return nil
}

// GetByID returns an item owned by userID. Items of other users are NotFound.
func (r *VocabularyRepository) GetByID(ctx context.Context, userID, id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	err := get(ctx, r.q, &item, `SELECT `+itemColumns+` FROM vocabulary_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, notFoundOr("get vocabulary item", "vocabulary item", err)
	}
	return &item, nil
}

// GetByIDForUpdate is GetByID with a row lock, for use inside a transaction.
func (r *VocabularyRepository) GetByIDForUpdate(ctx context.Context, userID, id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	query := forUpdate(r.q, `SELECT `+itemColumns+` FROM vocabulary_items WHERE id = ? AND user_id = ?`)
	if err := get(ctx, r.q, &item, query, id, userID); err != nil {
		return nil, notFoundOr("get vocabulary item", "vocabulary item", err)
	}
	return &item, nil
}

// GetByText returns the active item with the given natural key.
func (r *VocabularyRepository) GetByText(ctx context.Context, userID int64, kind models.Kind, text string) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	query := forUpdate(r.q, `SELECT `+itemColumns+` FROM vocabulary_items WHERE user_id = ? AND kind = ? AND text = ?`)
	if err := get(ctx, r.q, &item, query, userID, kind, text); err != nil {
		return nil, notFoundOr("get vocabulary item", "vocabulary item", err)
	}
	return &item, nil
}

// Exists reports whether the natural key is already active.
func (r *VocabularyRepository) Exists(ctx context.Context, userID int64, kind models.Kind, text string) (bool, error) {
	var n int
	err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM vocabulary_items WHERE user_id = ? AND kind = ? AND text = ?`, userID, kind, text)
	if err != nil {
		return false, storageErr("check vocabulary item", err)
	}
	return n > 0, nil
}

// GetByIDs returns the subset of ids owned by userID.
func (r *VocabularyRepository) GetByIDs(ctx context.Context, userID int64, ids []int64) ([]models.VocabularyItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM vocabulary_items WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return nil, storageErr("build item query", err)
	}
	var items []models.VocabularyItem
	if err := selectAll(ctx, r.q, &items, query, args...); err != nil {
		return nil, storageErr("get vocabulary items", err)
	}
	return items, nil
}

// ListByUser returns the user's items of a kind, newest first. An empty kind lists both kinds.
func (r *VocabularyRepository) ListByUser(ctx context.Context, userID int64, kind models.Kind) ([]models.VocabularyItem, error) {
	items := []models.VocabularyItem{}
	var err error
	if kind == "" {
		err = selectAll(ctx, r.q, &items, `SELECT `+itemColumns+` FROM vocabulary_items WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	} else {
		err = selectAll(ctx, r.q, &items, `SELECT `+itemColumns+` FROM vocabulary_items WHERE user_id = ? AND kind = ? ORDER BY created_at DESC, id DESC`, userID, kind)
	}
	if err != nil {
		return nil, storageErr("list vocabulary items", err)
	}
	return items, nil
}

// ListByKind returns items of every user; used by the maintenance audit.
func (r *VocabularyRepository) ListByKind(ctx context.Context, kind models.Kind) ([]models.VocabularyItem, error) {
	var items []models.VocabularyItem
	if err := selectAll(ctx, r.q, &items, `SELECT `+itemColumns+` FROM vocabulary_items WHERE kind = ? ORDER BY id`, kind); err != nil {
		return nil, storageErr("list vocabulary items", err)
	}
	return items, nil
}

// Count returns the number of active items. An empty kind counts both kinds.
func (r *VocabularyRepository) Count(ctx context.Context, userID int64, kind models.Kind) (int, error) {
	var n int
	var err error
	if kind == "" {
		err = get(ctx, r.q, &n, `SELECT COUNT(*) FROM vocabulary_items WHERE user_id = ?`, userID)
	} else {
		err = get(ctx, r.q, &n, `SELECT COUNT(*) FROM vocabulary_items WHERE user_id = ? AND kind = ?`, userID, kind)
	}
	if err != nil {
		return 0, storageErr("count vocabulary items", err)
	}
	return n, nil
}

// CountMastered returns how many active items of the user are mastered.
func (r *VocabularyRepository) CountMastered(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM vocabulary_items WHERE user_id = ? AND is_mastered = ?`, userID, true); err != nil {
		return 0, storageErr("count mastered items", err)
	}
	return n, nil
}

// UpdateMastery projects the mastery record onto the item. mastered_at is
// written once and never overwritten.
func (r *VocabularyRepository) UpdateMastery(ctx context.Context, id int64, level, consecutive int, isMastered bool, masteredAt *time.Time) error {
	_, err := exec(ctx, r.q, `
		UPDATE vocabulary_items
		SET mastery_level = ?, consecutive_correct = ?, is_mastered = ?, mastered_at = COALESCE(mastered_at, ?)
		WHERE id = ?`,
		level, consecutive, isMastered, masteredAt, id)
	if err != nil {
		return storageErr("update item mastery", err)
	}
	return nil
}

// IncrementPractice bumps the read-aloud / playback counter.
func (r *VocabularyRepository) IncrementPractice(ctx context.Context, userID, id int64) (int, error) {
	var count int
	err := get(ctx, r.q, &count,
		`UPDATE vocabulary_items SET practice_count = practice_count + 1 WHERE id = ? AND user_id = ? RETURNING practice_count`,
		id, userID)
	if err != nil {
		return 0, notFoundOr("increment practice count", "vocabulary item", err)
	}
	return count, nil
}

// UpdatePhonetic replaces the stored transcription.
func (r *VocabularyRepository) UpdatePhonetic(ctx context.Context, id int64, phonetic string) error {
	if _, err := exec(ctx, r.q, `UPDATE vocabulary_items SET phonetic = ? WHERE id = ?`, phonetic, id); err != nil {
		return storageErr("update phonetic", err)
	}
	return nil
}

// Delete removes an active item; its mastery record cascades.
func (r *VocabularyRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := exec(ctx, r.q, `DELETE FROM vocabulary_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return storageErr("delete vocabulary item", err)
	}
	if rowsAffected(res) == 0 {
		return notFoundOr("delete vocabulary item", "vocabulary item", errNoRows)
	}
	return nil
}
