package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/pkg/models"
)

// ChatRepository handles the AI tutor conversation history
type ChatRepository struct {
	q sqlx.ExtContext
}

// NewChatRepository creates a repository bound to a connection or transaction
func NewChatRepository(q sqlx.ExtContext) *ChatRepository {
	return &ChatRepository{q: q}
}

// Create appends a chat turn
func (r *ChatRepository) Create(ctx context.Context, m *models.ChatMessage) error {
	err := get(ctx, r.q, &m.ID,
		`INSERT INTO ai_chat_history (user_id, role, content, image_data, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.UserID, m.Role, m.Content, m.ImageData, m.CreatedAt)
	if err != nil {
		return storageErr("save chat message", err)
	}
	return nil
}

// ListRecent returns the newest limit turns in chronological order
func (r *ChatRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := selectAll(ctx, r.q, &msgs, `
		SELECT id, user_id, role, content, image_data, created_at FROM (
			SELECT id, user_id, role, content, image_data, created_at
			FROM ai_chat_history WHERE user_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		) recent ORDER BY created_at, id`, userID, limit)
	if err != nil {
		return nil, storageErr("list chat history", err)
	}
	return msgs, nil
}

// Delete removes one turn of the user
func (r *ChatRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := exec(ctx, r.q, `DELETE FROM ai_chat_history WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return storageErr("delete chat message", err)
	}
	if rowsAffected(res) == 0 {
		return notFoundOr("delete chat message", "chat message", errNoRows)
	}
	return nil
}

// Clear removes the user's whole history and returns how many turns were deleted
func (r *ChatRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	res, err := exec(ctx, r.q, `DELETE FROM ai_chat_history WHERE user_id = ?`, userID)
	if err != nil {
		return 0, storageErr("clear chat history", err)
	}
	return rowsAffected(res), nil
}
