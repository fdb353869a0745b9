package ai

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/pkg/models"
)

const (
	RoleUser = "user"
	RoleAI   = "ai"

	historyLimit = 200
	maxPromptLen = 4000
)

// KeySource yields the user's decrypted provider key, "" when unset.
type KeySource interface {
	APIKey(ctx context.Context, userID int64) (string, error)
}

// Asker is the chat completion call the tutor depends on.
type Asker interface {
	Ask(ctx context.Context, apiKey, model, prompt, image string) (string, error)
}

// Tutor proxies homework questions to the AI provider and keeps the history.
type Tutor struct {
	db   *sqlx.DB
	log  *logger.Logger
	keys KeySource
	chat Asker
	now  func() time.Time
}

func NewTutor(db *sqlx.DB, log *logger.Logger, keys KeySource, chat Asker) *Tutor {
	return &Tutor{db: db, log: log.With("component", "ai_tutor"), keys: keys, chat: chat, now: time.Now}
}

type Question struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Image  string `json:"image"`
}

// Ask records the question, calls the provider and records the reply. The
// question stays recorded when the provider fails.
func (t *Tutor) Ask(ctx context.Context, userID int64, q Question) (string, error) {
	if q.Prompt == "" && q.Image == "" {
		return "", apperr.Validation("prompt or image is required")
	}
	if len(q.Prompt) > maxPromptLen {
		return "", apperr.Validation("prompt is too long")
	}
	key, err := t.keys.APIKey(ctx, userID)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", apperr.Validation("AI key is not configured, please add it in account settings")
	}

	repo := database.NewChatRepository(t.db)
	turn := &models.ChatMessage{UserID: userID, Role: RoleUser, Content: q.Prompt, CreatedAt: t.now().UTC()}
	if q.Image != "" {
		img := q.Image
		turn.ImageData = &img
	}
	if err := repo.Create(ctx, turn); err != nil {
		return "", err
	}

	reply, err := t.chat.Ask(ctx, key, q.Model, q.Prompt, q.Image)
	if err != nil {
		t.log.Warn("tutor call failed", "user", userID, "error", err)
		return "", apperr.External("ai tutor", err)
	}

	if err := repo.Create(ctx, &models.ChatMessage{UserID: userID, Role: RoleAI, Content: reply, CreatedAt: t.now().UTC()}); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the conversation in chronological order.
func (t *Tutor) History(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	return database.NewChatRepository(t.db).ListRecent(ctx, userID, historyLimit)
}

func (t *Tutor) DeleteMessage(ctx context.Context, userID, id int64) error {
	return database.NewChatRepository(t.db).Delete(ctx, userID, id)
}

func (t *Tutor) ClearHistory(ctx context.Context, userID int64) (int64, error) {
	n, err := database.NewChatRepository(t.db).Clear(ctx, userID)
	if err == nil {
		t.log.Info("chat history cleared", "user", userID, "messages", n)
	}
	return n, err
}
