package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/ai"
	"github.com/example/wordbook/internal/api"
	"github.com/example/wordbook/internal/auth"
	"github.com/example/wordbook/internal/bot"
	"github.com/example/wordbook/internal/config"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/learning"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/mastery"
	"github.com/example/wordbook/internal/phonetic"
	"github.com/example/wordbook/internal/progression"
	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/internal/vocabulary"
)

// App holds the database and every service wired together.
type App struct {
	DB       *sqlx.DB
	Services api.Services
	// Telegram is nil unless a bot token and chat id are configured.
	Telegram *bot.Notifier
}

// Build connects to the store and wires the services.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var box *auth.SecretBox
	if cfg.AIKeySecret != "" {
		if box, err = auth.NewSecretBox(cfg.AIKeySecret); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to init key storage: %w", err)
		}
	} else {
		log.Warn("AI key secret missing, AI tutor keys cannot be stored")
	}

	ach := achievement.New(db, log)
	var tg *bot.Notifier
	if cfg.TelegramToken != "" {
		tg, err = bot.New(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn("telegram notifier disabled", "error", err)
		} else {
			ach.SetNotifier(tg)
		}
	}

	prog := progression.New(db, log, ach)
	mast := mastery.New(db, log, ach)
	dict := phonetic.NewDictionary(cfg.DictionaryTimeout, log)
	accounts := auth.New(db, log, cfg.BcryptCost, auth.NewTokens(cfg.JWTSecret, auth.TokenTTL), box)

	return &App{
		DB: db,
		Services: api.Services{
			Auth:         accounts,
			Vocabulary:   vocabulary.New(db, log, prog, ach, dict),
			Mastery:      mast,
			Progression:  prog,
			Achievements: ach,
			Quiz:         quiz.New(db, log, mast, prog, ach),
			Drills:       learning.New(db, log),
			Tutor:        ai.NewTutor(db, log, accounts, ai.NewChatGPT(cfg.AITutorURL, cfg.AITimeout)),
			Dictionary:   dict,
		},
		Telegram: tg,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
