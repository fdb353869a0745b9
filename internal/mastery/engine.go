package mastery

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/effects"
	"github.com/example/wordbook/internal/logger"
)

// Result is what callers learn about an answered item.
type Result struct {
	ItemID             int64 `json:"item_id"`
	MasteryLevel       int   `json:"mastery_level"`
	ConsecutiveCorrect int   `json:"consecutive_correct"`
	IsMastered         bool  `json:"is_mastered"`
	NewlyMastered      bool  `json:"newly_mastered"`
}

// Engine persists answers and keeps the item projection in step with the record.
type Engine struct {
	db           *sqlx.DB
	log          *logger.Logger
	achievements *achievement.Engine
	now          func() time.Time
}

func New(db *sqlx.DB, log *logger.Logger, achievements *achievement.Engine) *Engine {
	return &Engine{
		db:           db,
		log:          log.With("component", "mastery"),
		achievements: achievements,
		now:          time.Now,
	}
}

func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// RecordAnswer applies one answer for an item owned by userID. The record
// and the item projection are written in one transaction.
func (e *Engine) RecordAnswer(ctx context.Context, userID, itemID int64, isCorrect bool) (*Result, error) {
	now := e.now().UTC()
	var state State

	err := database.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		items := database.NewVocabularyRepository(tx)
		records := database.NewMasteryRepository(tx)

		item, err := items.GetByIDForUpdate(ctx, userID, itemID)
		if err != nil {
			return err
		}
		rec, _, err := records.GetForUpdate(ctx, userID, itemID)
		if err != nil {
			return err
		}

		// The item flag is authoritative for "already mastered"; the record may predate it.
		wasMastered := item.IsMastered
		masteredAt := rec.MasteredAt
		if masteredAt == nil {
			masteredAt = item.MasteredAt
		}
		state = Apply(Counters{
			Correct:     rec.CorrectCount,
			Wrong:       rec.WrongCount,
			Consecutive: rec.ConsecutiveCorrect,
		}, isCorrect, wasMastered, masteredAt, now)

		rec.CorrectCount = state.Correct
		rec.WrongCount = state.Wrong
		rec.ConsecutiveCorrect = state.Consecutive
		rec.MasteryLevel = state.Level
		rec.LastPracticedAt = &now
		rec.MasteredAt = state.MasteredAt
		if err := records.Upsert(ctx, rec); err != nil {
			return err
		}
		return items.UpdateMastery(ctx, itemID, state.Level, state.Consecutive, state.IsMastered, state.MasteredAt)
	})
	if err != nil {
		return nil, err
	}

	var after effects.List
	if state.Level == MaxLevel {
		after.Add("perfect_mastery", func(ctx context.Context) error {
			_, err := e.achievements.CheckAndUnlock(ctx, userID, achievement.PerfectMastery)
			return err
		})
	}
	if state.NewlyMastered {
		e.log.Info("item mastered", "user", userID, "item", itemID)
		after.Add("mastered_count", func(ctx context.Context) error {
			_, err := e.achievements.CheckMastered(ctx, userID)
			return err
		})
	}
	after.Run(ctx, e.log)

	return &Result{
		ItemID:             itemID,
		MasteryLevel:       state.Level,
		ConsecutiveCorrect: state.Consecutive,
		IsMastered:         state.IsMastered,
		NewlyMastered:      state.NewlyMastered,
	}, nil
}
