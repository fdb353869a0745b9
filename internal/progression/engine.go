package progression

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/effects"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/pkg/models"
)

const dateLayout = "2006-01-02"

// Award is the outcome of AwardExp.
type Award struct {
	Amount    int  `json:"amount"`
	NewExp    int  `json:"new_exp"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// Engine owns experience, level, stars and the daily streak.
type Engine struct {
	db           *sqlx.DB
	log          *logger.Logger
	achievements *achievement.Engine
	now          func() time.Time
}

func New(db *sqlx.DB, log *logger.Logger, achievements *achievement.Engine) *Engine {
	return &Engine{
		db:           db,
		log:          log.With("component", "progression"),
		achievements: achievements,
		now:          time.Now,
	}
}

// SetClock replaces the clock. Streak days follow the location of the returned times.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// AwardExp adds a positive amount of experience and levels up as far as it reaches.
func (e *Engine) AwardExp(ctx context.Context, userID int64, amount int, source Source) (*Award, error) {
	if amount <= 0 {
		return nil, apperr.Validation("exp amount must be positive, got %d", amount)
	}

	award := &Award{Amount: amount}
	err := database.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		stats := database.NewGameStatsRepository(tx)
		s, err := stats.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		award.NewExp = s.TotalExp + amount
		award.NewLevel = advance(s.CurrentLevel, award.NewExp)
		award.LeveledUp = award.NewLevel > s.CurrentLevel
		return stats.UpdateExp(ctx, userID, award.NewExp, award.NewLevel)
	})
	if err != nil {
		return nil, err
	}

	log := e.log.With("user", userID, "source", string(source))
	log.Debug("exp awarded", "amount", amount, "exp", award.NewExp, "level", award.NewLevel)

	var after effects.List
	if award.LeveledUp {
		log.Info("level up", "level", award.NewLevel)
		after.Add("level_achievements", func(ctx context.Context) error {
			_, err := e.achievements.CheckLevel(ctx, userID, award.NewLevel)
			return err
		})
	}
	if source == SourceAddWord {
		after.Add("word_count_achievements", func(ctx context.Context) error {
			_, err := e.achievements.CheckWordCount(ctx, userID)
			return err
		})
	}
	after.Add("streak", func(ctx context.Context) error {
		_, err := e.TouchStreak(ctx, userID)
		return err
	})
	after.Run(ctx, log)

	return award, nil
}

// TouchStreak records learning activity today. Repeated calls on one day are
// no-ops; a gap of more than one day restarts the streak at 1.
func (e *Engine) TouchStreak(ctx context.Context, userID int64) (int, error) {
	now := e.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	var days int
	err := database.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		stats := database.NewGameStatsRepository(tx)
		s, err := stats.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		last := ""
		if s.LastLearnDate != nil {
			last = *s.LastLearnDate
		}
		switch last {
		case today:
			days = s.ConsecutiveDays
			return nil
		case yesterday:
			days = s.ConsecutiveDays + 1
		default:
			days = 1
		}
		return stats.UpdateStreak(ctx, userID, days, today)
	})
	if err != nil {
		return 0, err
	}

	if days >= achievement.StreakThreshold {
		effects.List{{Name: "streak_achievement", Fn: func(ctx context.Context) error {
			_, err := e.achievements.CheckStreak(ctx, userID, days)
			return err
		}}}.Run(ctx, e.log)
	}
	return days, nil
}

// AddStars atomically increments the star balance.
func (e *Engine) AddStars(ctx context.Context, userID int64, n int) (int, error) {
	if n <= 0 {
		return 0, apperr.Validation("star amount must be positive, got %d", n)
	}
	return database.NewGameStatsRepository(e.db).AddStars(ctx, userID, n)
}

// RecordWordLearned bumps the lifetime counter of added words.
func (e *Engine) RecordWordLearned(ctx context.Context, userID int64) error {
	return database.NewGameStatsRepository(e.db).IncrementWordsLearned(ctx, userID)
}

// Overview is the read model behind the stats endpoint.
type Overview struct {
	models.GameStats
	LevelExp     int     `json:"level_exp"`      // exp at which the current level started
	NextLevelExp int     `json:"next_level_exp"` // exp needed for the next level
	Progress     float64 `json:"progress"`       // 0..1 within the current level
}

// Stats returns the user's progression, defaulting to level 1 for new users.
func (e *Engine) Stats(ctx context.Context, userID int64) (*Overview, error) {
	s, err := database.NewGameStatsRepository(e.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	o := &Overview{GameStats: *s, NextLevelExp: ExpForLevel(s.CurrentLevel + 1)}
	if s.CurrentLevel > 1 {
		o.LevelExp = ExpForLevel(s.CurrentLevel)
	}
	if span := o.NextLevelExp - o.LevelExp; span > 0 {
		o.Progress = float64(s.TotalExp-o.LevelExp) / float64(span)
	}
	if o.Progress < 0 {
		o.Progress = 0
	}
	if o.Progress > 1 {
		o.Progress = 1
	}
	return o, nil
}
