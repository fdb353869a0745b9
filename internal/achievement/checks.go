package achievement

import (
	"context"

	"github.com/example/wordbook/internal/database"
)

// Thresholds of the counter-based achievements.
const (
	FirstWordThreshold  = 1
	Words50Threshold    = 50
	StreakThreshold     = 7
	Mastered10Threshold = 10
	Mastered50Threshold = 50
	Games10Threshold    = 10
	Games100Threshold   = 100
	PerfectQuizMinItems = 5
	SpeedStarMaxSeconds = 30
)

// CheckWordCount evaluates the vocabulary size achievements against the active item count.
func (e *Engine) CheckWordCount(ctx context.Context, userID int64) ([]string, error) {
	n, err := database.NewVocabularyRepository(e.db).Count(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	return e.unlockWhen(ctx, userID, []condition{
		{FirstWord, n >= FirstWordThreshold},
		{Words50, n >= Words50Threshold},
	})
}

// CheckMastered evaluates the mastered-count achievements. Mastered items the
// user has since deleted still count.
func (e *Engine) CheckMastered(ctx context.Context, userID int64) ([]string, error) {
	active, err := database.NewVocabularyRepository(e.db).CountMastered(ctx, userID)
	if err != nil {
		return nil, err
	}
	deleted, err := database.NewDeletedRepository(e.db).CountMastered(ctx, userID)
	if err != nil {
		return nil, err
	}
	n := active + deleted
	return e.unlockWhen(ctx, userID, []condition{
		{Mastered10, n >= Mastered10Threshold},
		{Mastered50, n >= Mastered50Threshold},
	})
}

// CheckLevel unlocks every level milestone at or below level, so a multi-level
// jump cannot skip one.
func (e *Engine) CheckLevel(ctx context.Context, userID int64, level int) ([]string, error) {
	var conds []condition
	for _, m := range levelMilestones {
		conds = append(conds, condition{LevelID(m), level >= m})
	}
	return e.unlockWhen(ctx, userID, conds)
}

// CheckStreak unlocks the streak achievement once the streak is at least seven days.
func (e *Engine) CheckStreak(ctx context.Context, userID int64, days int) ([]string, error) {
	return e.unlockWhen(ctx, userID, []condition{
		{Consecutive7Days, days >= StreakThreshold},
	})
}

// SessionResult summarizes a finished quiz for the session achievements.
type SessionResult struct {
	Answered        int
	Correct         int
	DurationSeconds int // 0 when the client did not report it
}

// CheckSession evaluates the play-count, perfect-quiz and speed achievements.
func (e *Engine) CheckSession(ctx context.Context, userID int64, r SessionResult) ([]string, error) {
	games, err := database.NewGameSessionRepository(e.db).Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	perfect := r.Answered >= PerfectQuizMinItems && r.Correct == r.Answered
	fast := perfect && r.DurationSeconds > 0 && r.DurationSeconds <= SpeedStarMaxSeconds
	return e.unlockWhen(ctx, userID, []condition{
		{Games10, games >= Games10Threshold},
		{Games100, games >= Games100Threshold},
		{PerfectQuiz, perfect},
		{SpeedStar, fast},
	})
}
