package models

import "time"

// GameStats is the per-user progression row
type GameStats struct {
	UserID            int64   `json:"user_id" db:"user_id"`
	TotalExp          int     `json:"total_exp" db:"total_exp"`
	CurrentLevel      int     `json:"current_level" db:"current_level"`
	TotalStars        int     `json:"total_stars" db:"total_stars"`
	ConsecutiveDays   int     `json:"consecutive_days" db:"consecutive_days"`
	LastLearnDate     *string `json:"last_learn_date,omitempty" db:"last_learn_date"` // YYYY-MM-DD, local calendar
	TotalWordsLearned int     `json:"total_words_learned" db:"total_words_learned"`
}

// GameSession is an append-only log entry of one finished quiz
type GameSession struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	GameType  string    `json:"game_type" db:"game_type"`
	Score     int       `json:"score" db:"score"`
	ExpEarned int       `json:"exp_earned" db:"exp_earned"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserAchievement marks an unlocked catalog achievement
type UserAchievement struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}
