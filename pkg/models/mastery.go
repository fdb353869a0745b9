package models

import "time"

// MasteryRecord tracks answer history of one user for one vocabulary item
type MasteryRecord struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"user_id" db:"user_id"`
	ItemID             int64      `json:"item_id" db:"item_id"`
	CorrectCount       int        `json:"correct_count" db:"correct_count"`
	WrongCount         int        `json:"wrong_count" db:"wrong_count"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	MasteryLevel       int        `json:"mastery_level" db:"mastery_level"` // 0-5
	LastPracticedAt    *time.Time `json:"last_practiced_at,omitempty" db:"last_practiced_at"`
	MasteredAt         *time.Time `json:"mastered_at,omitempty" db:"mastered_at"`
}
