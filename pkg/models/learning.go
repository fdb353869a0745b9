package models

import "time"

// PinyinLearn counts drills of one pinyin initial or final
type PinyinLearn struct {
	UserID        int64      `json:"user_id" db:"user_id"`
	Pinyin        string     `json:"pinyin" db:"pinyin"`
	Type          string     `json:"type" db:"type"` // "initial" or "final"
	LearnCount    int        `json:"learn_count" db:"learn_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	LastLearnedAt *time.Time `json:"last_learned_at,omitempty" db:"last_learned_at"`
}

// EnglishLearn counts drills of a graded English word
type EnglishLearn struct {
	UserID        int64     `json:"user_id" db:"user_id"`
	Word          string    `json:"word" db:"word"`
	Level         string    `json:"level" db:"level"`
	LearnCount    int       `json:"learn_count" db:"learn_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	LastLearnedAt time.Time `json:"last_learned_at" db:"last_learned_at"`
}

// ChatMessage is one turn of the AI tutor conversation
type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"` // "user" or "assistant"
	Content   string    `json:"content" db:"content"`
	ImageData *string   `json:"image_data,omitempty" db:"image_data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
