package models

import "time"

// Kind distinguishes the two vocabulary kinds sharing one table.
type Kind string

const (
	KindChinese Kind = "chinese"
	KindEnglish Kind = "english"
)

func (k Kind) Valid() bool {
	return k == KindChinese || k == KindEnglish
}

// VocabularyItem is a word or character a user is currently learning
type VocabularyItem struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"user_id" db:"user_id"`
	Kind               Kind       `json:"kind" db:"kind"`
	Text               string     `json:"text" db:"text"`
	Phonetic           string     `json:"phonetic" db:"phonetic"` // tone-marked pinyin or IPA
	Meaning            string     `json:"meaning" db:"meaning"`   // Chinese gloss for English words
	PracticeCount      int        `json:"practice_count" db:"practice_count"`
	MasteryLevel       int        `json:"mastery_level" db:"mastery_level"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	IsMastered         bool       `json:"is_mastered" db:"is_mastered"`
	MasteredAt         *time.Time `json:"mastered_at,omitempty" db:"mastered_at"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// DeletedItem is the tombstone left behind when a user removes an item ("I know this now").
type DeletedItem struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"user_id" db:"user_id"`
	Kind               Kind       `json:"kind" db:"kind"`
	Text               string     `json:"text" db:"text"`
	Phonetic           string     `json:"phonetic" db:"phonetic"`
	Meaning            string     `json:"meaning" db:"meaning"`
	PracticeCount      int        `json:"practice_count" db:"practice_count"`
	MasteryLevel       int        `json:"mastery_level" db:"mastery_level"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	IsMastered         bool       `json:"is_mastered" db:"is_mastered"`
	MasteredAt         *time.Time `json:"mastered_at,omitempty" db:"mastered_at"`
	AddedAt            time.Time  `json:"added_at" db:"added_at"`
	DeletedAt          time.Time  `json:"deleted_at" db:"deleted_at"`
}

// Tombstone builds the tombstone for item as of deletedAt.
func (i VocabularyItem) Tombstone(deletedAt time.Time) DeletedItem {
	return DeletedItem{
		UserID:             i.UserID,
		Kind:               i.Kind,
		Text:               i.Text,
		Phonetic:           i.Phonetic,
		Meaning:            i.Meaning,
		PracticeCount:      i.PracticeCount,
		MasteryLevel:       i.MasteryLevel,
		ConsecutiveCorrect: i.ConsecutiveCorrect,
		IsMastered:         i.IsMastered,
		MasteredAt:         i.MasteredAt,
		AddedAt:            i.CreatedAt,
		DeletedAt:          deletedAt,
	}
}
