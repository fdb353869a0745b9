package learning

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/phonetic"
	"github.com/example/wordbook/pkg/models"
)

// Pinyin chart sections.
const (
	TypeInitial = "initial"
	TypeFinal   = "final"
)

const maxWordLen = 64

// Chart is the fixed list of drillable pinyin.
type Chart struct {
	Initials []string `json:"initials"`
	Finals   []string `json:"finals"`
}

func PinyinChart() Chart {
	return Chart{Initials: phonetic.Initials, Finals: phonetic.Finals}
}

func inChart(pinyin, typ string) bool {
	var list []string
	switch typ {
	case TypeInitial:
		list = phonetic.Initials
	case TypeFinal:
		list = phonetic.Finals
	}
	for _, p := range list {
		if p == pinyin {
			return true
		}
	}
	return false
}

// Drills tracks the pinyin chart and graded English word practice.
type Drills struct {
	db  *sqlx.DB
	log *logger.Logger
	now func() time.Time
}

func New(db *sqlx.DB, log *logger.Logger) *Drills {
	return &Drills{db: db, log: log.With("component", "drills"), now: time.Now}
}

// InitPinyin creates a zero-count row for every chart entry the user lacks.
func (d *Drills) InitPinyin(ctx context.Context, userID int64) error {
	now := d.now().UTC()
	return database.WithTx(ctx, d.db, func(tx *sqlx.Tx) error {
		repo := database.NewLearningRepository(tx)
		for _, p := range phonetic.Initials {
			if err := repo.EnsurePinyin(ctx, userID, p, TypeInitial, now); err != nil {
				return err
			}
		}
		for _, p := range phonetic.Finals {
			if err := repo.EnsurePinyin(ctx, userID, p, TypeFinal, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Drills) Pinyin(ctx context.Context, userID int64) ([]models.PinyinLearn, error) {
	return database.NewLearningRepository(d.db).ListPinyin(ctx, userID)
}

// LearnPinyin counts one practice of a chart entry.
func (d *Drills) LearnPinyin(ctx context.Context, userID int64, pinyin, typ string) (int, error) {
	pinyin = strings.TrimSpace(pinyin)
	if !inChart(pinyin, typ) {
		return 0, apperr.Validation("%q is not a pinyin %s", pinyin, typ)
	}
	return database.NewLearningRepository(d.db).LearnPinyin(ctx, userID, pinyin, typ, d.now().UTC())
}

// LearnEnglish counts one practice of a graded word.
func (d *Drills) LearnEnglish(ctx context.Context, userID int64, word, level string) (int, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	level = strings.TrimSpace(level)
	if word == "" || level == "" {
		return 0, apperr.Validation("word and level are required")
	}
	if len(word) > maxWordLen {
		return 0, apperr.Validation("word is too long")
	}
	return database.NewLearningRepository(d.db).LearnEnglish(ctx, userID, word, level, d.now().UTC())
}

func (d *Drills) English(ctx context.Context, userID int64, level string) ([]models.EnglishLearn, error) {
	return database.NewLearningRepository(d.db).ListEnglish(ctx, userID, strings.TrimSpace(level))
}
