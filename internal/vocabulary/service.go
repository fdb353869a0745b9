package vocabulary

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/effects"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/phonetic"
	"github.com/example/wordbook/internal/progression"
	"github.com/example/wordbook/pkg/models"
)

const maxTextLen = 64

// Lookuper resolves phonetics and glosses of English words.
type Lookuper interface {
	Lookup(ctx context.Context, word string) phonetic.Entry
}

// Service implements the add/delete lifecycle of vocabulary items.
type Service struct {
	db           *sqlx.DB
	log          *logger.Logger
	progression  *progression.Engine
	achievements *achievement.Engine
	dict         Lookuper
	now          func() time.Time
}

func New(db *sqlx.DB, log *logger.Logger, prog *progression.Engine, ach *achievement.Engine, dict Lookuper) *Service {
	return &Service{
		db:           db,
		log:          log.With("component", "vocabulary"),
		progression:  prog,
		achievements: ach,
		dict:         dict,
		now:          time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// AddInput is a new item as submitted by the client.
type AddInput struct {
	Kind     models.Kind `json:"kind"`
	Text     string      `json:"text"`
	Phonetic string      `json:"phonetic"`
	Meaning  string      `json:"meaning"`
}

// PrevDeleted surfaces the tombstone of a re-added item.
type PrevDeleted struct {
	AddedAt            time.Time `json:"added_at"`
	DeletedAt          time.Time `json:"deleted_at"`
	PracticeCount      int       `json:"practice_count"`
	MasteryLevel       int       `json:"mastery_level"`
	ConsecutiveCorrect int       `json:"consecutive_correct"`
	WasMastered        bool      `json:"was_mastered"`
}

type AddResult struct {
	Item        *models.VocabularyItem `json:"item"`
	PrevDeleted *PrevDeleted           `json:"prev_deleted,omitempty"`
	Rewarded    bool                   `json:"rewarded"`
	Award       *progression.Award     `json:"award,omitempty"`
}

func normalize(kind models.Kind, text string) (string, error) {
	if !kind.Valid() {
		return "", apperr.Validation("kind must be %q or %q", models.KindChinese, models.KindEnglish)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Validation("text is required")
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return "", apperr.Validation("text is longer than %d characters", maxTextLen)
	}
	return text, nil
}

// Add inserts a new item. Dictionary lookups happen before the transaction
// opens; a tombstone for the same text is consumed and reported.
func (s *Service) Add(ctx context.Context, userID int64, in AddInput) (*AddResult, error) {
	text, err := normalize(in.Kind, in.Text)
	if err != nil {
		return nil, err
	}

	items := database.NewVocabularyRepository(s.db)
	if exists, err := items.Exists(ctx, userID, in.Kind, text); err != nil {
		return nil, err
	} else if exists {
		return nil, apperr.Conflict("%q is already in the word list", text)
	}

	item := &models.VocabularyItem{
		UserID:    userID,
		Kind:      in.Kind,
		Text:      text,
		Meaning:   strings.TrimSpace(in.Meaning),
		Phonetic:  strings.TrimSpace(in.Phonetic),
		CreatedAt: s.now().UTC(),
	}
	s.transcribe(ctx, item)

	var prev *PrevDeleted
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items := database.NewVocabularyRepository(tx)
		deleted := database.NewDeletedRepository(tx)

		if exists, err := items.Exists(ctx, userID, item.Kind, item.Text); err != nil {
			return err
		} else if exists {
			return apperr.Conflict("%q is already in the word list", item.Text)
		}
		if err := items.Create(ctx, item); err != nil {
			return err
		}

		tomb, err := deleted.Get(ctx, userID, item.Kind, item.Text)
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		prev = &PrevDeleted{
			AddedAt:            tomb.AddedAt,
			DeletedAt:          tomb.DeletedAt,
			PracticeCount:      tomb.PracticeCount,
			MasteryLevel:       tomb.MasteryLevel,
			ConsecutiveCorrect: tomb.ConsecutiveCorrect,
			WasMastered:        tomb.IsMastered,
		}
		return deleted.Remove(ctx, userID, item.Kind, item.Text)
	})
	if err != nil {
		return nil, err
	}

	log := s.log.With("user", userID, "item", item.ID)
	log.Info("item added", "kind", string(item.Kind), "text", item.Text, "restored", prev != nil)

	res := &AddResult{Item: item, PrevDeleted: prev}
	award, err := s.progression.AwardExp(ctx, userID, progression.ExpAddWord, progression.SourceAddWord)
	if err != nil {
		log.Error("add reward failed", "error", err)
	} else {
		res.Rewarded = true
		res.Award = award
	}
	if err := s.progression.RecordWordLearned(ctx, userID); err != nil {
		log.Error("words learned counter failed", "error", err)
	}
	return res, nil
}

// transcribe fills the phonetic (and the gloss for English) of a new item.
func (s *Service) transcribe(ctx context.Context, item *models.VocabularyItem) {
	switch item.Kind {
	case models.KindChinese:
		item.Phonetic = phonetic.Pinyin(item.Text)
	case models.KindEnglish:
		if s.dict == nil || (item.Phonetic != "" && item.Meaning != "") {
			return
		}
		entry := s.dict.Lookup(ctx, item.Text)
		if item.Phonetic == "" {
			item.Phonetic = entry.Phonetic
		}
		if item.Meaning == "" {
			item.Meaning = entry.Chinese
		}
	}
}

// DeleteResult reports the tombstone and any mastery reward.
type DeleteResult struct {
	Deleted      models.DeletedItem `json:"deleted"`
	WasMastered  bool               `json:"was_mastered"`
	ExpAwarded   int                `json:"exp_awarded"`
	StarsAwarded int                `json:"stars_awarded"`
}

// Delete moves an item into the history table.
func (s *Service) Delete(ctx context.Context, userID, itemID int64) (*DeleteResult, error) {
	return s.remove(ctx, userID, func(items *database.VocabularyRepository) (*models.VocabularyItem, error) {
		return items.GetByIDForUpdate(ctx, userID, itemID)
	})
}

// DeleteByText is Delete addressed by the natural key.
func (s *Service) DeleteByText(ctx context.Context, userID int64, kind models.Kind, text string) (*DeleteResult, error) {
	text, err := normalize(kind, text)
	if err != nil {
		return nil, err
	}
	return s.remove(ctx, userID, func(items *database.VocabularyRepository) (*models.VocabularyItem, error) {
		return items.GetByText(ctx, userID, kind, text)
	})
}

func (s *Service) remove(ctx context.Context, userID int64, load func(*database.VocabularyRepository) (*models.VocabularyItem, error)) (*DeleteResult, error) {
	var tomb models.DeletedItem
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items := database.NewVocabularyRepository(tx)
		item, err := load(items)
		if err != nil {
			return err
		}
		tomb = item.Tombstone(s.now().UTC())
		if err := database.NewDeletedRepository(tx).Put(ctx, tomb); err != nil {
			return err
		}
		return items.Delete(ctx, userID, item.ID)
	})
	if err != nil {
		return nil, err
	}

	log := s.log.With("user", userID)
	log.Info("item deleted", "kind", string(tomb.Kind), "text", tomb.Text, "mastered", tomb.IsMastered)

	res := &DeleteResult{Deleted: tomb, WasMastered: tomb.IsMastered}
	if !tomb.IsMastered {
		return res, nil
	}

	if _, err := s.progression.AwardExp(ctx, userID, progression.ExpDeleteMastered, progression.SourceDeleteMastered); err != nil {
		log.Error("mastered delete exp failed", "error", err)
	} else {
		res.ExpAwarded = progression.ExpDeleteMastered
	}
	if _, err := s.progression.AddStars(ctx, userID, progression.StarsDeleteMastered); err != nil {
		log.Error("mastered delete stars failed", "error", err)
	} else {
		res.StarsAwarded = progression.StarsDeleteMastered
	}
	effects.List{{Name: "mastered_count", Fn: func(ctx context.Context) error {
		_, err := s.achievements.CheckMastered(ctx, userID)
		return err
	}}}.Run(ctx, log)
	return res, nil
}

// PracticeResult is returned after a read-aloud or playback.
type PracticeResult struct {
	ItemID        int64 `json:"item_id"`
	PracticeCount int   `json:"practice_count"`
	ExpAwarded    int   `json:"exp_awarded"`
}

// Practice counts one read-aloud (Chinese) or playback (English) of an item.
func (s *Service) Practice(ctx context.Context, userID, itemID int64) (*PracticeResult, error) {
	count, err := database.NewVocabularyRepository(s.db).IncrementPractice(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	res := &PracticeResult{ItemID: itemID, PracticeCount: count}
	if _, err := s.progression.AwardExp(ctx, userID, progression.ExpReadAloud, progression.SourceReadAloud); err != nil {
		s.log.Error("practice reward failed", "user", userID, "item", itemID, "error", err)
	} else {
		res.ExpAwarded = progression.ExpReadAloud
	}
	return res, nil
}

// List returns active items of a kind; an empty kind lists both.
func (s *Service) List(ctx context.Context, userID int64, kind models.Kind) ([]models.VocabularyItem, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperr.Validation("unknown kind %q", kind)
	}
	return database.NewVocabularyRepository(s.db).ListByUser(ctx, userID, kind)
}

// ListDeleted returns the tombstones of a kind.
func (s *Service) ListDeleted(ctx context.Context, userID int64, kind models.Kind) ([]models.DeletedItem, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown kind %q", kind)
	}
	return database.NewDeletedRepository(s.db).ListByUser(ctx, userID, kind)
}

// Counts splits a user's words into still-learning and known (deleted) ones.
type Counts struct {
	UnknownCount int `json:"unknown_count"`
	KnownCount   int `json:"known_count"`
}

func (s *Service) Stats(ctx context.Context, userID int64, kind models.Kind) (*Counts, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown kind %q", kind)
	}
	unknown, err := database.NewVocabularyRepository(s.db).Count(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	known, err := database.NewDeletedRepository(s.db).Count(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	return &Counts{UnknownCount: unknown, KnownCount: known}, nil
}
