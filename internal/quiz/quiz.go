package quiz

import (
	"context"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/mastery"
	"github.com/example/wordbook/internal/progression"
	"github.com/example/wordbook/pkg/models"
)

// Mode represents the different quiz games
type Mode string

const (
	// Matching pairs an item with its transcription
	Matching Mode = "matching"
	// Listening picks the item that was read out
	Listening Mode = "listening"
	// Spelling types the item from its transcription
	Spelling Mode = "spelling"
)

func (m Mode) Valid() bool {
	return m == Matching || m == Listening || m == Spelling
}

const (
	DefaultQuestionCount = 10
	MaxQuestionCount     = 50
	distractorCount      = 3
)

// Placeholder pads listening choices when the vocabulary is too small.
var Placeholder = Choice{ID: 0, Text: "?"}

// fallbackPhonetics pad matching options when the vocabulary is too small.
var fallbackPhonetics = map[models.Kind][]string{
	models.KindChinese: {"bā", "mā", "dà", "tiān", "shuǐ", "huǒ", "rén", "kǒu", "shān", "yuè"},
	models.KindEnglish: {"/kæt/", "/dɒɡ/", "/sʌn/", "/bʊk/", "/triː/", "/fɪʃ/", "/bɜːd/", "/ˈæp.əl/"},
}

// Choice is one answer of a listening question
type Choice struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Question represents a single quiz question
type Question struct {
	ItemID   int64       `json:"item_id"`
	Mode     Mode        `json:"mode"`
	Kind     models.Kind `json:"kind"`
	Text     string      `json:"text,omitempty"`     // hidden in spelling
	Phonetic string      `json:"phonetic,omitempty"` // hidden in matching
	Meaning  string      `json:"meaning,omitempty"`
	Options  []string    `json:"options,omitempty"` // matching
	Choices  []Choice    `json:"choices,omitempty"` // listening
}

// Generator builds question sets and scores submissions.
type Generator struct {
	db           *sqlx.DB
	log          *logger.Logger
	mastery      *mastery.Engine
	progression  *progression.Engine
	achievements *achievement.Engine
	seed         func() int64
	now          func() time.Time
}

func New(db *sqlx.DB, log *logger.Logger, m *mastery.Engine, p *progression.Engine, a *achievement.Engine) *Generator {
	return &Generator{
		db:           db,
		log:          log.With("component", "quiz"),
		mastery:      m,
		progression:  p,
		achievements: a,
		seed:         func() int64 { return time.Now().UnixNano() },
		now:          time.Now,
	}
}

// SetSeed makes shuffling deterministic.
func (g *Generator) SetSeed(seed func() int64) { g.seed = seed }

// Generate samples up to n of the user's items of a kind without replacement.
func (g *Generator) Generate(ctx context.Context, userID int64, mode Mode, kind models.Kind, n int) ([]Question, error) {
	if !mode.Valid() {
		return nil, apperr.Validation("unknown quiz mode %q", mode)
	}
	if !kind.Valid() {
		return nil, apperr.Validation("unknown kind %q", kind)
	}
	if n <= 0 {
		n = DefaultQuestionCount
	}
	if n > MaxQuestionCount {
		n = MaxQuestionCount
	}

	all, err := database.NewVocabularyRepository(g.db).ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, err
	}

	candidates := all
	if mode == Matching {
		candidates = withPhonetic(all)
	}

	rnd := rand.New(rand.NewSource(g.seed()))
	sample := make([]models.VocabularyItem, len(candidates))
	copy(sample, candidates)
	rnd.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	if len(sample) > n {
		sample = sample[:n]
	}

	questions := make([]Question, 0, len(sample))
	for _, item := range sample {
		q := Question{ItemID: item.ID, Mode: mode, Kind: item.Kind, Meaning: item.Meaning}
		switch mode {
		case Matching:
			q.Text = item.Text
			q.Options = matchingOptions(rnd, item, all)
		case Listening:
			q.Text = item.Text
			q.Phonetic = item.Phonetic
			q.Choices = listeningChoices(rnd, item, all)
		case Spelling:
			q.Phonetic = item.Phonetic
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// withPhonetic drops items whose transcription is unknown.
func withPhonetic(items []models.VocabularyItem) []models.VocabularyItem {
	out := make([]models.VocabularyItem, 0, len(items))
	for _, it := range items {
		if it.Phonetic != "" {
			out = append(out, it)
		}
	}
	return out
}

// matchingOptions returns the correct transcription plus three distinct
// wrong ones, shuffled.
func matchingOptions(rnd *rand.Rand, item models.VocabularyItem, all []models.VocabularyItem) []string {
	seen := map[string]bool{item.Phonetic: true}
	var pool []string
	for _, other := range all {
		if other.ID == item.ID || other.Phonetic == "" || seen[other.Phonetic] {
			continue
		}
		seen[other.Phonetic] = true
		pool = append(pool, other.Phonetic)
	}
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > distractorCount {
		pool = pool[:distractorCount]
	}
	for _, fb := range fallbackPhonetics[item.Kind] {
		if len(pool) >= distractorCount {
			break
		}
		if !seen[fb] {
			seen[fb] = true
			pool = append(pool, fb)
		}
	}

	options := append(pool, item.Phonetic)
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// listeningChoices returns the item plus three other items, shuffled.
func listeningChoices(rnd *rand.Rand, item models.VocabularyItem, all []models.VocabularyItem) []Choice {
	var pool []Choice
	for _, other := range all {
		if other.ID != item.ID {
			pool = append(pool, Choice{ID: other.ID, Text: other.Text})
		}
	}
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > distractorCount {
		pool = pool[:distractorCount]
	}
	for len(pool) < distractorCount {
		pool = append(pool, Placeholder)
	}

	choices := append(pool, Choice{ID: item.ID, Text: item.Text})
	rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
