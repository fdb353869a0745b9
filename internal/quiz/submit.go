package quiz

import (
	"context"
	"strconv"
	"strings"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/effects"
	"github.com/example/wordbook/internal/mastery"
	"github.com/example/wordbook/internal/progression"
	"github.com/example/wordbook/pkg/models"
)

// PointsPerCorrect is the score of one correct answer.
const PointsPerCorrect = 10

// Answer is one submitted answer. Matching and spelling use Answer,
// listening uses ChoiceID.
type Answer struct {
	ItemID   int64  `json:"item_id"`
	Answer   string `json:"answer"`
	ChoiceID int64  `json:"choice_id"`
}

// ItemResult is the feedback for one answer.
type ItemResult struct {
	ItemID       int64           `json:"item_id"`
	Correct      bool            `json:"correct"`
	CorrectValue string          `json:"correct_value"`
	Mastery      *mastery.Result `json:"mastery"`
}

// Result is the outcome of a submitted quiz.
type Result struct {
	SessionID    int64        `json:"session_id"`
	Mode         Mode         `json:"mode"`
	Total        int          `json:"total"`
	Correct      int          `json:"correct"`
	Score        int          `json:"score"`
	ExpEarned    int          `json:"exp_earned"`
	Rewarded     bool         `json:"rewarded"`
	LeveledUp    bool         `json:"leveled_up"`
	Items        []ItemResult `json:"items"`
	Achievements []string     `json:"achievements,omitempty"`
}

// ExpFor computes the mode specific experience of a finished quiz from its
// answers in submission order.
func ExpFor(mode Mode, correct []bool) int {
	n := 0
	for _, c := range correct {
		if c {
			n++
		}
	}
	switch mode {
	case Matching:
		exp := n * progression.ExpMatchingCorrect
		if n > 0 && n == len(correct) {
			exp += progression.ExpMatchingAllBonus
		}
		return exp
	case Listening:
		exp := n * progression.ExpListeningCorrect
		streak := 0
		for _, c := range correct {
			if !c {
				streak = 0
				continue
			}
			streak++
			if streak%3 == 0 {
				exp += progression.ExpListeningStreak
			}
		}
		return exp
	case Spelling:
		return n * progression.ExpSpellingCorrect
	}
	return 0
}

// Submit scores answers, records the session, feeds every answer through the
// mastery engine and awards experience.
func (g *Generator) Submit(ctx context.Context, userID int64, mode Mode, answers []Answer, durationSeconds int) (*Result, error) {
	if !mode.Valid() {
		return nil, apperr.Validation("unknown quiz mode %q", mode)
	}
	if len(answers) == 0 {
		return nil, apperr.Validation("answers are required")
	}
	if len(answers) > MaxQuestionCount {
		return nil, apperr.Validation("at most %d answers per quiz", MaxQuestionCount)
	}
	if durationSeconds < 0 {
		return nil, apperr.Validation("duration must not be negative")
	}

	ids := make([]int64, 0, len(answers))
	seen := make(map[int64]bool, len(answers))
	for _, a := range answers {
		if a.ItemID <= 0 {
			return nil, apperr.Validation("item_id is required")
		}
		if seen[a.ItemID] {
			return nil, apperr.Validation("item %d answered more than once", a.ItemID)
		}
		seen[a.ItemID] = true
		ids = append(ids, a.ItemID)
	}
	owned, err := database.NewVocabularyRepository(g.db).GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.VocabularyItem, len(owned))
	for _, it := range owned {
		byID[it.ID] = it
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperr.NotFound("vocabulary item %d not found", id)
		}
	}

	res := &Result{Mode: mode, Total: len(answers), Items: make([]ItemResult, 0, len(answers))}
	correct := make([]bool, 0, len(answers))
	for _, a := range answers {
		item := byID[a.ItemID]
		ir := ItemResult{ItemID: item.ID}
		switch mode {
		case Matching:
			// an item without a transcription can never be matched
			ir.Correct = item.Phonetic != "" && strings.TrimSpace(a.Answer) == item.Phonetic
			ir.CorrectValue = item.Phonetic
		case Listening:
			ir.Correct = a.ChoiceID == item.ID
			ir.CorrectValue = strconv.FormatInt(item.ID, 10)
		case Spelling:
			ir.Correct = strings.TrimSpace(a.Answer) == item.Text
			ir.CorrectValue = item.Text
		}
		if ir.Correct {
			res.Correct++
		}
		correct = append(correct, ir.Correct)

		m, err := g.mastery.RecordAnswer(ctx, userID, item.ID, ir.Correct)
		if err != nil {
			return nil, err
		}
		ir.Mastery = m
		res.Items = append(res.Items, ir)
	}
	res.Score = res.Correct * PointsPerCorrect
	res.ExpEarned = ExpFor(mode, correct)

	session := &models.GameSession{
		UserID:    userID,
		GameType:  string(mode),
		Score:     res.Score,
		ExpEarned: res.ExpEarned,
		CreatedAt: g.now().UTC(),
	}
	if err := database.NewGameSessionRepository(g.db).Create(ctx, session); err != nil {
		return nil, err
	}
	res.SessionID = session.ID

	log := g.log.With("user", userID, "session", session.ID)
	log.Info("quiz submitted", "mode", string(mode), "correct", res.Correct, "total", res.Total, "exp", res.ExpEarned)

	if res.ExpEarned > 0 {
		award, err := g.progression.AwardExp(ctx, userID, res.ExpEarned, progression.SourceQuiz)
		if err != nil {
			log.Error("quiz reward failed", "error", err)
		} else {
			res.Rewarded = true
			res.LeveledUp = award.LeveledUp
		}
	} else if _, err := g.progression.TouchStreak(ctx, userID); err != nil {
		log.Warn("streak update failed", "error", err)
	}

	effects.List{{Name: "session_achievements", Fn: func(ctx context.Context) error {
		fresh, err := g.achievements.CheckSession(ctx, userID, achievement.SessionResult{
			Answered:        res.Total,
			Correct:         res.Correct,
			DurationSeconds: durationSeconds,
		})
		res.Achievements = fresh
		return err
	}}}.Run(ctx, log)

	return res, nil
}

const (
	DefaultSessionLimit = 20
	MaxSessionLimit     = 100
)

// Sessions returns the user's most recent quiz sessions, newest first.
func (g *Generator) Sessions(ctx context.Context, userID int64, limit int) ([]models.GameSession, error) {
	switch {
	case limit <= 0:
		limit = DefaultSessionLimit
	case limit > MaxSessionLimit:
		limit = MaxSessionLimit
	}
	return database.NewGameSessionRepository(g.db).ListRecent(ctx, userID, limit)
}
