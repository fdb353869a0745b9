package vocabulary

import (
	"context"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/phonetic"
	"github.com/example/wordbook/pkg/models"
)

// Mismatch is a Chinese item whose stored pinyin differs from a fresh transcription.
type Mismatch struct {
	ItemID   int64  `json:"item_id"`
	UserID   int64  `json:"user_id"`
	Text     string `json:"text"`
	Stored   string `json:"stored"`
	Expected string `json:"expected"`
}

type AuditReport struct {
	Checked    int        `json:"checked"`
	Mismatches []Mismatch `json:"mismatches"`
	Fixed      int        `json:"fixed"`
}

// AuditPhonetics re-transcribes every Chinese item and, when fix is set,
// rewrites the ones that differ.
func (s *Service) AuditPhonetics(ctx context.Context, fix bool) (*AuditReport, error) {
	repo := database.NewVocabularyRepository(s.db)
	items, err := repo.ListByKind(ctx, models.KindChinese)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{Checked: len(items)}
	for _, item := range items {
		expected := phonetic.Pinyin(item.Text)
		if expected == item.Phonetic {
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			ItemID:   item.ID,
			UserID:   item.UserID,
			Text:     item.Text,
			Stored:   item.Phonetic,
			Expected: expected,
		})
		if !fix {
			continue
		}
		if err := repo.UpdatePhonetic(ctx, item.ID, expected); err != nil {
			return report, err
		}
		report.Fixed++
	}

	s.log.Info("phonetic audit finished", "checked", report.Checked, "mismatches", len(report.Mismatches), "fixed", report.Fixed)
	return report, nil
}
