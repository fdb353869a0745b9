package vocabulary

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/effects"
	"github.com/example/wordbook/pkg/models"
)

// lookupConcurrency bounds parallel dictionary requests during an import.
const lookupConcurrency = 4

// ImportRow is one spreadsheet line.
type ImportRow struct {
	Text     string
	Phonetic string
	Meaning  string
}

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Added    int      `json:"added"`
	Restored int      `json:"restored"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Import adds rows in bulk. Existing items are skipped and tombstones are
// consumed like in Add, but no per-word experience is granted.
func (s *Service) Import(ctx context.Context, userID int64, kind models.Kind, rows []ImportRow) (*ImportReport, error) {
	if !kind.Valid() {
		return nil, apperr.Validation("unknown kind %q", kind)
	}

	report := &ImportReport{}
	items := make([]*models.VocabularyItem, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		text, err := normalize(kind, row.Text)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if seen[text] {
			report.Skipped++
			continue
		}
		seen[text] = true
		items = append(items, &models.VocabularyItem{
			UserID:   userID,
			Kind:     kind,
			Text:     text,
			Phonetic: row.Phonetic,
			Meaning:  row.Meaning,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for _, item := range items {
		g.Go(func() error {
			s.transcribe(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range items {
		item.CreatedAt = s.now().UTC()
		restored, err := s.insertOne(ctx, item)
		switch {
		case apperr.Is(err, apperr.KindConflict):
			report.Skipped++
		case err != nil:
			return report, err
		default:
			report.Added++
			if restored {
				report.Restored++
			}
			if err := s.progression.RecordWordLearned(ctx, userID); err != nil {
				s.log.Warn("words learned counter failed", "user", userID, "error", err)
			}
		}
	}

	s.log.Info("import finished", "user", userID, "kind", string(kind),
		"added", report.Added, "restored", report.Restored, "skipped", report.Skipped, "invalid", len(report.Errors))
	if report.Added > 0 {
		effects.List{{Name: "word_count_achievements", Fn: func(ctx context.Context) error {
			_, err := s.achievements.CheckWordCount(ctx, userID)
			return err
		}}}.Run(ctx, s.log)
	}
	return report, nil
}

func (s *Service) insertOne(ctx context.Context, item *models.VocabularyItem) (restored bool, err error) {
	err = database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		items := database.NewVocabularyRepository(tx)
		deleted := database.NewDeletedRepository(tx)
		if exists, err := items.Exists(ctx, item.UserID, item.Kind, item.Text); err != nil {
			return err
		} else if exists {
			return apperr.Conflict("%q already exists", item.Text)
		}
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		if _, err := deleted.Get(ctx, item.UserID, item.Kind, item.Text); err == nil {
			restored = true
		} else if !apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return deleted.Remove(ctx, item.UserID, item.Kind, item.Text)
	})
	return restored, err
}
