package achievement

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/logger"
)

// UnlockStars is the star reward of every unlock.
const UnlockStars = 1

// Notifier is told about fresh unlocks, e.g. a parent's Telegram chat.
type Notifier interface {
	NotifyUnlock(ctx context.Context, userID int64, a Achievement) error
}

// Engine is the at-most-once unlock primitive plus the threshold checks callers use.
type Engine struct {
	db       *sqlx.DB
	log      *logger.Logger
	now      func() time.Time
	notifier Notifier
}

func New(db *sqlx.DB, log *logger.Logger) *Engine {
	return &Engine{db: db, log: log.With("component", "achievement"), now: time.Now}
}

func (e *Engine) SetClock(now func() time.Time) { e.now = now }

func (e *Engine) SetNotifier(n Notifier) { e.notifier = n }

// CheckAndUnlock unlocks id for the user unless already unlocked, granting
// the star reward in the same transaction. It reports whether this call unlocked it.
func (e *Engine) CheckAndUnlock(ctx context.Context, userID int64, id string) (bool, error) {
	a, ok := Lookup(id)
	if !ok {
		return false, apperr.Validation("unknown achievement %q", id)
	}

	var unlocked bool
	err := database.WithTx(ctx, e.db, func(tx *sqlx.Tx) error {
		inserted, err := database.NewAchievementRepository(tx).Unlock(ctx, userID, id, e.now().UTC())
		if err != nil || !inserted {
			return err
		}
		if _, err := database.NewGameStatsRepository(tx).AddStars(ctx, userID, UnlockStars); err != nil {
			return err
		}
		unlocked = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if unlocked {
		e.log.Info("achievement unlocked", "user", userID, "achievement", id)
		if e.notifier != nil {
			if err := e.notifier.NotifyUnlock(ctx, userID, a); err != nil {
				e.log.Warn("unlock notification failed", "user", userID, "achievement", id, "error", err)
			}
		}
	}
	return unlocked, nil
}

// Status is a catalog entry merged with the user's unlock state.
type Status struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// List returns the whole catalog with the user's unlock state.
func (e *Engine) List(ctx context.Context, userID int64) ([]Status, error) {
	rows, err := database.NewAchievementRepository(e.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		unlockedAt[r.AchievementID] = r.UnlockedAt
	}

	out := make([]Status, 0, len(catalog))
	for _, a := range catalog {
		s := Status{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			at := at
			s.Unlocked = true
			s.UnlockedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

// unlockWhen tries every id whose condition holds and returns the ones unlocked now.
func (e *Engine) unlockWhen(ctx context.Context, userID int64, conds []condition) ([]string, error) {
	var (
		fresh []string
		errs  []error
	)
	for _, c := range conds {
		if !c.holds {
			continue
		}
		ok, err := e.CheckAndUnlock(ctx, userID, c.id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			fresh = append(fresh, c.id)
		}
	}
	return fresh, errors.Join(errs...)
}

type condition struct {
	id    string
	holds bool
}
