package progression_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/progression"
)

func setup(t *testing.T) (*progression.Engine, *sqlx.DB, int64, *time.Time) {
	t.Helper()
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	ach := achievement.New(db, logger.NewNop())
	eng := progression.New(db, logger.NewNop(), ach)
	clock := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	eng.SetClock(func() time.Time { return clock })
	return eng, db, uid, &clock
}

func TestExpForLevelStrictlyIncreasing(t *testing.T) {
	for l := 1; l < 200; l++ {
		if progression.ExpForLevel(l+1) <= progression.ExpForLevel(l) {
			t.Fatalf("ExpForLevel(%d) <= ExpForLevel(%d)", l+1, l)
		}
	}
	if progression.ExpForLevel(2) != 250 {
		t.Fatalf("ExpForLevel(2) = %d", progression.ExpForLevel(2))
	}
}

func TestLevelForExp(t *testing.T) {
	cases := map[int]int{0: 1, 99: 1, 249: 1, 250: 2, 399: 2, 400: 3, 550: 4}
	for exp, want := range cases {
		if got := progression.LevelForExp(exp); got != want {
			t.Errorf("LevelForExp(%d) = %d, want %d", exp, got, want)
		}
	}
}

func TestAwardExpBelowThreshold(t *testing.T) {
	eng, db, uid, _ := setup(t)
	ctx := context.Background()

	if _, err := eng.AwardExp(ctx, uid, 95, progression.SourceQuiz); err != nil {
		t.Fatal(err)
	}
	award, err := eng.AwardExp(ctx, uid, 10, progression.SourceAddWord)
	if err != nil {
		t.Fatal(err)
	}
	if award.NewExp != 105 || award.NewLevel != 1 || award.LeveledUp {
		t.Fatalf("award = %+v", award)
	}
	stats, err := database.NewGameStatsRepository(db).Get(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalExp != 105 || stats.CurrentLevel != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestAwardExpMultiLevelJumpUnlocksMilestones(t *testing.T) {
	eng, db, uid, _ := setup(t)
	ctx := context.Background()

	award, err := eng.AwardExp(ctx, uid, progression.ExpForLevel(6), progression.SourceQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if award.NewLevel != 6 || !award.LeveledUp {
		t.Fatalf("award = %+v", award)
	}
	list, err := database.NewAchievementRepository(db).ListByUser(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].AchievementID != "level_5" {
		t.Fatalf("achievements = %+v", list)
	}
}

func TestAwardExpRejectsNonPositive(t *testing.T) {
	eng, _, uid, _ := setup(t)
	for _, amount := range []int{0, -5} {
		if _, err := eng.AwardExp(context.Background(), uid, amount, progression.SourceQuiz); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("amount %d: got %v", amount, err)
		}
	}
}

func TestAwardExpTouchesStreak(t *testing.T) {
	eng, db, uid, _ := setup(t)
	ctx := context.Background()
	if _, err := eng.AwardExp(ctx, uid, 5, progression.SourceReadAloud); err != nil {
		t.Fatal(err)
	}
	stats, _ := database.NewGameStatsRepository(db).Get(ctx, uid)
	if stats.ConsecutiveDays != 1 || stats.LastLearnDate == nil || *stats.LastLearnDate != "2024-04-10" {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestTouchStreak(t *testing.T) {
	eng, _, uid, clock := setup(t)
	ctx := context.Background()

	days, err := eng.TouchStreak(ctx, uid)
	if err != nil || days != 1 {
		t.Fatalf("first touch: %d %v", days, err)
	}
	days, err = eng.TouchStreak(ctx, uid)
	if err != nil || days != 1 {
		t.Fatalf("same day: %d %v", days, err)
	}

	*clock = clock.Add(20 * time.Hour) // next calendar day
	if days, _ = eng.TouchStreak(ctx, uid); days != 2 {
		t.Fatalf("next day: %d", days)
	}

	*clock = clock.AddDate(0, 0, 2)
	if days, _ = eng.TouchStreak(ctx, uid); days != 1 {
		t.Fatalf("after gap: %d", days)
	}
}

func TestTouchStreakSevenDaysUnlocks(t *testing.T) {
	eng, db, uid, clock := setup(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		if _, err := eng.TouchStreak(ctx, uid); err != nil {
			t.Fatal(err)
		}
		*clock = clock.AddDate(0, 0, 1)
	}
	list, err := database.NewAchievementRepository(db).ListByUser(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].AchievementID != achievement.Consecutive7Days {
		t.Fatalf("achievements = %+v", list)
	}
}

func TestStatsOverview(t *testing.T) {
	eng, _, uid, _ := setup(t)
	ctx := context.Background()

	o, err := eng.Stats(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if o.CurrentLevel != 1 || o.NextLevelExp != 250 || o.Progress != 0 {
		t.Fatalf("fresh overview = %+v", o)
	}
	if _, err := eng.AddStars(ctx, uid, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.AwardExp(ctx, uid, 325, progression.SourceQuiz); err != nil {
		t.Fatal(err)
	}
	o, err = eng.Stats(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if o.CurrentLevel != 2 || o.TotalStars != 2 || o.Progress != 0.5 {
		t.Fatalf("overview = %+v", o)
	}
}
