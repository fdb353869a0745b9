package progression_test

import (
	"context"
	"sync"
	"testing"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/progression"
)

func TestConcurrentAwardsAreNotLost(t *testing.T) {
	eng, db, uid, _ := setup(t)
	ctx := context.Background()
	const workers, amount = 30, 3

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eng.AwardExp(ctx, uid, amount, progression.SourceQuiz); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	stats, err := database.NewGameStatsRepository(db).Get(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalExp != workers*amount {
		t.Fatalf("total exp = %d, want %d", stats.TotalExp, workers*amount)
	}
	if want := progression.LevelForExp(workers * amount); stats.CurrentLevel != want {
		t.Fatalf("level = %d, want %d", stats.CurrentLevel, want)
	}
}
