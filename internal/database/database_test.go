package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/pkg/models"
)

func TestUserRepository(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	users := database.NewUserRepository(db)

	u, err := users.Create(ctx, "lily", "hash", time.Now().UTC())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.Create(ctx, "lily", "other", time.Now().UTC()); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: got %v, want conflict", err)
	}

	sealed := "iv.tag.data"
	if err := users.SetAPIKey(ctx, u.ID, &sealed); err != nil {
		t.Fatalf("set key: %v", err)
	}
	got, err := users.GetByUsername(ctx, "lily")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.APIKeyEnc == nil || *got.APIKeyEnc != sealed {
		t.Fatalf("api key = %v", got.APIKeyEnc)
	}
	if _, err := users.GetByID(ctx, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing user: got %v", err)
	}
}

func TestVocabularyUniqueAndOwnership(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	alice := databasetest.CreateUser(t, db)
	bob := databasetest.CreateUser(t, db)
	items := database.NewVocabularyRepository(db)

	item := &models.VocabularyItem{UserID: alice, Kind: models.KindChinese, Text: "山", Phonetic: "shān", CreatedAt: time.Now().UTC()}
	if err := items.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &models.VocabularyItem{UserID: alice, Kind: models.KindChinese, Text: "山", CreatedAt: time.Now().UTC()}
	if err := items.Create(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}
	// same text, other kind and other user are distinct keys
	if err := items.Create(ctx, &models.VocabularyItem{UserID: alice, Kind: models.KindEnglish, Text: "山", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("other kind: %v", err)
	}
	if err := items.Create(ctx, &models.VocabularyItem{UserID: bob, Kind: models.KindChinese, Text: "山", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("other user: %v", err)
	}

	if _, err := items.GetByID(ctx, bob, item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign item: got %v, want not found", err)
	}
	got, err := items.GetByID(ctx, alice, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Phonetic != "shān" || got.IsMastered || got.MasteryLevel != 0 {
		t.Fatalf("unexpected item %+v", got)
	}

	n, err := items.IncrementPractice(ctx, alice, item.ID)
	if err != nil || n != 1 {
		t.Fatalf("practice: n=%d err=%v", n, err)
	}
	byIDs, err := items.GetByIDs(ctx, bob, []int64{item.ID})
	if err != nil || len(byIDs) != 0 {
		t.Fatalf("GetByIDs across users: %v %v", byIDs, err)
	}
}

func TestUpdateMasteryKeepsFirstMasteredAt(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)
	items := database.NewVocabularyRepository(db)
	item := &models.VocabularyItem{UserID: uid, Kind: models.KindEnglish, Text: "apple", CreatedAt: time.Now().UTC()}
	if err := items.Create(ctx, item); err != nil {
		t.Fatal(err)
	}

	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := items.UpdateMastery(ctx, item.ID, 5, 10, true, &first); err != nil {
		t.Fatal(err)
	}
	later := first.Add(48 * time.Hour)
	if err := items.UpdateMastery(ctx, item.ID, 4, 0, true, &later); err != nil {
		t.Fatal(err)
	}
	got, err := items.GetByID(ctx, uid, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MasteredAt == nil || !got.MasteredAt.Equal(first) {
		t.Fatalf("mastered_at = %v, want %v", got.MasteredAt, first)
	}
	if got.MasteryLevel != 4 || !got.IsMastered {
		t.Fatalf("unexpected projection %+v", got)
	}
}

func TestTombstoneReplace(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)
	deleted := database.NewDeletedRepository(db)

	added := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := models.DeletedItem{UserID: uid, Kind: models.KindChinese, Text: "水", PracticeCount: 3, AddedAt: added, DeletedAt: added.Add(time.Hour)}
	if err := deleted.Put(ctx, d); err != nil {
		t.Fatal(err)
	}
	d.PracticeCount = 7
	d.IsMastered = true
	if err := deleted.Put(ctx, d); err != nil {
		t.Fatal(err)
	}
	got, err := deleted.Get(ctx, uid, models.KindChinese, "水")
	if err != nil {
		t.Fatal(err)
	}
	if got.PracticeCount != 7 || !got.IsMastered {
		t.Fatalf("tombstone not replaced: %+v", got)
	}
	if n, _ := deleted.CountMastered(ctx, uid); n != 1 {
		t.Fatalf("mastered tombstones = %d", n)
	}
	if err := deleted.Remove(ctx, uid, models.KindChinese, "水"); err != nil {
		t.Fatal(err)
	}
	if _, err := deleted.Get(ctx, uid, models.KindChinese, "水"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("after remove: %v", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)

	boom := errors.New("boom")
	err := database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := database.NewGameStatsRepository(tx).AddStars(ctx, uid, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	stats, err := database.NewGameStatsRepository(db).Get(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalStars != 0 || stats.CurrentLevel != 1 {
		t.Fatalf("rolled back stats = %+v", stats)
	}
}

func TestAchievementUnlockOnce(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)
	repo := database.NewAchievementRepository(db)

	now := time.Now().UTC()
	first, err := repo.Unlock(ctx, uid, "first_word", now)
	if err != nil || !first {
		t.Fatalf("first unlock: %v %v", first, err)
	}
	again, err := repo.Unlock(ctx, uid, "first_word", now)
	if err != nil || again {
		t.Fatalf("second unlock: %v %v", again, err)
	}
	list, err := repo.ListByUser(ctx, uid)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %v", list, err)
	}
}

func TestLearningCounters(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)
	repo := database.NewLearningRepository(db)
	now := time.Now().UTC()

	if err := repo.EnsurePinyin(ctx, uid, "zh", "initial", now); err != nil {
		t.Fatal(err)
	}
	if err := repo.EnsurePinyin(ctx, uid, "zh", "initial", now); err != nil {
		t.Fatal(err)
	}
	n, err := repo.LearnPinyin(ctx, uid, "zh", "initial", now)
	if err != nil || n != 1 {
		t.Fatalf("learn pinyin: %d %v", n, err)
	}
	rows, err := repo.ListPinyin(ctx, uid)
	if err != nil || len(rows) != 1 {
		t.Fatalf("list pinyin: %v %v", rows, err)
	}

	for i := 1; i <= 2; i++ {
		n, err := repo.LearnEnglish(ctx, uid, "cat", "k1", now)
		if err != nil || n != i {
			t.Fatalf("learn english #%d: %d %v", i, n, err)
		}
	}
}

func TestChatHistory(t *testing.T) {
	db := databasetest.Open(t)
	ctx := context.Background()
	uid := databasetest.CreateUser(t, db)
	repo := database.NewChatRepository(db)

	base := time.Now().UTC()
	for i, role := range []string{"user", "assistant", "user"} {
		m := &models.ChatMessage{UserID: uid, Role: role, Content: role, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := repo.ListRecent(ctx, uid, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Role != "assistant" || msgs[1].Role != "user" {
		t.Fatalf("recent = %+v", msgs)
	}
	if err := repo.Delete(ctx, uid+1, msgs[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign delete: %v", err)
	}
	n, err := repo.Clear(ctx, uid)
	if err != nil || n != 3 {
		t.Fatalf("clear: %d %v", n, err)
	}
}
