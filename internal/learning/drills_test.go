package learning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/internal/learning"
	"github.com/example/wordbook/internal/logger"
)

func TestPinyinDrill(t *testing.T) {
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	d := learning.New(db, logger.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := d.InitPinyin(ctx, uid); err != nil {
			t.Fatal(err)
		}
	}
	rows, err := d.Pinyin(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	chart := learning.PinyinChart()
	if len(rows) != len(chart.Initials)+len(chart.Finals) {
		t.Fatalf("rows = %d", len(rows))
	}

	if n, err := d.LearnPinyin(ctx, uid, "zh", learning.TypeInitial); err != nil || n != 1 {
		t.Fatalf("learn = %d %v", n, err)
	}
	if n, _ := d.LearnPinyin(ctx, uid, "zh", learning.TypeInitial); n != 2 {
		t.Fatalf("second learn = %d", n)
	}
	if _, err := d.LearnPinyin(ctx, uid, "zh", learning.TypeFinal); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("wrong section: got %v", err)
	}
}

func TestEnglishDrill(t *testing.T) {
	db := databasetest.Open(t)
	uid := databasetest.CreateUser(t, db)
	d := learning.New(db, logger.NewNop())
	ctx := context.Background()

	if n, err := d.LearnEnglish(ctx, uid, " Apple ", "1a"); err != nil || n != 1 {
		t.Fatalf("learn = %d %v", n, err)
	}
	if n, _ := d.LearnEnglish(ctx, uid, "apple", "1a"); n != 2 {
		t.Fatalf("second learn = %d", n)
	}
	if _, err := d.LearnEnglish(ctx, uid, "pear", "2b"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.LearnEnglish(ctx, uid, "", "1a"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty: got %v", err)
	}

	all, _ := d.English(ctx, uid, "")
	level, _ := d.English(ctx, uid, "1a")
	if len(all) != 2 || len(level) != 1 || level[0].Word != "apple" || level[0].LearnCount != 2 {
		t.Fatalf("all = %+v level = %+v", all, level)
	}
}
