package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/pkg/models"
)

// seedStore prepares a sqlite file with one user and points the environment at it.
func seedStore(t *testing.T, items ...models.VocabularyItem) int64 {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.db")
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", path)
	t.Setenv("AI_KEY_SECRET", "maint-test-secret")
	t.Setenv("JWT_SECRET_KEY", "maint-test-jwt")
	t.Setenv("LOG_MODE", "prod")

	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := database.InitSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	uid := databasetest.CreateUser(t, db)
	repo := database.NewVocabularyRepository(db)
	for _, it := range items {
		it.UserID = uid
		it.CreatedAt = time.Now().UTC()
		if err := repo.Create(ctx, &it); err != nil {
			t.Fatal(err)
		}
	}
	return uid
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestCheckPhonetic(t *testing.T) {
	seedStore(t,
		models.VocabularyItem{Kind: models.KindChinese, Text: "山", Phonetic: "shān"},
		models.VocabularyItem{Kind: models.KindChinese, Text: "水", Phonetic: "shui"},
	)

	out := run(t, "check-phonetic")
	if !strings.Contains(out, `stored "shui", expected "shuǐ"`) || !strings.Contains(out, "checked 2, mismatched 1, fixed 0") {
		t.Fatalf("dry run output:\n%s", out)
	}

	out = run(t, "check-phonetic", "--fix")
	if !strings.Contains(out, "fixed 1") {
		t.Fatalf("fix output:\n%s", out)
	}
	out = run(t, "check-phonetic")
	if !strings.Contains(out, "checked 2, mismatched 0, fixed 0") {
		t.Fatalf("after fix:\n%s", out)
	}
}

func TestImportCSV(t *testing.T) {
	uid := seedStore(t)
	file := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(file, []byte("山\n水\n山\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := run(t, "import", "--user", strconv.FormatInt(uid, 10), "--kind", "chinese", "--file", file)
	if !strings.Contains(out, "added 2 (restored 0), skipped 1, invalid 0") {
		t.Fatalf("import output:\n%s", out)
	}
}

func TestImportRejectsUnknownKind(t *testing.T) {
	seedStore(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"import", "--user", "1", "--kind", "french", "--file", "x.csv"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
