package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/auth"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/database/databasetest"
	"github.com/example/wordbook/internal/logger"
)

func newService(t *testing.T) (*auth.Service, *database.UserRepository) {
	t.Helper()
	db := databasetest.Open(t)
	box, err := auth.NewSecretBox("test-secret")
	if err != nil {
		t.Fatal(err)
	}
	svc := auth.New(db, logger.NewNop(), bcrypt.MinCost, auth.NewTokens("jwt-secret", time.Hour), box)
	return svc, database.NewUserRepository(db)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " alice ", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if user.Username != "alice" {
		t.Fatalf("username = %q", user.Username)
	}
	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil || !strings.HasPrefix(stored.Password, "$2") {
		t.Fatalf("password not hashed: %+v %v", stored, err)
	}

	sess, err := svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	id, err := svc.Tokens().Verify(sess.Token)
	if err != nil || id != user.ID {
		t.Fatalf("verify = %d %v", id, err)
	}

	if _, err := svc.Login(ctx, "alice", "wrong!!"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestRegisterValidationAndConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "ab", "secret1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("short username: got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "12345"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("short password: got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "bob", "secret2"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate: got %v", err)
	}
}

func TestLegacyPasswordIsRehashed(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	user, err := repo.Create(ctx, "legacy", "plain123", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "legacy", "plain123"); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(ctx, user.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plain123")) != nil {
		t.Fatalf("password not migrated: %q", stored.Password)
	}
	if _, err := svc.Login(ctx, "legacy", "plain123"); err != nil {
		t.Fatalf("login after migration: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "carol", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "nope123", "newpass1"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("wrong old password: got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "secret1", "newpass1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, "carol", "newpass1"); err != nil {
		t.Fatal(err)
	}
}

func TestAPIKeyRoundTrip(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "dave", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := svc.APIKeyConfigured(ctx, user.ID); ok {
		t.Fatal("configured before save")
	}
	if err := svc.SaveAPIKey(ctx, user.ID, "sk-test-123"); err != nil {
		t.Fatal(err)
	}
	stored, _ := repo.GetByID(ctx, user.ID)
	if stored.APIKeyEnc == nil || strings.Contains(*stored.APIKeyEnc, "sk-test") {
		t.Fatalf("key stored in clear: %v", stored.APIKeyEnc)
	}
	key, err := svc.APIKey(ctx, user.ID)
	if err != nil || key != "sk-test-123" {
		t.Fatalf("key = %q %v", key, err)
	}
	if err := svc.SaveAPIKey(ctx, user.ID, ""); err != nil {
		t.Fatal(err)
	}
	if ok, _ := svc.APIKeyConfigured(ctx, user.ID); ok {
		t.Fatal("still configured after clear")
	}
}

func TestSecretBox(t *testing.T) {
	box, _ := auth.NewSecretBox("k1")
	sealed, err := box.Seal("hello")
	if err != nil {
		t.Fatal(err)
	}
	if parts := strings.Split(sealed, "."); len(parts) != 3 {
		t.Fatalf("payload = %q", sealed)
	}
	if plain, err := box.Open(sealed); err != nil || plain != "hello" {
		t.Fatalf("open = %q %v", plain, err)
	}
	other, _ := auth.NewSecretBox("k2")
	if _, err := other.Open(sealed); err == nil {
		t.Fatal("opened with wrong key")
	}
	if _, err := box.Open("not-a-payload"); err == nil {
		t.Fatal("opened malformed payload")
	}
	if _, err := auth.NewSecretBox(""); err == nil {
		t.Fatal("empty secret accepted")
	}
}

func TestTokensRejectTamperedAndExpired(t *testing.T) {
	tokens := auth.NewTokens("s1", time.Minute)
	tok, err := tokens.Issue(7, "eve")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.NewTokens("s2", time.Minute).Verify(tok); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("foreign secret: got %v", err)
	}
	if _, err := tokens.Verify(tok + "x"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("tampered: got %v", err)
	}

	expired := auth.NewTokens("s1", time.Nanosecond)
	old, _ := expired.Issue(7, "eve")
	time.Sleep(1100 * time.Millisecond)
	if _, err := expired.Verify(old); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expired: got %v", err)
	}
}
