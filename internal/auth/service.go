package auth

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/wordbook/internal/apperr"
	"github.com/example/wordbook/internal/database"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/pkg/models"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes
	maxPasswordLen = 72
)

var errBadCredentials = apperr.Unauthorized("wrong username or password")

// Service handles accounts and the per-user AI provider key.
type Service struct {
	db     *sqlx.DB
	log    *logger.Logger
	cost   int
	tokens *Tokens
	box    *SecretBox
	now    func() time.Time
}

// New creates the account service. box may be nil, in which case storing
// AI keys fails with a validation error.
func New(db *sqlx.DB, log *logger.Logger, cost int, tokens *Tokens, box *SecretBox) *Service {
	return &Service{
		db:     db,
		log:    log.With("component", "auth"),
		cost:   cost,
		tokens: tokens,
		box:    box,
		now:    time.Now,
	}
}

func (s *Service) Tokens() *Tokens { return s.tokens }

// Session is returned on successful login.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return apperr.Validation("password must be at most %d bytes", maxPasswordLen)
	}
	return nil
}

// Register creates an account with a bcrypt hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < minUsernameLen {
		return nil, apperr.Validation("username must be at least %d characters", minUsernameLen)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}
	user, err := database.NewUserRepository(s.db).Create(ctx, username, string(hash), s.now().UTC())
	if apperr.Is(err, apperr.KindConflict) {
		return nil, apperr.Conflict("username %q is taken", username)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user", user.ID)
	return user, nil
}

// Login verifies credentials and issues a token. Accounts still holding a
// plaintext password are migrated to bcrypt on success.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	repo := database.NewUserRepository(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	legacy, ok := s.verify(user.Password, password)
	if !ok {
		return nil, errBadCredentials
	}
	if legacy {
		s.rehash(ctx, repo, user.ID, password)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: user.ID, Username: user.Username, Token: token}, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return apperr.Validation("old password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	repo := database.NewUserRepository(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := s.verify(user.Password, oldPassword); !ok {
		return apperr.Unauthorized("old password is wrong")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return apperr.Storage("hash password", err)
	}
	if err := repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.log.Info("password changed", "user", userID)
	return nil
}

// verify compares a candidate against a stored value that is either a bcrypt
// hash or a legacy plaintext password.
func (s *Service) verify(stored, candidate string) (legacy, ok bool) {
	if strings.HasPrefix(stored, "$2") {
		return false, bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return true, stored != "" && stored == candidate
}

func (s *Service) rehash(ctx context.Context, repo *database.UserRepository, userID int64, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err == nil {
		err = repo.UpdatePassword(ctx, userID, string(hash))
	}
	if err != nil {
		s.log.Warn("legacy password migration failed", "user", userID, "error", err)
		return
	}
	s.log.Info("legacy password migrated", "user", userID)
}

// SaveAPIKey seals and stores the user's AI provider key. An empty key clears it.
func (s *Service) SaveAPIKey(ctx context.Context, userID int64, key string) error {
	key = strings.TrimSpace(key)
	repo := database.NewUserRepository(s.db)
	if key == "" {
		return repo.SetAPIKey(ctx, userID, nil)
	}
	if s.box == nil {
		return apperr.Validation("AI key storage is not configured on this server")
	}
	sealed, err := s.box.Seal(key)
	if err != nil {
		return apperr.Storage("seal api key", err)
	}
	return repo.SetAPIKey(ctx, userID, &sealed)
}

// APIKeyConfigured reports whether a key is stored for the user.
func (s *Service) APIKeyConfigured(ctx context.Context, userID int64) (bool, error) {
	user, err := database.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.APIKeyEnc != nil && *user.APIKeyEnc != "", nil
}

// APIKey returns the decrypted key, or "" when none is stored.
func (s *Service) APIKey(ctx context.Context, userID int64) (string, error) {
	user, err := database.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.APIKeyEnc == nil || *user.APIKeyEnc == "" || s.box == nil {
		return "", nil
	}
	key, err := s.box.Open(*user.APIKeyEnc)
	if err != nil {
		s.log.Warn("stored api key unreadable", "user", userID, "error", err)
		return "", apperr.Validation("stored AI key cannot be read, please save it again")
	}
	return key, nil
}
