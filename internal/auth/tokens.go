package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/wordbook/internal/apperr"
)

// TokenTTL is how long a login stays valid.
const TokenTTL = 7 * 24 * time.Hour

// Tokens issues and verifies HS256 session tokens carrying the user id as subject.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token for a user.
func (t *Tokens) Issue(userID int64, username string) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(userID, 10),
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(t.ttl).Unix(),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperr.Storage("sign token", err)
	}
	return signed, nil
}

// Verify returns the user id of a valid token.
func (t *Tokens) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return 0, apperr.Unauthorized("invalid or expired token")
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, apperr.Unauthorized("invalid token subject")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Unauthorized("invalid token subject")
	}
	return id, nil
}
