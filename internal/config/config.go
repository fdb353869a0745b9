package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server and the maintenance tool.
type Config struct {
	Port        string
	DBType      string
	DBPath      string
	DatabaseURL string
	StaticDir   string

	AllowedOrigins []string
	JWTSecret      string
	AIKeySecret    string
	BcryptCost     int

	AITutorURL        string
	AITimeout         time.Duration
	DictionaryTimeout time.Duration

	TelegramToken  string
	TelegramChatID int64

	// PhoneticAuditHours enables the periodic pinyin audit when positive.
	PhoneticAuditHours int

	LogMode string
}

const secretFile = ".ai_key_secret"

// Load reads .env (when present) and the process environment.
// The returned warnings are meant to be logged by the caller once a logger exists.
func Load() (*Config, []string, error) {
	var warnings []string
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf(".env not loaded: %v", err))
	}

	cfg := &Config{
		Port:               getenv("PORT", "3000"),
		DBType:             strings.ToLower(getenv("DB_TYPE", "sqlite")),
		DBPath:             getenv("DB_PATH", "data/words.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StaticDir:          getenv("STATIC_DIR", "public"),
		AllowedOrigins:     splitList(getenv("CORS_ORIGINS", "*")),
		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		BcryptCost:         getint("BCRYPT_ROUNDS", 10),
		AITutorURL:         getenv("AI_TUTOR_URL", "https://api.aass.cc/v1/chat/completions"),
		AITimeout:          time.Duration(getint("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		DictionaryTimeout:  time.Duration(getint("DICTIONARY_TIMEOUT_SECONDS", 5)) * time.Second,
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		PhoneticAuditHours: getint("PHONETIC_AUDIT_HOURS", 0),
		LogMode:            getenv("LOG_MODE", "dev"),
	}

	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	secret, err := loadOrCreateSecret()
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("AI key secret unavailable: %v", err))
	}
	cfg.AIKeySecret = secret

	if cfg.JWTSecret == "" {
		warnings = append(warnings, "JWT_SECRET_KEY not set, deriving tokens from the AI key secret")
		cfg.JWTSecret = "jwt:" + cfg.AIKeySecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.AITimeout <= 0 || c.DictionaryTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_ROUNDS out of range: %d", c.BcryptCost)
	}
	return nil
}

// loadOrCreateSecret prefers AI_KEY_SECRET, then the secret file, and
// generates the file on first start.
func loadOrCreateSecret() (string, error) {
	if v := os.Getenv("AI_KEY_SECRET"); v != "" {
		return v, nil
	}
	data, err := os.ReadFile(secretFile)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	generated := hex.EncodeToString(buf)
	if err := os.WriteFile(secretFile, []byte(generated), 0o600); err != nil {
		return "", err
	}
	return generated, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
