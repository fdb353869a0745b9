package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_KEY_SECRET", "test-secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" || cfg.DBType != "sqlite" {
		t.Fatalf("unexpected defaults: port=%s db=%s", cfg.Port, cfg.DBType)
	}
	if cfg.DictionaryTimeout != 5*time.Second {
		t.Fatalf("dictionary timeout = %v", cfg.DictionaryTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.AIKeySecret != "test-secret" {
		t.Fatalf("secret = %q", cfg.AIKeySecret)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_KEY_SECRET", "test-secret")
	t.Setenv("PORT", "8088")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("PHONETIC_AUDIT_HOURS", "24")

	cfg, warnings, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8088" {
		t.Fatalf("port = %s", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.TelegramChatID != 12345 || cfg.PhoneticAuditHours != 24 {
		t.Fatalf("telegram=%d audit=%d", cfg.TelegramChatID, cfg.PhoneticAuditHours)
	}
	if cfg.JWTSecret == "" || len(warnings) == 0 {
		t.Fatalf("expected derived jwt secret with a warning, got %q %v", cfg.JWTSecret, warnings)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"sqlite", Config{DBType: "sqlite", DBPath: "x.db", AITimeout: time.Second, DictionaryTimeout: time.Second, BcryptCost: 10}, true},
		{"postgres without url", Config{DBType: "postgres", AITimeout: time.Second, DictionaryTimeout: time.Second, BcryptCost: 10}, false},
		{"unknown driver", Config{DBType: "mysql", AITimeout: time.Second, DictionaryTimeout: time.Second, BcryptCost: 10}, false},
		{"zero timeout", Config{DBType: "sqlite", DBPath: "x.db", DictionaryTimeout: time.Second, BcryptCost: 10}, false},
		{"bad cost", Config{DBType: "sqlite", DBPath: "x.db", AITimeout: time.Second, DictionaryTimeout: time.Second, BcryptCost: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err == nil) != tc.ok {
				t.Fatalf("Validate() err=%v, want ok=%v", err, tc.ok)
			}
		})
	}
}
