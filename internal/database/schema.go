package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []struct {
	name string
	ddl  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id {{pk}},
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			api_key_enc TEXT,
			created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`},
	{"vocabulary_items", `
		CREATE TABLE IF NOT EXISTS vocabulary_items (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			phonetic TEXT NOT NULL DEFAULT '',
			meaning TEXT NOT NULL DEFAULT '',
			practice_count INTEGER NOT NULL DEFAULT 0,
			mastery_level INTEGER NOT NULL DEFAULT 0,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			is_mastered BOOLEAN NOT NULL DEFAULT false,
			mastered_at {{ts}},
			created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, kind, text)
		)`},
	{"deleted_vocabulary_items", `
		CREATE TABLE IF NOT EXISTS deleted_vocabulary_items (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			phonetic TEXT NOT NULL DEFAULT '',
			meaning TEXT NOT NULL DEFAULT '',
			practice_count INTEGER NOT NULL DEFAULT 0,
			mastery_level INTEGER NOT NULL DEFAULT 0,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			is_mastered BOOLEAN NOT NULL DEFAULT false,
			mastered_at {{ts}},
			added_at {{ts}} NOT NULL,
			deleted_at {{ts}} NOT NULL,
			UNIQUE(user_id, kind, text)
		)`},
	{"mastery_records", `
		CREATE TABLE IF NOT EXISTS mastery_records (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			item_id {{int}} NOT NULL REFERENCES vocabulary_items(id) ON DELETE CASCADE,
			correct_count INTEGER NOT NULL DEFAULT 0,
			wrong_count INTEGER NOT NULL DEFAULT 0,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			mastery_level INTEGER NOT NULL DEFAULT 0,
			last_practiced_at {{ts}},
			mastered_at {{ts}},
			UNIQUE(user_id, item_id)
		)`},
	{"game_stats", `
		CREATE TABLE IF NOT EXISTS game_stats (
			user_id {{int}} PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			total_exp INTEGER NOT NULL DEFAULT 0,
			current_level INTEGER NOT NULL DEFAULT 1,
			total_stars INTEGER NOT NULL DEFAULT 0,
			consecutive_days INTEGER NOT NULL DEFAULT 0,
			last_learn_date TEXT,
			total_words_learned INTEGER NOT NULL DEFAULT 0
		)`},
	{"user_achievements", `
		CREATE TABLE IF NOT EXISTS user_achievements (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			achievement_id TEXT NOT NULL,
			unlocked_at {{ts}} NOT NULL,
			UNIQUE(user_id, achievement_id)
		)`},
	{"game_sessions", `
		CREATE TABLE IF NOT EXISTS game_sessions (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			game_type TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			exp_earned INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}} NOT NULL
		)`},
	{"pinyin_learn", `
		CREATE TABLE IF NOT EXISTS pinyin_learn (
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			pinyin TEXT NOT NULL,
			type TEXT NOT NULL,
			learn_count INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_learned_at {{ts}},
			UNIQUE(user_id, pinyin, type)
		)`},
	{"english_learn", `
		CREATE TABLE IF NOT EXISTS english_learn (
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			level TEXT NOT NULL,
			learn_count INTEGER NOT NULL DEFAULT 1,
			created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_learned_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, word, level)
		)`},
	{"ai_chat_history", `
		CREATE TABLE IF NOT EXISTS ai_chat_history (
			id {{pk}},
			user_id {{int}} NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			image_data TEXT,
			created_at {{ts}} NOT NULL
		)`},
	{"vocabulary_items index", `CREATE INDEX IF NOT EXISTS idx_vocabulary_items_user_kind ON vocabulary_items(user_id, kind)`},
	{"ai_chat_history index", `CREATE INDEX IF NOT EXISTS idx_ai_chat_history_user ON ai_chat_history(user_id, created_at)`},
}

// InitSchema creates necessary tables if they don't exist
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	dialect := strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{int}}", "INTEGER",
		"{{ts}}", "DATETIME",
	)
	if db.DriverName() == driverPostgres {
		dialect = strings.NewReplacer(
			"{{pk}}", "BIGSERIAL PRIMARY KEY",
			"{{int}}", "BIGINT",
			"{{ts}}", "TIMESTAMPTZ",
		)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, dialect.Replace(stmt.ddl)); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}
