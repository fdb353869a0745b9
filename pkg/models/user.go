package models

import "time"

// User is an account of the app
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`    // bcrypt hash; legacy rows may hold plaintext
	APIKeyEnc *string   `json:"-" db:"api_key_enc"` // sealed AI provider key
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
