package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents an account (matches users table)
type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Verified     bool      `db:"verified"`

	// Credits only changes inside a visit completion transaction
	Credits int `db:"credits"`

	// Verification & Reset tokens, cleared after a single use
	VerificationToken sql.NullString `db:"verification_token"`
	ResetToken        sql.NullString `db:"reset_token"`
	ResetTokenExp     sql.NullTime   `db:"reset_token_expires_at"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
