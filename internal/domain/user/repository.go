package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/visitswap/visitswap-api/internal/pkg/database"
)

const userColumns = `id, name, email, password_hash, verified, credits,
	verification_token, reset_token, reset_token_expires_at, created_at, updated_at`

// Repository defines user data access interface
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// VerifyByToken marks the owner of token verified and clears the token
	VerifyByToken(ctx context.Context, token string, now time.Time) (*User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt, now time.Time) error
	// ResetPassword swaps the hash if token is known and not expired, then clears it
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create creates a new user
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, verified, credits, verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Verified,
		user.Credits,
		user.VerificationToken,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("user repository create: %w", err)
	}

	return nil
}

// GetByID returns user by ID
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns user by email
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *repository) get(ctx context.Context, query string, arg interface{}) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository get: %w", err)
	}
	return &user, nil
}

func (r *repository) VerifyByToken(ctx context.Context, token string, now time.Time) (*User, error) {
	query := `
		UPDATE users
		SET verified = TRUE, verification_token = NULL, updated_at = $2
		WHERE verification_token = $1
		RETURNING ` + userColumns

	var user User
	if err := r.db.GetContext(ctx, &user, query, token, now.UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("user repository verify: %w", err)
	}
	return &user, nil
}

func (r *repository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt, now time.Time) error {
	query := `
		UPDATE users
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, token, expiresAt.UTC(), now.UTC())
	if err != nil {
		return fmt.Errorf("user repository set reset token: %w", err)
	}
	return requireOneRow(result, ErrUserNotFound)
}

func (r *repository) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = $3
		WHERE reset_token = $1 AND reset_token_expires_at > $3
	`
	result, err := r.db.ExecContext(ctx, query, token, passwordHash, now.UTC())
	if err != nil {
		return fmt.Errorf("user repository reset password: %w", err)
	}
	return requireOneRow(result, ErrTokenNotFound)
}

// AddCredits increments a user's balance in place and returns the new value.
// q is usually the *sqlx.Tx of a visit completion; the single UPDATE takes
// the row lock so concurrent grants never lose an update.
func AddCredits(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, amount int, now time.Time) (int, error) {
	var credits int
	err := sqlx.GetContext(ctx, q, &credits, `
		UPDATE users
		SET credits = credits + $2, updated_at = $3
		WHERE id = $1
		RETURNING credits
	`, id, amount, now.UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("add credits: %w", err)
	}
	return credits, nil
}

func requireOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
