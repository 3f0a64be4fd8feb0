package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository reads the credit ledger
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]*Entry, error)
	SignedSum(ctx context.Context, userID uuid.UUID) (int, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
}

// CreditRepository provides ledger queries.
type CreditRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// entryRow mirrors credit_logs; related_id/related_kind are nullable
type entryRow struct {
	ID          uuid.UUID      `db:"id"`
	UserID      uuid.UUID      `db:"user_id"`
	Type        string         `db:"type"`
	Amount      int            `db:"amount"`
	Reason      string         `db:"reason"`
	RelatedID   uuid.NullUUID  `db:"related_id"`
	RelatedKind sql.NullString `db:"related_kind"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (row *entryRow) entry() *Entry {
	e := &Entry{
		ID:        row.ID,
		UserID:    row.UserID,
		Type:      EntryType(row.Type),
		Amount:    row.Amount,
		Reason:    row.Reason,
		CreatedAt: row.CreatedAt,
	}
	if row.RelatedID.Valid && row.RelatedKind.Valid {
		switch RefKind(row.RelatedKind.String) {
		case RefVisitLog:
			e.Ref = VisitRef(row.RelatedID.UUID)
		case RefSite:
			e.Ref = SiteRef(row.RelatedID.UUID)
		}
	}
	return e
}

// Insert appends e to the ledger through ext, normally the transaction that
// also moved the balance. Zero ID and CreatedAt are filled in.
func Insert(ctx context.Context, ext sqlx.ExecerContext, e *Entry) error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Type.Valid() {
		return ErrInvalidType
	}
	if !e.Ref.IsZero() && e.Ref.ID() == uuid.Nil {
		return ErrInvalidReference
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	var relatedID uuid.NullUUID
	var relatedKind sql.NullString
	if !e.Ref.IsZero() {
		relatedID = uuid.NullUUID{UUID: e.Ref.ID(), Valid: true}
		relatedKind = sql.NullString{String: string(e.Ref.Kind()), Valid: true}
	}

	_, err := ext.ExecContext(ctx, `
		INSERT INTO credit_logs (id, user_id, type, amount, reason, related_id, related_kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.UserID, string(e.Type), e.Amount, e.Reason, relatedID, relatedKind, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert credit log: %w", err)
	}
	return nil
}

func (r *CreditRepository) ListByUser(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]*Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows := make([]entryRow, 0)
	err := r.db.SelectContext(ctx2, &rows, `
		SELECT id, user_id, type, amount, reason, related_id, related_kind, created_at
		FROM credit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("list credit logs: %w", err)
	}

	entries := make([]*Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].entry()
	}
	return entries, nil
}

// SignedSum adds up earn minus spend for userID
func (r *CreditRepository) SignedSum(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int
	err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(CASE WHEN type = 'spend' THEN -amount ELSE amount END), 0)
		FROM credit_logs
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("sum credit logs: %w", err)
	}
	return sum, nil
}

func (r *CreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT credits FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}
