package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/visitswap/visitswap-api/internal/domain/credit"
	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/pkg/database"
)

// Ledger runs fn inside one store transaction. Every write made through the
// LedgerTx is committed together when fn returns nil and rolled back otherwise.
type Ledger interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the set of writes a visit completion makes
type LedgerTx interface {
	FindSite(ctx context.Context, siteID uuid.UUID) (*site.Site, error)
	CreditUser(ctx context.Context, userID uuid.UUID, amount int, now time.Time) (int, error)
	InsertVisit(ctx context.Context, v *VisitLog) error
	IncrementSiteVisits(ctx context.Context, siteID uuid.UUID, now time.Time) (int, error)
	AppendCreditEntry(ctx context.Context, e *credit.Entry) error
}

type sqlLedger struct {
	db *sqlx.DB
}

// NewLedger returns a Ledger backed by db
func NewLedger(db *sqlx.DB) Ledger {
	return &sqlLedger{db: db}
}

func (l *sqlLedger) InTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	return database.WithTx(ctx, l.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, &sqlLedgerTx{tx: tx})
	})
}

type sqlLedgerTx struct {
	tx *sqlx.Tx
}

func (t *sqlLedgerTx) FindSite(ctx context.Context, siteID uuid.UUID) (*site.Site, error) {
	return site.Find(ctx, t.tx, siteID)
}

func (t *sqlLedgerTx) CreditUser(ctx context.Context, userID uuid.UUID, amount int, now time.Time) (int, error) {
	return user.AddCredits(ctx, t.tx, userID, amount, now)
}

func (t *sqlLedgerTx) InsertVisit(ctx context.Context, v *VisitLog) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO visit_logs (id, visitor_id, site_id, visited_at, ip, user_agent, duration_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.VisitorID, v.SiteID, v.VisitedAt.UTC(), v.IP, v.UserAgent, v.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert visit log: %w", err)
	}
	return nil
}

func (t *sqlLedgerTx) IncrementSiteVisits(ctx context.Context, siteID uuid.UUID, now time.Time) (int, error) {
	return site.IncrementVisits(ctx, t.tx, siteID, now)
}

func (t *sqlLedgerTx) AppendCreditEntry(ctx context.Context, e *credit.Entry) error {
	return credit.Insert(ctx, t.tx, e)
}
