package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const siteColumns = `id, user_id, title, url, status, visits_received, created_at, updated_at`

// Repository defines site data access interface
type Repository interface {
	Create(ctx context.Context, site *Site) error
	GetByID(ctx context.Context, id uuid.UUID) (*Site, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Site, error)
	// ListBrowsable returns active sites not owned by callerID
	ListBrowsable(ctx context.Context, callerID uuid.UUID) ([]*Site, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, now time.Time) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new site repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, site *Site) error {
	query := `
		INSERT INTO sites (id, user_id, title, url, status, visits_received, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		site.ID,
		site.UserID,
		site.Title,
		site.URL,
		site.Status,
		site.VisitsReceived,
		site.CreatedAt.UTC(),
		site.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("site repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Site, error) {
	return Find(ctx, r.db, id)
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Site, error) {
	sites := make([]*Site, 0)
	err := r.db.SelectContext(ctx, &sites, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("site repository list by owner: %w", err)
	}
	return sites, nil
}

func (r *repository) ListBrowsable(ctx context.Context, callerID uuid.UUID) ([]*Site, error) {
	sites := make([]*Site, 0)
	err := r.db.SelectContext(ctx, &sites, `
		SELECT `+siteColumns+`
		FROM sites
		WHERE status = $1 AND user_id <> $2
		ORDER BY created_at DESC, id
	`, StatusActive, callerID)
	if err != nil {
		return nil, fmt.Errorf("site repository list browsable: %w", err)
	}
	return sites, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sites SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status, now.UTC())
	if err != nil {
		return fmt.Errorf("site repository update status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("site repository update status: %w", err)
	}
	if rows == 0 {
		return ErrSiteNotFound
	}
	return nil
}

// Find loads a site through q, which may be a transaction
func Find(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*Site, error) {
	var site Site
	err := sqlx.GetContext(ctx, q, &site, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, fmt.Errorf("find site: %w", err)
	}
	return &site, nil
}

// IncrementVisits bumps the visit counter in place and returns the new value
func IncrementVisits(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, now time.Time) (int, error) {
	var visits int
	err := sqlx.GetContext(ctx, q, &visits, `
		UPDATE sites
		SET visits_received = visits_received + 1, updated_at = $2
		WHERE id = $1
		RETURNING visits_received
	`, id, now.UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSiteNotFound
		}
		return 0, fmt.Errorf("increment site visits: %w", err)
	}
	return visits, nil
}
