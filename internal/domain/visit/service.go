package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/visitswap/visitswap-api/internal/domain/credit"
	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
)

const reasonVisitCompleted = "visit completed"

// Config holds the reward rules of a completed visit
type Config struct {
	Reward          int
	DurationSeconds int
}

// CompleteRequest describes a claimed visit
type CompleteRequest struct {
	VisitorID uuid.UUID
	SiteID    uuid.UUID
	IP        string
	UserAgent string
}

// Service records completed visits
type Service struct {
	ledger Ledger
	cfg    Config
	now    func() time.Time
}

// NewService creates visit completion service
func NewService(ledger Ledger, cfg Config) *Service {
	if cfg.Reward <= 0 {
		cfg.Reward = 1
	}
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = 40
	}
	return &Service{ledger: ledger, cfg: cfg, now: time.Now}
}

// CompleteVisit credits the visitor, logs the visit, bumps the site counter
// and appends the earn entry in one transaction.
//
// The visitor's own sites and repeat visits are not rejected.
func (s *Service) CompleteVisit(ctx context.Context, req CompleteRequest) (*Completion, error) {
	now := s.now().UTC()
	visit := &VisitLog{
		ID:              uuid.New(),
		VisitorID:       req.VisitorID,
		SiteID:          req.SiteID,
		VisitedAt:       now,
		IP:              req.IP,
		UserAgent:       sql.NullString{String: req.UserAgent, Valid: req.UserAgent != ""},
		DurationSeconds: s.cfg.DurationSeconds,
	}

	var credits int
	err := s.ledger.InTx(ctx, func(ctx context.Context, tx LedgerTx) error {
		if _, err := tx.FindSite(ctx, req.SiteID); err != nil {
			return err
		}

		balance, err := tx.CreditUser(ctx, req.VisitorID, s.cfg.Reward, now)
		if err != nil {
			return err
		}

		if err := tx.InsertVisit(ctx, visit); err != nil {
			return err
		}

		if _, err := tx.IncrementSiteVisits(ctx, req.SiteID, now); err != nil {
			return err
		}

		if err := tx.AppendCreditEntry(ctx, &credit.Entry{
			UserID:    req.VisitorID,
			Type:      credit.EntryEarn,
			Amount:    s.cfg.Reward,
			Reason:    reasonVisitCompleted,
			Ref:       credit.VisitRef(visit.ID),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		credits = balance
		return nil
	})
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) || errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrVisitNotRecorded, err)
	}

	log.Info().
		Str("visit_id", visit.ID.String()).
		Str("user_id", req.VisitorID.String()).
		Str("site_id", req.SiteID.String()).
		Int("credits", credits).
		Msg("Visit completed")

	return &Completion{Visit: visit, Credits: credits}, nil
}
