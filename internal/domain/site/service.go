package site

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles site directory business logic
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates new site service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateSite registers a new active site owned by ownerID
func (s *Service) CreateSite(ctx context.Context, ownerID uuid.UUID, req *CreateSiteRequest) (*Site, error) {
	now := s.now().UTC()
	site := &Site{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     strings.TrimSpace(req.Title),
		URL:       strings.TrimSpace(req.URL),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, site); err != nil {
		return nil, err
	}

	log.Info().
		Str("site_id", site.ID.String()).
		Str("user_id", ownerID.String()).
		Msg("Site created")

	return site, nil
}

// ListOwnSites returns every site owned by ownerID
func (s *Service) ListOwnSites(ctx context.Context, ownerID uuid.UUID) ([]*Site, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// BrowseSites returns active sites of other users
func (s *Service) BrowseSites(ctx context.Context, callerID uuid.UUID) ([]*Site, error) {
	return s.repo.ListBrowsable(ctx, callerID)
}

// UpdateStatus lets the owner list or unlist a site
func (s *Service) UpdateStatus(ctx context.Context, callerID, siteID uuid.UUID, status Status) (*Site, error) {
	site, err := s.repo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if !site.IsOwnedBy(callerID) {
		return nil, ErrNotOwner
	}
	if site.Status == status {
		return site, nil
	}

	now := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, siteID, status, now); err != nil {
		return nil, err
	}
	site.Status = status
	site.UpdatedAt = now

	log.Info().
		Str("site_id", siteID.String()).
		Str("status", string(status)).
		Msg("Site status changed")

	return site, nil
}
