package site

import (
	"time"

	"github.com/google/uuid"
)

// CreateSiteRequest for POST /sites
type CreateSiteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,max=2048,http_url"`
}

// UpdateStatusRequest for PATCH /sites/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,site_status"`
}

// SiteResponse represents a site in API responses
type SiteResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Status         Status    `json:"status"`
	VisitsReceived int       `json:"visitsReceived"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SiteResponseFromEntity converts entity to response
func SiteResponseFromEntity(s *Site) SiteResponse {
	return SiteResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		Title:          s.Title,
		URL:            s.URL,
		Status:         s.Status,
		VisitsReceived: s.VisitsReceived,
		CreatedAt:      s.CreatedAt,
	}
}

func siteResponses(sites []*Site) []SiteResponse {
	items := make([]SiteResponse, len(sites))
	for i, s := range sites {
		items[i] = SiteResponseFromEntity(s)
	}
	return items
}
