package site

import (
	"time"

	"github.com/google/uuid"
)

// Status gates visibility of a site to other users
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Site is a URL registered by its owner for others to visit
type Site struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`
	Title  string    `db:"title"`
	URL    string    `db:"url"`
	Status Status    `db:"status"`

	// VisitsReceived only changes inside a visit completion transaction
	VisitsReceived int `db:"visits_received"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsActive returns true if the site is listed for other users
func (s *Site) IsActive() bool {
	return s.Status == StatusActive
}

// IsOwnedBy returns true if userID owns the site
func (s *Site) IsOwnedBy(userID uuid.UUID) bool {
	return s.UserID == userID
}
