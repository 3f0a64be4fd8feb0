package visit

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// VisitLog is an append-only record of one completed visit
type VisitLog struct {
	ID              uuid.UUID      `db:"id"`
	VisitorID       uuid.UUID      `db:"visitor_id"`
	SiteID          uuid.UUID      `db:"site_id"`
	VisitedAt       time.Time      `db:"visited_at"`
	IP              string         `db:"ip"`
	UserAgent       sql.NullString `db:"user_agent"`
	DurationSeconds int            `db:"duration_seconds"`
}

// Completion is what a caller learns after a recorded visit
type Completion struct {
	Visit   *VisitLog
	Credits int
}
