package credit

import (
	"time"

	"github.com/google/uuid"
)

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Type         EntryType  `json:"type"`
	Amount       int        `json:"amount"`
	Reason       string     `json:"reason"`
	RelatedID    *uuid.UUID `json:"relatedId"`
	RelatedModel *RefKind   `json:"relatedModel"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// EntryResponseFromEntity converts entity to response
func EntryResponseFromEntity(e *Entry) EntryResponse {
	resp := EntryResponse{
		ID:        e.ID,
		Type:      e.Type,
		Amount:    e.Amount,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
	if !e.Ref.IsZero() {
		id, kind := e.Ref.ID(), e.Ref.Kind()
		resp.RelatedID = &id
		resp.RelatedModel = &kind
	}
	return resp
}
