package credit

import (
	"time"

	"github.com/google/uuid"
)

// EntryType is the direction of a ledger entry
type EntryType string

const (
	EntryEarn  EntryType = "earn"
	EntrySpend EntryType = "spend"
)

// Sign returns +1 for earn and -1 for spend
func (t EntryType) Sign() int {
	if t == EntrySpend {
		return -1
	}
	return 1
}

// Valid reports whether t is a known entry type
func (t EntryType) Valid() bool {
	return t == EntryEarn || t == EntrySpend
}

// RefKind names the kind of record a ledger entry points at
type RefKind string

const (
	RefVisitLog RefKind = "VisitLog"
	RefSite     RefKind = "Site"
)

// Reference is the record that caused a ledger entry: either a visit log or
// a site. The zero value means no reference.
type Reference struct {
	kind RefKind
	id   uuid.UUID
}

// VisitRef points at a visit log row
func VisitRef(id uuid.UUID) Reference {
	return Reference{kind: RefVisitLog, id: id}
}

// SiteRef points at a site row
func SiteRef(id uuid.UUID) Reference {
	return Reference{kind: RefSite, id: id}
}

func (r Reference) Kind() RefKind { return r.kind }
func (r Reference) ID() uuid.UUID { return r.id }

// IsZero reports whether the entry has no reference
func (r Reference) IsZero() bool { return r.kind == "" }

// VisitID returns the visit log id when r is a VisitRef
func (r Reference) VisitID() (uuid.UUID, bool) {
	return r.id, r.kind == RefVisitLog
}

// SiteID returns the site id when r is a SiteRef
func (r Reference) SiteID() (uuid.UUID, bool) {
	return r.id, r.kind == RefSite
}

// Entry is an immutable credit_logs row
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      EntryType
	Amount    int
	Reason    string
	Ref       Reference
	CreatedAt time.Time
}

// Signed returns the amount with the entry direction applied
func (e *Entry) Signed() int {
	return e.Type.Sign() * e.Amount
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}

// Balance compares the stored user balance against the ledger
type Balance struct {
	Credits    int  `json:"credits"`
	LedgerSum  int  `json:"ledgerSum"`
	Consistent bool `json:"consistent"`
}
