package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is the persisted unit of work: one line in a registry book.
//
// Invariants:
//   - ProtocolNumber is unique within (Category, EntryDate.Period())
//   - DraftNumber is present iff Category is outgoing, on its own counter
//   - Offices is non-empty iff Category is incoming; Recipient is set iff outgoing
//   - ID, Category, numbers and CreatedAt never change after Append
//
// A registration is never updated; deletion is a soft flag so numbering stays
// auditable against the physical books.
type Registration struct {
	ID              uuid.UUID  `json:"id"`
	Category        Category   `json:"category"`
	Issuer          string     `json:"issuer"`
	ReferenceNumber string     `json:"referenceNumber"`
	Subject         string     `json:"subject"`
	Recipient       string     `json:"recipient,omitempty"`
	Offices         []string   `json:"offices,omitempty"`
	ProtocolNumber  int64      `json:"protocolNumber"`
	DraftNumber     *int64     `json:"draftNumber,omitempty"`
	EntryDate       Date       `json:"entryDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	Deleted         bool       `json:"-"`
	DeletedAt       *time.Time `json:"-"`
}

// Period returns the counter/listing scope the registration belongs to.
func (r *Registration) Period() Period {
	return r.EntryDate.Period()
}
