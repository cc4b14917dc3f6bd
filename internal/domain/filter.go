package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryFilter selects a subset of stored entries. The account capability's
// entries hook returns one of these; sub-account views narrow it further.
// Storage executes the filter ordered by (transaction timestamp,
// transaction id) ascending.
type EntryFilter struct {
	AccountID uuid.UUID
	// ThirdPartyID restricts to entries tagged with the third party.
	ThirdPartyID *uuid.UUID
	// ProjectID restricts to entries whose transaction is tagged with the
	// project.
	ProjectID *uuid.UUID
	// From is an inclusive lower bound on transaction timestamp.
	From *time.Time
	// Before is an exclusive upper bound on transaction timestamp.
	Before *time.Time
}
