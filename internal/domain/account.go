package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is one financial account within a BookSet, for example a chequing
// account or a bank-fee expense account. All amounts are assumed to share a
// single currency across the whole book.
type Account struct {
	ID          uuid.UUID
	BookSetID   uuid.UUID
	Name        string
	Description string
	// PositiveCredit reports whether credit entries increase the displayed
	// balance. False for asset and expense accounts, true for liability,
	// revenue and equity accounts. Locked once the account has entries.
	PositiveCredit bool
	CreatedAt      time.Time
}
