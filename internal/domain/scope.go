package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookSet is the top-level scope: a named set of accounts for one
// organization. Account names are unique within a BookSet.
type BookSet struct {
	ID          uuid.UUID
	Description string
	CreatedAt   time.Time
}

// ThirdParty is a sub-account lens over one parent account, typically an
// accounts-receivable or accounts-payable account. Its entries are the
// subset of the parent account's entries tagged with it; it owns no entries
// of its own.
type ThirdParty struct {
	ID uuid.UUID
	// AccountID is the home account the third party is scoped under.
	AccountID uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Project is a nested scope inside a BookSet, useful for tracking separate
// activities or sub-divisions. Transactions posted through a project show up
// both in the project and in the BookSet.
type Project struct {
	ID        uuid.UUID
	BookSetID uuid.UUID
	Name      string
	CreatedAt time.Time
}
