package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/money"
)

// Transaction is a bundle of entries that sum to zero. The common case is a
// debit against one account and a credit against another; split transactions
// with more than two legs are supported as long as they balance.
//
// Transactions are append-only: once posted they are never edited. Mistakes
// are corrected with a reversing transaction.
type Transaction struct {
	// ID is assigned by storage from a monotonic sequence. It is the
	// tiebreaker when ordering same-instant transactions in a ledger.
	ID int64
	// PostedAt defaults to the creation time but may be backdated when
	// migrating historical data.
	PostedAt    time.Time
	Description string
	// ProjectID scopes the transaction to a project, if any.
	ProjectID *uuid.UUID
	CreatedAt time.Time
}

// Entry is one leg of a Transaction: a signed amount against exactly one
// account. An account appears at most once per transaction.
//
// Amounts are stored in the canonical sign convention: debits positive,
// credits negative. Display flipping for positive-credit accounts happens
// only when computing balances and ledgers, never here.
type Entry struct {
	ID            int64
	TransactionID int64
	AccountID     uuid.UUID
	Amount        money.Amount
	Memo          string
	// ThirdPartyID tags the entry as belonging to a third party's
	// sub-account, if any.
	ThirdPartyID *uuid.UUID
}
