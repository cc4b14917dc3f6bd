// Package ledger is the double-entry posting engine. It defines the account
// capability, the posting protocol, and balance and ledger folds over the
// entry stream.
//
// Sign convention: entries are stored with debits positive and credits
// negative. The one and only place a stored amount is flipped for display is
// the balance/ledger fold for positive-credit accounts.
package ledger

import (
	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

// Account is the capability every postable account exposes. Plain accounts
// and sub-account views implement the same four hooks; everything else
// (debit, credit, post, balance, ledger) is defined once on Service in terms
// of them and never reimplemented per account kind.
type Account interface {
	// NewEntry builds an entry of amount against this account for tx.
	// The entry is not persisted.
	NewEntry(amount money.Amount, memo string, tx *domain.Transaction) *domain.Entry
	// NewTransaction builds an unpersisted transaction.
	NewTransaction() *domain.Transaction
	// EntryFilter describes which stored entries belong to this account
	// view.
	EntryFilter() domain.EntryFilter
	// PositiveCredit reports whether credit entries increase this account's
	// displayed balance.
	PositiveCredit() bool
}

// BaseAccount adapts a plain account record to the Account capability.
// It is an immutable value holder and safe to share across goroutines.
type BaseAccount struct {
	acct domain.Account
}

func NewBaseAccount(acct domain.Account) *BaseAccount {
	return &BaseAccount{acct: acct}
}

func (b *BaseAccount) NewEntry(amount money.Amount, memo string, tx *domain.Transaction) *domain.Entry {
	return &domain.Entry{
		TransactionID: tx.ID,
		AccountID:     b.acct.ID,
		Amount:        amount,
		Memo:          memo,
	}
}

func (b *BaseAccount) NewTransaction() *domain.Transaction {
	return &domain.Transaction{}
}

func (b *BaseAccount) EntryFilter() domain.EntryFilter {
	return domain.EntryFilter{AccountID: b.acct.ID}
}

func (b *BaseAccount) PositiveCredit() bool {
	return b.acct.PositiveCredit
}

// ID returns the underlying account id.
func (b *BaseAccount) ID() uuid.UUID {
	return b.acct.ID
}

// BookSetID returns the owning book set's id.
func (b *BaseAccount) BookSetID() uuid.UUID {
	return b.acct.BookSetID
}
