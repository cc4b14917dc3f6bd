package ledger

import (
	"context"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

// EntryRecord is an entry joined with the transaction it belongs to, as
// returned by ledger queries.
type EntryRecord struct {
	Entry       domain.Entry
	Transaction domain.Transaction
}

// EntryStore is the narrow storage contract the engine consumes. It owns all
// shared mutable state; the engine itself only computes over what the store
// returns.
type EntryStore interface {
	// Begin opens a transactional write scope. Everything created through
	// the scope becomes visible atomically on Commit; Rollback discards it.
	Begin(ctx context.Context) (WriteScope, error)

	// Entries returns the entries matched by f together with their
	// transactions, ordered by (transaction timestamp, transaction id)
	// ascending.
	Entries(ctx context.Context, f domain.EntryFilter) ([]EntryRecord, error)

	// SumAmounts aggregates the stored amounts of the entries matched by f.
	// No entries sums to 0.00.
	SumAmounts(ctx context.Context, f domain.EntryFilter) (money.Amount, error)

	// EntriesByTransaction returns all legs of one transaction.
	EntriesByTransaction(ctx context.Context, transactionID int64) ([]domain.Entry, error)
}

// WriteScope is one atomic unit of journal writes: a transaction row plus
// two or more entry rows. Callers must Commit or Rollback on every path.
type WriteScope interface {
	// CreateTransaction persists tx and assigns tx.ID.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	// CreateEntry persists e and assigns e.ID. The transaction referenced
	// by e must already have been created in this scope.
	CreateEntry(ctx context.Context, e *domain.Entry) error
	Commit() error
	Rollback() error
}
