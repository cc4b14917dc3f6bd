package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/logging"
	"github.com/finbook/bookset/internal/money"
)

// Service executes postings and queries over accounts. The derived
// operations here are the only posting and folding logic in the engine;
// every account kind, plain or composed, goes through them.
type Service struct {
	store EntryStore
}

func NewService(store EntryStore) *Service {
	return &Service{store: store}
}

// Posting describes one two-legged posting call.
type Posting struct {
	Amount      money.Amount
	Description string
	// SelfMemo annotates the leg on the account being called; OtherMemo the
	// counterparty leg.
	SelfMemo  string
	OtherMemo string
	// At backdates the transaction, e.g. for data migration. Nil means now.
	At *time.Time
}

// Debit posts p.Amount as a debit to acct and the matching credit to other.
// The amount must be non-negative.
func (s *Service) Debit(ctx context.Context, acct, other Account, p Posting) (*domain.Entry, *domain.Entry, error) {
	if p.Amount.IsNegative() {
		return nil, nil, fmt.Errorf("Debit: %w", domain.ErrInvalidAmount)
	}
	own, counter, err := s.Post(ctx, acct, other, p)
	if err != nil {
		return nil, nil, fmt.Errorf("Debit: %w", err)
	}
	return own, counter, nil
}

// Credit posts p.Amount as a credit to acct and the matching debit to other.
// The amount must be non-negative.
func (s *Service) Credit(ctx context.Context, acct, other Account, p Posting) (*domain.Entry, *domain.Entry, error) {
	if p.Amount.IsNegative() {
		return nil, nil, fmt.Errorf("Credit: %w", domain.ErrInvalidAmount)
	}
	p.Amount = p.Amount.Neg()
	own, counter, err := s.Post(ctx, acct, other, p)
	if err != nil {
		return nil, nil, fmt.Errorf("Credit: %w", err)
	}
	return own, counter, nil
}

// Post is the posting primitive both Debit and Credit delegate to. It mints
// one transaction and exactly two entries whose stored amounts are additive
// inverses, persists all three in a single write scope, and returns both
// entries. A positive p.Amount shows as a debit against acct, a negative one
// as a credit.
func (s *Service) Post(ctx context.Context, acct, other Account, p Posting) (*domain.Entry, *domain.Entry, error) {
	if s.store == nil || acct == nil || other == nil {
		return nil, nil, fmt.Errorf("Post: %w", domain.ErrMissingCapability)
	}

	tx := acct.NewTransaction()
	tx.Description = p.Description
	if p.At != nil {
		tx.PostedAt = *p.At
	} else {
		tx.PostedAt = time.Now().UTC()
	}

	scope, err := s.store.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("Post: begin: %w", err)
	}
	defer scope.Rollback()

	if err := scope.CreateTransaction(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("Post: create transaction: %w", err)
	}

	own := acct.NewEntry(p.Amount, p.SelfMemo, tx)
	counter := other.NewEntry(p.Amount.Neg(), p.OtherMemo, tx)
	own.TransactionID = tx.ID
	counter.TransactionID = tx.ID

	if err := scope.CreateEntry(ctx, own); err != nil {
		return nil, nil, fmt.Errorf("Post: create entry: %w", err)
	}
	if err := scope.CreateEntry(ctx, counter); err != nil {
		return nil, nil, fmt.Errorf("Post: create counter entry: %w", err)
	}

	if err := scope.Commit(); err != nil {
		return nil, nil, fmt.Errorf("Post: commit: %w", err)
	}

	logging.FromContext(ctx).Info("transaction posted",
		"transaction_id", tx.ID,
		"amount", p.Amount,
		"account", own.AccountID,
		"counter_account", counter.AccountID,
	)

	return own, counter, nil
}

// PostSplit persists a caller-assembled multi-leg transaction. The caller
// builds tx and its entries through the account hooks; PostSplit validates
// that the legs sum to zero before anything is written.
func (s *Service) PostSplit(ctx context.Context, tx *domain.Transaction, entries []*domain.Entry) error {
	if s.store == nil || tx == nil {
		return fmt.Errorf("PostSplit: %w", domain.ErrMissingCapability)
	}
	if len(entries) < 2 {
		return fmt.Errorf("PostSplit: need at least two legs: %w", domain.ErrUnbalancedTransaction)
	}

	sum := money.Zero()
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	if !sum.IsZero() {
		return fmt.Errorf("PostSplit: legs sum to %s: %w", sum, domain.ErrUnbalancedTransaction)
	}

	if tx.PostedAt.IsZero() {
		tx.PostedAt = time.Now().UTC()
	}

	scope, err := s.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("PostSplit: begin: %w", err)
	}
	defer scope.Rollback()

	if err := scope.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("PostSplit: create transaction: %w", err)
	}
	for _, e := range entries {
		e.TransactionID = tx.ID
		if err := scope.CreateEntry(ctx, e); err != nil {
			return fmt.Errorf("PostSplit: create entry: %w", err)
		}
	}

	if err := scope.Commit(); err != nil {
		return fmt.Errorf("PostSplit: commit: %w", err)
	}
	return nil
}

// Balance folds the account's entry stream into its balance as of asOf
// (exclusive), or over all history when asOf is nil. The stored sum is
// negated for positive-credit accounts; this is the engine's single
// stored-to-displayed flip point, shared with the ledger fold.
func (s *Service) Balance(ctx context.Context, acct Account, asOf *time.Time) (money.Amount, error) {
	if s.store == nil || acct == nil {
		return money.Zero(), fmt.Errorf("Balance: %w", domain.ErrMissingCapability)
	}

	f := acct.EntryFilter()
	f.Before = asOf
	sum, err := s.store.SumAmounts(ctx, f)
	if err != nil {
		return money.Zero(), fmt.Errorf("Balance: %w", err)
	}
	if acct.PositiveCredit() {
		sum = sum.Neg()
	}
	return sum, nil
}
