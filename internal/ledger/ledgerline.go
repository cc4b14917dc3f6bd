package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

// LedgerLine is one row of a chronological account ledger: the entry itself
// split into debit/credit columns plus the running balance around it.
type LedgerLine struct {
	Time        time.Time
	Description string
	Memo        string
	// Debit is set when the stored amount is non-negative, Credit when it is
	// negative. The columns carry the canonical (unflipped) magnitudes; only
	// the running balance applies the account's display convention.
	Debit  *money.Amount
	Credit *money.Amount
	// Opening is the running balance before this entry, Closing after.
	Opening money.Amount
	Closing money.Amount
	// TxRef is a human-readable reference derived from the transaction date
	// and entry id, unique within a ledger.
	TxRef         string
	TransactionID int64
	EntryID       int64
}

// Counterpart is another leg of the same transaction, in canonical sign.
type Counterpart struct {
	AccountID uuid.UUID
	Amount    money.Amount
	Memo      string
}

// Ledger returns the account's entries with timestamps in [start, end),
// oldest first, with running balances. A nil start means unbounded below
// and starts the running balance at 0.00; a given start seeds it with
// Balance(start). A nil end means unbounded above.
//
// The result is recomputed from the entry stream on every call; with no
// intervening writes, repeated calls yield identical slices.
func (s *Service) Ledger(ctx context.Context, acct Account, start, end *time.Time) ([]LedgerLine, error) {
	if s.store == nil || acct == nil {
		return nil, fmt.Errorf("Ledger: %w", domain.ErrMissingCapability)
	}

	running := money.Zero()
	if start != nil {
		opening, err := s.Balance(ctx, acct, start)
		if err != nil {
			return nil, fmt.Errorf("Ledger: opening balance: %w", err)
		}
		running = opening
	}

	f := acct.EntryFilter()
	f.From = start
	f.Before = end
	records, err := s.store.Entries(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("Ledger: %w", err)
	}

	flip := acct.PositiveCredit()
	lines := make([]LedgerLine, 0, len(records))
	for _, rec := range records {
		amount := rec.Entry.Amount
		display := amount
		if flip {
			display = display.Neg()
		}

		line := LedgerLine{
			Time:          rec.Transaction.PostedAt,
			Description:   rec.Transaction.Description,
			Memo:          rec.Entry.Memo,
			Opening:       running,
			Closing:       running.Add(display),
			TxRef:         txRef(rec),
			TransactionID: rec.Transaction.ID,
			EntryID:       rec.Entry.ID,
		}
		if amount.Sign() >= 0 {
			line.Debit = &amount
		} else {
			credit := amount.Neg()
			line.Credit = &credit
		}

		running = line.Closing
		lines = append(lines, line)
	}
	return lines, nil
}

// OtherEntries returns the other legs of the transaction behind line. A
// plain two-legged posting yields exactly one counterpart; split
// transactions yield more.
func (s *Service) OtherEntries(ctx context.Context, line LedgerLine) ([]Counterpart, error) {
	if s.store == nil {
		return nil, fmt.Errorf("OtherEntries: %w", domain.ErrMissingCapability)
	}
	entries, err := s.store.EntriesByTransaction(ctx, line.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("OtherEntries: %w", err)
	}

	var others []Counterpart
	for _, e := range entries {
		if e.ID == line.EntryID {
			continue
		}
		others = append(others, Counterpart{
			AccountID: e.AccountID,
			Amount:    e.Amount,
			Memo:      e.Memo,
		})
	}
	return others, nil
}

// OtherEntry returns the single counterpart leg of a two-legged posting and
// errors if the transaction turns out to be a split.
func (s *Service) OtherEntry(ctx context.Context, line LedgerLine) (Counterpart, error) {
	others, err := s.OtherEntries(ctx, line)
	if err != nil {
		return Counterpart{}, fmt.Errorf("OtherEntry: %w", err)
	}
	if len(others) != 1 {
		return Counterpart{}, fmt.Errorf("OtherEntry: expected exactly one counterpart, got %d", len(others))
	}
	return others[0], nil
}

func txRef(rec EntryRecord) string {
	return fmt.Sprintf("%s%08d", rec.Transaction.PostedAt.Format("20060102"), rec.Entry.ID)
}
