package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/money"
)

// EntryStore is the Postgres implementation of the engine's storage
// contract. Entry queries always join the owning transaction so the engine
// can order and fold without further round trips.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

func (s *EntryStore) Begin(ctx context.Context) (ledger.WriteScope, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Begin: %w", err)
	}
	return &writeScope{tx: tx}, nil
}

type writeScope struct {
	tx *sql.Tx
}

func (w *writeScope) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	err := w.tx.QueryRowContext(ctx,
		`INSERT INTO transactions (t_stamp, description, project_id)
		 VALUES ($1, $2, $3) RETURNING tid, created_at`,
		t.PostedAt, t.Description, t.ProjectID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("CreateTransaction: %w", err)
	}
	return nil
}

func (w *writeScope) CreateEntry(ctx context.Context, e *domain.Entry) error {
	err := w.tx.QueryRowContext(ctx,
		`INSERT INTO account_entries (transaction_id, account_id, amount, memo, third_party_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING aeid`,
		e.TransactionID, e.AccountID, e.Amount, e.Memo, e.ThirdPartyID,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("CreateEntry: %w", err)
	}
	return nil
}

func (w *writeScope) Commit() error {
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("Commit: %w", err)
	}
	return nil
}

func (w *writeScope) Rollback() error {
	return w.tx.Rollback()
}

func (s *EntryStore) Entries(ctx context.Context, f domain.EntryFilter) ([]ledger.EntryRecord, error) {
	where, args := entryWhere(f)
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.aeid, e.transaction_id, e.account_id, e.amount, e.memo, e.third_party_id,
		        t.tid, t.t_stamp, t.description, t.project_id, t.created_at
		 FROM account_entries e
		 JOIN transactions t ON t.tid = e.transaction_id
		 WHERE `+where+`
		 ORDER BY t.t_stamp, t.tid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("Entries: %w", err)
	}
	defer rows.Close()

	var records []ledger.EntryRecord
	for rows.Next() {
		var rec ledger.EntryRecord
		err := rows.Scan(
			&rec.Entry.ID, &rec.Entry.TransactionID, &rec.Entry.AccountID,
			&rec.Entry.Amount, &rec.Entry.Memo, &rec.Entry.ThirdPartyID,
			&rec.Transaction.ID, &rec.Transaction.PostedAt,
			&rec.Transaction.Description, &rec.Transaction.ProjectID,
			&rec.Transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("Entries: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Entries: rows: %w", err)
	}
	return records, nil
}

func (s *EntryStore) SumAmounts(ctx context.Context, f domain.EntryFilter) (money.Amount, error) {
	where, args := entryWhere(f)
	var sum money.Amount
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(e.amount), 0)
		 FROM account_entries e
		 JOIN transactions t ON t.tid = e.transaction_id
		 WHERE `+where,
		args...,
	).Scan(&sum)
	if err != nil {
		return money.Zero(), fmt.Errorf("SumAmounts: %w", err)
	}
	return sum, nil
}

func (s *EntryStore) EntriesByTransaction(ctx context.Context, transactionID int64) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT aeid, transaction_id, account_id, amount, memo, third_party_id
		 FROM account_entries WHERE transaction_id = $1 ORDER BY aeid`,
		transactionID,
	)
	if err != nil {
		return nil, fmt.Errorf("EntriesByTransaction: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.Amount, &e.Memo, &e.ThirdPartyID)
		if err != nil {
			return nil, fmt.Errorf("EntriesByTransaction: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("EntriesByTransaction: rows: %w", err)
	}
	return entries, nil
}

func (s *EntryStore) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account_entries WHERE account_id = $1`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountByAccount: %w", err)
	}
	return n, nil
}

// entryWhere renders an EntryFilter as a WHERE clause over the joined
// entry/transaction rows.
func entryWhere(f domain.EntryFilter) (string, []any) {
	clauses := []string{"e.account_id = $1"}
	args := []any{f.AccountID}

	if f.ThirdPartyID != nil {
		args = append(args, *f.ThirdPartyID)
		clauses = append(clauses, fmt.Sprintf("e.third_party_id = $%d", len(args)))
	}
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		clauses = append(clauses, fmt.Sprintf("t.project_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		clauses = append(clauses, fmt.Sprintf("t.t_stamp >= $%d", len(args)))
	}
	if f.Before != nil {
		args = append(args, *f.Before)
		clauses = append(clauses, fmt.Sprintf("t.t_stamp < $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}
