package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

// memStore is an in-memory EntryStore for engine tests. Writes only become
// visible on Commit, mirroring the transactional scope of the real store.
type memStore struct {
	mu          sync.Mutex
	nextTxID    int64
	nextEntryID int64
	records     []EntryRecord

	// failEntryOn makes the nth CreateEntry call of the next scope fail,
	// to exercise rollback paths. Zero disables it.
	failEntryOn int
}

func newMemStore() *memStore {
	return &memStore{nextTxID: 1, nextEntryID: 1}
}

func (m *memStore) Begin(ctx context.Context) (WriteScope, error) {
	return &memScope{store: m, failEntryOn: m.failEntryOn}, nil
}

func (m *memStore) Entries(ctx context.Context, f domain.EntryFilter) ([]EntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []EntryRecord
	for _, rec := range m.records {
		if matches(rec, f) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Transaction, out[j].Transaction
		if !ti.PostedAt.Equal(tj.PostedAt) {
			return ti.PostedAt.Before(tj.PostedAt)
		}
		return ti.ID < tj.ID
	})
	return out, nil
}

func (m *memStore) SumAmounts(ctx context.Context, f domain.EntryFilter) (money.Amount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := money.Zero()
	for _, rec := range m.records {
		if matches(rec, f) {
			sum = sum.Add(rec.Entry.Amount)
		}
	}
	return sum, nil
}

func (m *memStore) EntriesByTransaction(ctx context.Context, transactionID int64) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Entry
	for _, rec := range m.records {
		if rec.Entry.TransactionID == transactionID {
			out = append(out, rec.Entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matches(rec EntryRecord, f domain.EntryFilter) bool {
	if rec.Entry.AccountID != f.AccountID {
		return false
	}
	if f.ThirdPartyID != nil {
		if rec.Entry.ThirdPartyID == nil || *rec.Entry.ThirdPartyID != *f.ThirdPartyID {
			return false
		}
	}
	if f.ProjectID != nil {
		if rec.Transaction.ProjectID == nil || *rec.Transaction.ProjectID != *f.ProjectID {
			return false
		}
	}
	if f.From != nil && rec.Transaction.PostedAt.Before(*f.From) {
		return false
	}
	if f.Before != nil && !rec.Transaction.PostedAt.Before(*f.Before) {
		return false
	}
	return true
}

type memScope struct {
	store       *memStore
	txs         []*domain.Transaction
	entries     []*domain.Entry
	createCalls int
	failEntryOn int
	committed   bool
}

func (s *memScope) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	s.store.mu.Lock()
	t.ID = s.store.nextTxID
	s.store.nextTxID++
	s.store.mu.Unlock()

	t.CreatedAt = time.Now().UTC()
	s.txs = append(s.txs, t)
	return nil
}

func (s *memScope) CreateEntry(ctx context.Context, e *domain.Entry) error {
	s.createCalls++
	if s.failEntryOn > 0 && s.createCalls == s.failEntryOn {
		return errors.New("simulated write failure")
	}

	s.store.mu.Lock()
	e.ID = s.store.nextEntryID
	s.store.nextEntryID++
	s.store.mu.Unlock()

	s.entries = append(s.entries, e)
	return nil
}

func (s *memScope) Commit() error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	byID := make(map[int64]*domain.Transaction, len(s.txs))
	for _, t := range s.txs {
		byID[t.ID] = t
	}
	for _, e := range s.entries {
		t, ok := byID[e.TransactionID]
		if !ok {
			return errors.New("entry references unknown transaction")
		}
		s.store.records = append(s.store.records, EntryRecord{Entry: *e, Transaction: *t})
	}
	s.committed = true
	return nil
}

func (s *memScope) Rollback() error {
	// Rollback after Commit is a no-op, matching database/sql semantics.
	return nil
}
