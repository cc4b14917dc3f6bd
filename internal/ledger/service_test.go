package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

func testAccount(name string, positiveCredit bool) *BaseAccount {
	return NewBaseAccount(domain.Account{
		ID:             uuid.New(),
		BookSetID:      uuid.New(),
		Name:           name,
		PositiveCredit: positiveCredit,
	})
}

func at(sec int) *time.Time {
	t := time.Date(2010, 1, 1, 1, 1, sec, 0, time.UTC)
	return &t
}

// seedBasicBook replays the canonical three postings: a 12.00 membership
// debit, a 1.75 drink credit, and a backdated 0.35 candy credit.
func seedBasicBook(t *testing.T, svc *Service) (bank, revenue, expense *BaseAccount) {
	t.Helper()
	ctx := context.Background()

	bank = testAccount("bank", false)
	revenue = testAccount("revenue", true)
	expense = testAccount("expense", false)

	_, _, err := svc.Debit(ctx, bank, revenue, Posting{
		Amount:      money.MustParse("12.00"),
		Description: "membership",
		At:          at(1),
	})
	require.NoError(t, err)

	_, _, err = svc.Credit(ctx, bank, expense, Posting{
		Amount:      money.MustParse("1.75"),
		Description: "drink",
		At:          at(2),
	})
	require.NoError(t, err)

	_, _, err = svc.Credit(ctx, bank, expense, Posting{
		Amount:      money.MustParse("0.35"),
		Description: "candy",
		At:          at(0),
	})
	require.NoError(t, err)

	return bank, revenue, expense
}

func TestPost_EntriesAreAdditiveInverses(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	bank := testAccount("bank", false)
	revenue := testAccount("revenue", true)

	own, counter, err := svc.Debit(ctx, bank, revenue, Posting{
		Amount:      money.MustParse("12.00"),
		Description: "membership",
	})
	require.NoError(t, err)

	require.Equal(t, "12.00", own.Amount.String())
	require.Equal(t, "-12.00", counter.Amount.String())
	require.True(t, own.Amount.Add(counter.Amount).IsZero())
	require.Equal(t, own.TransactionID, counter.TransactionID)
	require.Equal(t, bank.ID(), own.AccountID)
	require.Equal(t, revenue.ID(), counter.AccountID)
}

func TestBalances(t *testing.T) {
	svc := NewService(newMemStore())

	bank, revenue, expense := seedBasicBook(t, svc)

	requireBalance(t, svc, bank, nil, "9.90")
	requireBalance(t, svc, expense, nil, "2.10")
	requireBalance(t, svc, revenue, nil, "12.00")
}

func TestBalance_AsOf(t *testing.T) {
	svc := NewService(newMemStore())

	bank, revenue, expense := seedBasicBook(t, svc)

	// The asOf bound is exclusive, so each checkpoint sees only strictly
	// earlier transactions. The candy entry is backdated before everything.
	requireBalance(t, svc, bank, at(0), "0.00")
	requireBalance(t, svc, bank, at(1), "-0.35")
	requireBalance(t, svc, bank, at(2), "11.65")
	requireBalance(t, svc, bank, at(3), "9.90")

	requireBalance(t, svc, expense, at(1), "0.35")
	requireBalance(t, svc, expense, at(3), "2.10")

	requireBalance(t, svc, revenue, at(1), "0.00")
	requireBalance(t, svc, revenue, at(2), "12.00")
}

func TestBalance_Idempotent(t *testing.T) {
	svc := NewService(newMemStore())

	bank, _, _ := seedBasicBook(t, svc)

	first, err := svc.Balance(context.Background(), bank, nil)
	require.NoError(t, err)
	second, err := svc.Balance(context.Background(), bank, nil)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestDebitCredit_RejectNegativeAmounts(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	bank := testAccount("bank", false)
	revenue := testAccount("revenue", true)

	minus := money.MustParse("-1.00")

	_, _, err := svc.Debit(ctx, bank, revenue, Posting{Amount: minus, Description: "bad"})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, _, err = svc.Credit(ctx, bank, revenue, Posting{Amount: minus, Description: "bad"})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	require.Empty(t, store.records)
}

func TestPost_RollsBackOnPartialFailure(t *testing.T) {
	store := newMemStore()
	store.failEntryOn = 2
	svc := NewService(store)
	ctx := context.Background()

	bank := testAccount("bank", false)
	revenue := testAccount("revenue", true)

	_, _, err := svc.Debit(ctx, bank, revenue, Posting{
		Amount:      money.MustParse("5.00"),
		Description: "doomed",
	})
	require.Error(t, err)

	// Neither leg may be observable: the posting is atomic.
	require.Empty(t, store.records)
	requireBalance(t, svc, bank, nil, "0.00")
	requireBalance(t, svc, revenue, nil, "0.00")
}

func TestPost_MissingCapability(t *testing.T) {
	svc := NewService(newMemStore())
	bank := testAccount("bank", false)

	_, _, err := svc.Post(context.Background(), bank, nil, Posting{Amount: money.MustParse("1.00")})
	require.ErrorIs(t, err, domain.ErrMissingCapability)

	_, err = NewService(nil).Balance(context.Background(), bank, nil)
	require.ErrorIs(t, err, domain.ErrMissingCapability)
}

func TestPostSplit(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	ctx := context.Background()

	bank := testAccount("bank", false)
	revenue := testAccount("revenue", true)
	fees := testAccount("fees", false)

	makeLegs := func(bankAmt, revenueAmt, feesAmt string) (*domain.Transaction, []*domain.Entry) {
		tx := bank.NewTransaction()
		tx.Description = "card settlement"
		return tx, []*domain.Entry{
			bank.NewEntry(money.MustParse(bankAmt), "", tx),
			revenue.NewEntry(money.MustParse(revenueAmt), "", tx),
			fees.NewEntry(money.MustParse(feesAmt), "", tx),
		}
	}

	t.Run("unbalanced legs are rejected before persisting", func(t *testing.T) {
		tx, legs := makeLegs("9.71", "-10.00", "0.30")
		err := svc.PostSplit(ctx, tx, legs)
		require.ErrorIs(t, err, domain.ErrUnbalancedTransaction)
		require.Empty(t, store.records)
	})

	t.Run("fewer than two legs is rejected", func(t *testing.T) {
		tx := bank.NewTransaction()
		legs := []*domain.Entry{bank.NewEntry(money.Zero(), "", tx)}
		err := svc.PostSplit(ctx, tx, legs)
		require.ErrorIs(t, err, domain.ErrUnbalancedTransaction)
	})

	t.Run("balanced legs persist atomically", func(t *testing.T) {
		tx, legs := makeLegs("9.70", "-10.00", "0.30")
		require.NoError(t, svc.PostSplit(ctx, tx, legs))

		requireBalance(t, svc, bank, nil, "9.70")
		requireBalance(t, svc, revenue, nil, "10.00")
		requireBalance(t, svc, fees, nil, "0.30")

		lines, err := svc.Ledger(ctx, bank, nil, nil)
		require.NoError(t, err)
		require.Len(t, lines, 1)

		others, err := svc.OtherEntries(ctx, lines[0])
		require.NoError(t, err)
		require.Len(t, others, 2)

		_, err = svc.OtherEntry(ctx, lines[0])
		require.Error(t, err, "split transactions have no single counterpart")
	})
}

func requireBalance(t *testing.T, svc *Service, acct Account, asOf *time.Time, want string) {
	t.Helper()
	got, err := svc.Balance(context.Background(), acct, asOf)
	require.NoError(t, err)
	require.Equal(t, want, got.String())
}
