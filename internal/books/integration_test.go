package books_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/finbook/bookset/internal/books"
	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/money"
	"github.com/finbook/bookset/internal/repository"
	"github.com/finbook/bookset/internal/testutil"
)

type env struct {
	books  *books.Service
	ledger *ledger.Service
	store  *repository.EntryStore
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testutil.SetupTestDB(t)
	store := repository.NewEntryStore(db)
	return &env{
		books: books.NewService(
			repository.NewBookSetRepository(db),
			repository.NewAccountRepository(db),
			repository.NewThirdPartyRepository(db),
			repository.NewProjectRepository(db),
			store,
		),
		ledger: ledger.NewService(store),
		store:  store,
	}
}

func ts(sec int) *time.Time {
	t := time.Date(2010, 1, 1, 1, 1, sec, 0, time.UTC)
	return &t
}

func TestIntegration_PostingAndBalances(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "revenue", "", true)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "expense", "", false)
	require.NoError(t, err)

	bank, err := e.books.GetAccount(ctx, bs.ID, "bank")
	require.NoError(t, err)
	revenue, err := e.books.GetAccount(ctx, bs.ID, "revenue")
	require.NoError(t, err)
	expense, err := e.books.GetAccount(ctx, bs.ID, "expense")
	require.NoError(t, err)

	_, _, err = e.ledger.Debit(ctx, bank, revenue, ledger.Posting{
		Amount: money.MustParse("12.00"), Description: "membership", At: ts(1),
	})
	require.NoError(t, err)
	_, _, err = e.ledger.Credit(ctx, bank, expense, ledger.Posting{
		Amount: money.MustParse("1.75"), Description: "drink", At: ts(2),
	})
	require.NoError(t, err)
	_, _, err = e.ledger.Credit(ctx, bank, expense, ledger.Posting{
		Amount: money.MustParse("0.35"), Description: "candy", At: ts(0),
	})
	require.NoError(t, err)

	assertBalance(t, e, bank, nil, "9.90")
	assertBalance(t, e, revenue, nil, "12.00")
	assertBalance(t, e, expense, nil, "2.10")

	// Backdating is honored by the time-bounded fold.
	assertBalance(t, e, bank, ts(1), "-0.35")
	assertBalance(t, e, bank, ts(2), "11.65")

	lines, err := e.ledger.Ledger(ctx, bank, nil, nil)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "candy", lines[0].Description)
	require.Equal(t, "9.90", lines[2].Closing.String())

	other, err := e.ledger.OtherEntry(ctx, lines[1])
	require.NoError(t, err)
	require.Equal(t, revenue.ID(), other.AccountID)
}

func TestIntegration_DuplicateAccountName(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.NoError(t, err)

	_, err = e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestIntegration_ThirdPartyLedgers(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	arAcct, err := e.books.CreateAccount(ctx, bs.ID, "accounts receivable", "", false)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "revenue", "", true)
	require.NoError(t, err)

	joeParty, err := e.books.CreateThirdParty(ctx, arAcct.ID, "joe")
	require.NoError(t, err)
	bobParty, err := e.books.CreateThirdParty(ctx, arAcct.ID, "bob")
	require.NoError(t, err)

	ar, err := e.books.GetAccount(ctx, bs.ID, "accounts receivable")
	require.NoError(t, err)
	revenue, err := e.books.GetAccount(ctx, bs.ID, "revenue")
	require.NoError(t, err)
	joe, err := e.books.GetThirdParty(ctx, bs.ID, joeParty.ID)
	require.NoError(t, err)
	bob, err := e.books.GetThirdParty(ctx, bs.ID, bobParty.ID)
	require.NoError(t, err)

	_, _, err = e.ledger.Credit(ctx, joe, revenue, ledger.Posting{
		Amount: money.MustParse("31.41"), Description: "invoice 1", At: ts(1),
	})
	require.NoError(t, err)
	_, _, err = e.ledger.Credit(ctx, bob, revenue, ledger.Posting{
		Amount: money.MustParse("12.97"), Description: "invoice 2", At: ts(2),
	})
	require.NoError(t, err)
	_, _, err = e.ledger.Debit(ctx, joe, revenue, ledger.Posting{
		Amount: money.MustParse("0.05"), Description: "adjustment", At: ts(3),
	})
	require.NoError(t, err)

	assertBalance(t, e, ar, nil, "-44.33")
	assertBalance(t, e, joe, nil, "-31.36")
	assertBalance(t, e, bob, nil, "-12.97")

	joeLines, err := e.ledger.Ledger(ctx, joe, nil, nil)
	require.NoError(t, err)
	require.Len(t, joeLines, 2)
	allLines, err := e.ledger.Ledger(ctx, ar, nil, nil)
	require.NoError(t, err)
	require.Len(t, allLines, 3)
}

func TestIntegration_ProjectLedgers(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "expense", "", false)
	require.NoError(t, err)
	project, err := e.books.CreateProject(ctx, bs.ID, "site build")
	require.NoError(t, err)

	bank, err := e.books.GetAccount(ctx, bs.ID, "bank")
	require.NoError(t, err)
	bankSite, err := e.books.ProjectAccount(ctx, project.ID, "bank")
	require.NoError(t, err)
	expenseSite, err := e.books.ProjectAccount(ctx, project.ID, "expense")
	require.NoError(t, err)
	expense, err := e.books.GetAccount(ctx, bs.ID, "expense")
	require.NoError(t, err)

	_, _, err = e.ledger.Credit(ctx, bankSite, expenseSite, ledger.Posting{
		Amount: money.MustParse("40.00"), Description: "lumber", At: ts(1),
	})
	require.NoError(t, err)
	_, _, err = e.ledger.Credit(ctx, bank, expense, ledger.Posting{
		Amount: money.MustParse("5.00"), Description: "stamps", At: ts(2),
	})
	require.NoError(t, err)

	assertBalance(t, e, bank, nil, "-45.00")
	assertBalance(t, e, bankSite, nil, "-40.00")
	assertBalance(t, e, expenseSite, nil, "40.00")
}

func TestIntegration_SplitRollback(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	bankAcct, err := e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "revenue", "", true)
	require.NoError(t, err)

	bank, err := e.books.GetAccount(ctx, bs.ID, "bank")
	require.NoError(t, err)
	revenue, err := e.books.GetAccount(ctx, bs.ID, "revenue")
	require.NoError(t, err)

	tx := bank.NewTransaction()
	tx.Description = "out of balance"
	legs := []*domain.Entry{
		bank.NewEntry(money.MustParse("10.00"), "", tx),
		revenue.NewEntry(money.MustParse("-9.99"), "", tx),
	}
	err = e.ledger.PostSplit(ctx, tx, legs)
	require.ErrorIs(t, err, domain.ErrUnbalancedTransaction)

	n, err := e.store.CountByAccount(ctx, bankAcct.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	// One account may appear at most once per transaction; the violation
	// aborts the whole posting, leaving neither leg behind.
	_, _, err = e.ledger.Post(ctx, bank, bank, ledger.Posting{
		Amount: money.MustParse("3.00"), Description: "self transfer",
	})
	require.Error(t, err)

	n, err = e.store.CountByAccount(ctx, bankAcct.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestIntegration_ConventionLock(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()

	bs, err := e.books.CreateBookSet(ctx, "club books")
	require.NoError(t, err)
	bankAcct, err := e.books.CreateAccount(ctx, bs.ID, "bank", "", false)
	require.NoError(t, err)
	_, err = e.books.CreateAccount(ctx, bs.ID, "revenue", "", true)
	require.NoError(t, err)

	require.NoError(t, e.books.SetPositiveCredit(ctx, bankAcct.ID, true))
	require.NoError(t, e.books.SetPositiveCredit(ctx, bankAcct.ID, false))

	bank, err := e.books.GetAccount(ctx, bs.ID, "bank")
	require.NoError(t, err)
	revenue, err := e.books.GetAccount(ctx, bs.ID, "revenue")
	require.NoError(t, err)
	_, _, err = e.ledger.Debit(ctx, bank, revenue, ledger.Posting{
		Amount: money.MustParse("1.00"), Description: "seed",
	})
	require.NoError(t, err)

	err = e.books.SetPositiveCredit(ctx, bankAcct.ID, true)
	require.ErrorIs(t, err, domain.ErrConventionLocked)
}

func assertBalance(t *testing.T, e *env, acct ledger.Account, asOf *time.Time, want string) {
	t.Helper()
	got, err := e.ledger.Balance(context.Background(), acct, asOf)
	require.NoError(t, err)
	require.Equal(t, want, got.String())
}
