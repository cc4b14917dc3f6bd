package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
)

func SeedBookSet(t *testing.T, db *sql.DB, description string) *domain.BookSet {
	t.Helper()

	bs := &domain.BookSet{
		ID:          uuid.New(),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO booksets (id, description, created_at) VALUES ($1, $2, $3)`,
		bs.ID, bs.Description, bs.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed bookset %q: %v", description, err)
	}
	return bs
}

func SeedAccount(t *testing.T, db *sql.DB, bookSetID uuid.UUID, name string, positiveCredit bool) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:             uuid.New(),
		BookSetID:      bookSetID,
		Name:           name,
		Description:    name,
		PositiveCredit: positiveCredit,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO accounts (id, bookset_id, name, description, positive_credit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.BookSetID, a.Name, a.Description, a.PositiveCredit, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %q: %v", name, err)
	}
	return a
}

func SeedThirdParty(t *testing.T, db *sql.DB, accountID uuid.UUID, name string) *domain.ThirdParty {
	t.Helper()

	tp := &domain.ThirdParty{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO third_parties (id, account_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		tp.ID, tp.AccountID, tp.Name, tp.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed third party %q: %v", name, err)
	}
	return tp
}

func SeedProject(t *testing.T, db *sql.DB, bookSetID uuid.UUID, name string) *domain.Project {
	t.Helper()

	p := &domain.Project{
		ID:        uuid.New(),
		BookSetID: bookSetID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO projects (id, bookset_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.BookSetID, p.Name, p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed project %q: %v", name, err)
	}
	return p
}

func CountEntries(t *testing.T, db *sql.DB, transactionID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM account_entries WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		t.Fatalf("count entries for transaction %d: %v", transactionID, err)
	}
	return count
}
