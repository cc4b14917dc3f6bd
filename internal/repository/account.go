package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/finbook/bookset/internal/domain"
)

const accountColumns = `id, bookset_id, name, description, positive_credit, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, bookset_id, name, description, positive_credit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.BookSetID, account.Name, account.Description,
		account.PositiveCredit, account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("Create: %w", domain.ErrAccountExists)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByName(ctx context.Context, bookSetID uuid.UUID, name string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE bookset_id = $1 AND name = $2`,
		bookSetID, name,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByName: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListByBookSet(ctx context.Context, bookSetID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE bookset_id = $1 ORDER BY name`,
		bookSetID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByBookSet: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByBookSet: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByBookSet: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) UpdatePositiveCredit(ctx context.Context, id uuid.UUID, positiveCredit bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET positive_credit = $2 WHERE id = $1`, id, positiveCredit,
	)
	if err != nil {
		return fmt.Errorf("UpdatePositiveCredit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdatePositiveCredit: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("UpdatePositiveCredit: %w", domain.ErrNotFound)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.BookSetID, &a.Name, &a.Description, &a.PositiveCredit, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
