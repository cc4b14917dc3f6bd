package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
)

type ThirdPartyRepository struct {
	db *sql.DB
}

func NewThirdPartyRepository(db *sql.DB) *ThirdPartyRepository {
	return &ThirdPartyRepository{db: db}
}

func (r *ThirdPartyRepository) Create(ctx context.Context, tp *domain.ThirdParty) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO third_parties (id, account_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		tp.ID, tp.AccountID, tp.Name, tp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ThirdPartyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ThirdParty, error) {
	var tp domain.ThirdParty
	err := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, name, created_at FROM third_parties WHERE id = $1`, id,
	).Scan(&tp.ID, &tp.AccountID, &tp.Name, &tp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &tp, nil
}

func (r *ThirdPartyRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.ThirdParty, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, name, created_at FROM third_parties WHERE account_id = $1 ORDER BY name`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	var parties []domain.ThirdParty
	for rows.Next() {
		var tp domain.ThirdParty
		if err := rows.Scan(&tp.ID, &tp.AccountID, &tp.Name, &tp.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByAccount: scan: %w", err)
		}
		parties = append(parties, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccount: rows: %w", err)
	}
	return parties, nil
}
