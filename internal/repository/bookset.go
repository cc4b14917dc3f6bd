package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
)

type BookSetRepository struct {
	db *sql.DB
}

func NewBookSetRepository(db *sql.DB) *BookSetRepository {
	return &BookSetRepository{db: db}
}

func (r *BookSetRepository) Create(ctx context.Context, bs *domain.BookSet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO booksets (id, description, created_at) VALUES ($1, $2, $3)`,
		bs.ID, bs.Description, bs.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *BookSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookSet, error) {
	var bs domain.BookSet
	err := r.db.QueryRowContext(ctx,
		`SELECT id, description, created_at FROM booksets WHERE id = $1`, id,
	).Scan(&bs.ID, &bs.Description, &bs.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return &bs, nil
}
