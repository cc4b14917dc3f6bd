package books

import (
	"context"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
)

type bookSetRepository interface {
	Create(ctx context.Context, bs *domain.BookSet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BookSet, error)
}

type accountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByName(ctx context.Context, bookSetID uuid.UUID, name string) (*domain.Account, error)
	ListByBookSet(ctx context.Context, bookSetID uuid.UUID) ([]domain.Account, error)
	UpdatePositiveCredit(ctx context.Context, id uuid.UUID, positiveCredit bool) error
}

type thirdPartyRepository interface {
	Create(ctx context.Context, tp *domain.ThirdParty) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ThirdParty, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.ThirdParty, error)
}

type projectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
}

type entryCounter interface {
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}
