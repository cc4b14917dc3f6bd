// Package books manages book sets, their accounts, and the scope rules for
// third-party and project sub-accounts. It resolves names and ids into
// account capabilities the ledger engine can post against.
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/ledger"
)

type Service struct {
	booksets bookSetRepository
	accounts accountRepository
	parties  thirdPartyRepository
	projects projectRepository
	entries  entryCounter
}

func NewService(
	booksets bookSetRepository,
	accounts accountRepository,
	parties thirdPartyRepository,
	projects projectRepository,
	entries entryCounter,
) *Service {
	return &Service{
		booksets: booksets,
		accounts: accounts,
		parties:  parties,
		projects: projects,
		entries:  entries,
	}
}

func (s *Service) CreateBookSet(ctx context.Context, description string) (*domain.BookSet, error) {
	bs := &domain.BookSet{
		ID:          uuid.New(),
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.booksets.Create(ctx, bs); err != nil {
		return nil, fmt.Errorf("CreateBookSet: %w", err)
	}
	return bs, nil
}

func (s *Service) GetBookSet(ctx context.Context, id uuid.UUID) (*domain.BookSet, error) {
	bs, err := s.booksets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetBookSet: %w", err)
	}
	return bs, nil
}

func (s *Service) CreateAccount(ctx context.Context, bookSetID uuid.UUID, name, description string, positiveCredit bool) (*domain.Account, error) {
	if _, err := s.booksets.GetByID(ctx, bookSetID); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
	acct := &domain.Account{
		ID:             uuid.New(),
		BookSetID:      bookSetID,
		Name:           name,
		Description:    description,
		PositiveCredit: positiveCredit,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}
	return acct, nil
}

// Accounts returns all accounts owned by the book set.
func (s *Service) Accounts(ctx context.Context, bookSetID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByBookSet(ctx, bookSetID)
	if err != nil {
		return nil, fmt.Errorf("Accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount resolves an account by name within a book set.
func (s *Service) GetAccount(ctx context.Context, bookSetID uuid.UUID, name string) (*ledger.BaseAccount, error) {
	acct, err := s.accounts.GetByName(ctx, bookSetID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("GetAccount: %q: %w", name, domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return ledger.NewBaseAccount(*acct), nil
}

func (s *Service) CreateThirdParty(ctx context.Context, accountID uuid.UUID, name string) (*domain.ThirdParty, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("CreateThirdParty: %w", err)
	}
	tp := &domain.ThirdParty{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.parties.Create(ctx, tp); err != nil {
		return nil, fmt.Errorf("CreateThirdParty: %w", err)
	}
	return tp, nil
}

// ThirdParties lists the third parties scoped under an account.
func (s *Service) ThirdParties(ctx context.Context, accountID uuid.UUID) ([]domain.ThirdParty, error) {
	parties, err := s.parties.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ThirdParties: %w", err)
	}
	return parties, nil
}

// GetThirdParty returns the third party's sub-account view, rooted at its
// home account. The home account must belong to the given book set.
func (s *Service) GetThirdParty(ctx context.Context, bookSetID, thirdPartyID uuid.UUID) (ledger.Account, error) {
	party, home, err := s.resolveThirdParty(ctx, thirdPartyID)
	if err != nil {
		return nil, fmt.Errorf("GetThirdParty: %w", err)
	}
	if home.BookSetID != bookSetID {
		return nil, fmt.Errorf("GetThirdParty: %w", domain.ErrScopeMismatch)
	}
	return ledger.NewThirdPartyView(ledger.NewBaseAccount(*home), party), nil
}

func (s *Service) CreateProject(ctx context.Context, bookSetID uuid.UUID, name string) (*domain.Project, error) {
	if _, err := s.booksets.GetByID(ctx, bookSetID); err != nil {
		return nil, fmt.Errorf("CreateProject: %w", err)
	}
	p := &domain.Project{
		ID:        uuid.New(),
		BookSetID: bookSetID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("CreateProject: %w", err)
	}
	return p, nil
}

// ProjectAccounts mirrors the parent book set's accounts; transactions
// posted through any of their project views show up in both scopes.
func (s *Service) ProjectAccounts(ctx context.Context, projectID uuid.UUID) ([]domain.Account, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ProjectAccounts: %w", err)
	}
	accounts, err := s.accounts.ListByBookSet(ctx, project.BookSetID)
	if err != nil {
		return nil, fmt.Errorf("ProjectAccounts: %w", err)
	}
	return accounts, nil
}

// ProjectAccount resolves name against the project's parent book set and
// binds the result to the project.
func (s *Service) ProjectAccount(ctx context.Context, projectID uuid.UUID, name string) (ledger.Account, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ProjectAccount: %w", err)
	}
	base, err := s.GetAccount(ctx, project.BookSetID, name)
	if err != nil {
		return nil, fmt.Errorf("ProjectAccount: %w", err)
	}
	return ledger.NewProjectView(base, project), nil
}

// ProjectThirdParty stacks both wrappings: the third party's activity
// within the project. The party's home account must live in the project's
// parent book set.
func (s *Service) ProjectThirdParty(ctx context.Context, projectID, thirdPartyID uuid.UUID) (ledger.Account, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ProjectThirdParty: %w", err)
	}
	party, home, err := s.resolveThirdParty(ctx, thirdPartyID)
	if err != nil {
		return nil, fmt.Errorf("ProjectThirdParty: %w", err)
	}
	if home.BookSetID != project.BookSetID {
		return nil, fmt.Errorf("ProjectThirdParty: %w", domain.ErrScopeMismatch)
	}
	tp := ledger.NewThirdPartyView(ledger.NewBaseAccount(*home), party)
	return ledger.NewProjectView(tp, project), nil
}

// SetPositiveCredit changes an account's sign convention. Flipping the
// convention under existing entries would silently reinterpret historical
// balances, so the change is refused once any entry exists.
func (s *Service) SetPositiveCredit(ctx context.Context, accountID uuid.UUID, positiveCredit bool) error {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("SetPositiveCredit: %w", err)
	}
	if acct.PositiveCredit == positiveCredit {
		return nil
	}

	n, err := s.entries.CountByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("SetPositiveCredit: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("SetPositiveCredit: %w", domain.ErrConventionLocked)
	}

	if err := s.accounts.UpdatePositiveCredit(ctx, accountID, positiveCredit); err != nil {
		return fmt.Errorf("SetPositiveCredit: %w", err)
	}
	return nil
}

func (s *Service) resolveThirdParty(ctx context.Context, thirdPartyID uuid.UUID) (*domain.ThirdParty, *domain.Account, error) {
	party, err := s.parties.GetByID(ctx, thirdPartyID)
	if err != nil {
		return nil, nil, err
	}
	home, err := s.accounts.GetByID(ctx, party.AccountID)
	if err != nil {
		return nil, nil, err
	}
	return party, home, nil
}
