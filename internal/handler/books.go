package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/ledger"
)

type booksService interface {
	CreateBookSet(ctx context.Context, description string) (*domain.BookSet, error)
	CreateAccount(ctx context.Context, bookSetID uuid.UUID, name, description string, positiveCredit bool) (*domain.Account, error)
	Accounts(ctx context.Context, bookSetID uuid.UUID) ([]domain.Account, error)
	GetAccount(ctx context.Context, bookSetID uuid.UUID, name string) (*ledger.BaseAccount, error)
	CreateThirdParty(ctx context.Context, accountID uuid.UUID, name string) (*domain.ThirdParty, error)
	ThirdParties(ctx context.Context, accountID uuid.UUID) ([]domain.ThirdParty, error)
	GetThirdParty(ctx context.Context, bookSetID, thirdPartyID uuid.UUID) (ledger.Account, error)
	CreateProject(ctx context.Context, bookSetID uuid.UUID, name string) (*domain.Project, error)
	ProjectAccount(ctx context.Context, projectID uuid.UUID, name string) (ledger.Account, error)
	ProjectThirdParty(ctx context.Context, projectID, thirdPartyID uuid.UUID) (ledger.Account, error)
	SetPositiveCredit(ctx context.Context, accountID uuid.UUID, positiveCredit bool) error
}

type BooksHandler struct {
	books booksService
}

func NewBooksHandler(books booksService) *BooksHandler {
	return &BooksHandler{books: books}
}

type createBookSetRequest struct {
	Description string `json:"description"`
}

func (h *BooksHandler) CreateBookSet(w http.ResponseWriter, r *http.Request) {
	var req createBookSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Description == "" {
		RespondValidationError(w, []FieldError{{Field: "description", Message: "required"}})
		return
	}

	bs, err := h.books.CreateBookSet(r.Context(), req.Description)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, bookSetResponse(bs))
}

type createAccountRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PositiveCredit bool   `json:"positive_credit"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	return errs
}

func (h *BooksHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	acct, err := h.books.CreateAccount(r.Context(), bookSetID, req.Name, req.Description, req.PositiveCredit)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, accountResponse(acct))
}

func (h *BooksHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}

	accounts, err := h.books.Accounts(r.Context(), bookSetID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(accounts))
	for i := range accounts {
		out = append(out, accountResponse(&accounts[i]))
	}
	RespondSuccess(w, http.StatusOK, out)
}

type createThirdPartyRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

func (h *BooksHandler) CreateThirdParty(w http.ResponseWriter, r *http.Request) {
	var req createThirdPartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a UUID"})
	}
	if req.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	tp, err := h.books.CreateThirdParty(r.Context(), accountID, req.Name)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, map[string]any{
		"id":         tp.ID,
		"account_id": tp.AccountID,
		"name":       tp.Name,
	})
}

func (h *BooksHandler) ListThirdParties(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "account_id")
	if !ok {
		return
	}

	parties, err := h.books.ThirdParties(r.Context(), accountID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(parties))
	for _, tp := range parties {
		out = append(out, map[string]any{
			"id":         tp.ID,
			"account_id": tp.AccountID,
			"name":       tp.Name,
		})
	}
	RespondSuccess(w, http.StatusOK, out)
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (h *BooksHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Name == "" {
		RespondValidationError(w, []FieldError{{Field: "name", Message: "required"}})
		return
	}

	p, err := h.books.CreateProject(r.Context(), bookSetID, req.Name)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, map[string]any{
		"id":         p.ID,
		"bookset_id": p.BookSetID,
		"name":       p.Name,
	})
}

type setConventionRequest struct {
	PositiveCredit *bool `json:"positive_credit"`
}

// SetConvention changes an account's sign convention. The service refuses
// the change once the account has entries.
func (h *BooksHandler) SetConvention(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathUUID(w, r, "account_id")
	if !ok {
		return
	}

	var req setConventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.PositiveCredit == nil {
		RespondValidationError(w, []FieldError{{Field: "positive_credit", Message: "required"}})
		return
	}

	if err := h.books.SetPositiveCredit(r.Context(), accountID, *req.PositiveCredit); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]any{
		"id":              accountID,
		"positive_credit": *req.PositiveCredit,
	})
}

func bookSetResponse(bs *domain.BookSet) map[string]any {
	return map[string]any{
		"id":          bs.ID,
		"description": bs.Description,
		"created_at":  bs.CreatedAt,
	}
}

func accountResponse(a *domain.Account) map[string]any {
	return map[string]any{
		"id":              a.ID,
		"bookset_id":      a.BookSetID,
		"name":            a.Name,
		"description":     a.Description,
		"positive_credit": a.PositiveCredit,
		"created_at":      a.CreatedAt,
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: name, Message: "must be a UUID"}})
		return uuid.Nil, false
	}
	return id, true
}
