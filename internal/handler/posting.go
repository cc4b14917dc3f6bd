package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/ledger"
	"github.com/finbook/bookset/internal/money"
)

type ledgerService interface {
	Debit(ctx context.Context, acct, other ledger.Account, p ledger.Posting) (*domain.Entry, *domain.Entry, error)
	Credit(ctx context.Context, acct, other ledger.Account, p ledger.Posting) (*domain.Entry, *domain.Entry, error)
	Balance(ctx context.Context, acct ledger.Account, asOf *time.Time) (money.Amount, error)
	Ledger(ctx context.Context, acct ledger.Account, start, end *time.Time) ([]ledger.LedgerLine, error)
}

type PostingHandler struct {
	books  booksService
	ledger ledgerService
}

func NewPostingHandler(books booksService, ledger ledgerService) *PostingHandler {
	return &PostingHandler{books: books, ledger: ledger}
}

type postingRequest struct {
	Amount       string `json:"amount"`
	OtherAccount string `json:"other_account"`
	// OtherThirdParty posts the counterparty leg against a third party's
	// sub-account view instead of the plain account.
	OtherThirdParty string `json:"other_third_party,omitempty"`
	Description     string `json:"description"`
	SelfMemo        string `json:"self_memo,omitempty"`
	OtherMemo       string `json:"other_memo,omitempty"`
	// At backdates the transaction (RFC 3339).
	At string `json:"at,omitempty"`
}

func (h *PostingHandler) Debit(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.ledger.Debit)
}

func (h *PostingHandler) Credit(w http.ResponseWriter, r *http.Request) {
	h.post(w, r, h.ledger.Credit)
}

func (h *PostingHandler) post(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, acct, other ledger.Account, p ledger.Posting) (*domain.Entry, *domain.Entry, error),
) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}
	name := r.PathValue("name")

	var req postingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	var errs []FieldError
	amount, err := money.Parse(req.Amount)
	if err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal with at most two places"})
	}
	if req.OtherAccount == "" && req.OtherThirdParty == "" {
		errs = append(errs, FieldError{Field: "other_account", Message: "required"})
	}
	if req.Description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "required"})
	}
	var at *time.Time
	if req.At != "" {
		t, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			errs = append(errs, FieldError{Field: "at", Message: "must be RFC 3339"})
		} else {
			at = &t
		}
	}
	if len(errs) > 0 {
		RespondValidationError(w, errs)
		return
	}

	acct, err := h.resolveView(r.Context(), bookSetID, name, r.URL.Query().Get("third_party"), r.URL.Query().Get("project"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	other, err := h.resolveOther(r.Context(), bookSetID, req)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	own, counter, err := apply(r.Context(), acct, other, ledger.Posting{
		Amount:      amount,
		Description: req.Description,
		SelfMemo:    req.SelfMemo,
		OtherMemo:   req.OtherMemo,
		At:          at,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, map[string]any{
		"transaction_id": own.TransactionID,
		"entry":          entryResponse(own),
		"other_entry":    entryResponse(counter),
	})
}

func (h *PostingHandler) Balance(w http.ResponseWriter, r *http.Request) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}
	name := r.PathValue("name")

	asOf, ok := queryTime(w, r, "as_of")
	if !ok {
		return
	}

	acct, err := h.resolveView(r.Context(), bookSetID, name, r.URL.Query().Get("third_party"), r.URL.Query().Get("project"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), acct, asOf)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h *PostingHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	bookSetID, ok := pathUUID(w, r, "bookset_id")
	if !ok {
		return
	}
	name := r.PathValue("name")

	start, ok := queryTime(w, r, "start")
	if !ok {
		return
	}
	end, ok := queryTime(w, r, "end")
	if !ok {
		return
	}

	acct, err := h.resolveView(r.Context(), bookSetID, name, r.URL.Query().Get("third_party"), r.URL.Query().Get("project"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	lines, err := h.ledger.Ledger(r.Context(), acct, start, end)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		out = append(out, map[string]any{
			"time":        line.Time,
			"description": line.Description,
			"memo":        line.Memo,
			"debit":       line.Debit,
			"credit":      line.Credit,
			"opening":     line.Opening,
			"closing":     line.Closing,
			"tx_ref":      line.TxRef,
		})
	}
	RespondSuccess(w, http.StatusOK, out)
}

// resolveView turns path and query parameters into the account capability to
// operate on: the plain account, a third-party view, a project view, or the
// stacked combination.
func (h *PostingHandler) resolveView(ctx context.Context, bookSetID uuid.UUID, name, thirdParty, project string) (ledger.Account, error) {
	var projectID *uuid.UUID
	if project != "" {
		id, err := uuid.Parse(project)
		if err != nil {
			return nil, domain.ErrInvalidRequest
		}
		projectID = &id
	}

	if thirdParty != "" {
		partyID, err := uuid.Parse(thirdParty)
		if err != nil {
			return nil, domain.ErrInvalidRequest
		}
		if projectID != nil {
			return h.books.ProjectThirdParty(ctx, *projectID, partyID)
		}
		return h.books.GetThirdParty(ctx, bookSetID, partyID)
	}

	if projectID != nil {
		return h.books.ProjectAccount(ctx, *projectID, name)
	}
	return h.books.GetAccount(ctx, bookSetID, name)
}

func (h *PostingHandler) resolveOther(ctx context.Context, bookSetID uuid.UUID, req postingRequest) (ledger.Account, error) {
	if req.OtherThirdParty != "" {
		partyID, err := uuid.Parse(req.OtherThirdParty)
		if err != nil {
			return nil, domain.ErrInvalidRequest
		}
		return h.books.GetThirdParty(ctx, bookSetID, partyID)
	}
	return h.books.GetAccount(ctx, bookSetID, req.OtherAccount)
}

func entryResponse(e *domain.Entry) map[string]any {
	return map[string]any{
		"id":         e.ID,
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"memo":       e.Memo,
	}
}

func queryTime(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: name, Message: "must be RFC 3339"}})
		return nil, false
	}
	return &t, true
}
