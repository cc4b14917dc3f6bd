package ledger

import (
	"github.com/finbook/bookset/internal/domain"
	"github.com/finbook/bookset/internal/money"
)

// ThirdPartyView narrows a parent account to one third party's entries. New
// entries posted through the view are tagged with the third party; queries
// see only entries carrying that tag. A nil party makes the view behave
// exactly like its parent, which lets the umbrella account travel through
// the same interface.
//
// Views stack: a ProjectView may wrap a ThirdPartyView to get "this third
// party's activity within this project" with no duplicated posting logic.
type ThirdPartyView struct {
	parent Account
	party  *domain.ThirdParty
}

func NewThirdPartyView(parent Account, party *domain.ThirdParty) *ThirdPartyView {
	return &ThirdPartyView{parent: parent, party: party}
}

func (v *ThirdPartyView) NewEntry(amount money.Amount, memo string, tx *domain.Transaction) *domain.Entry {
	e := v.parent.NewEntry(amount, memo, tx)
	if v.party != nil {
		id := v.party.ID
		e.ThirdPartyID = &id
	}
	return e
}

func (v *ThirdPartyView) NewTransaction() *domain.Transaction {
	return v.parent.NewTransaction()
}

func (v *ThirdPartyView) EntryFilter() domain.EntryFilter {
	f := v.parent.EntryFilter()
	if v.party != nil {
		id := v.party.ID
		f.ThirdPartyID = &id
	}
	return f
}

func (v *ThirdPartyView) PositiveCredit() bool {
	return v.parent.PositiveCredit()
}

// ProjectView isolates a parent account's activity to one project. New
// transactions minted through the view are tagged with the project; queries
// see only entries whose transaction carries that tag.
type ProjectView struct {
	parent  Account
	project *domain.Project
}

func NewProjectView(parent Account, project *domain.Project) *ProjectView {
	return &ProjectView{parent: parent, project: project}
}

func (v *ProjectView) NewEntry(amount money.Amount, memo string, tx *domain.Transaction) *domain.Entry {
	return v.parent.NewEntry(amount, memo, tx)
}

func (v *ProjectView) NewTransaction() *domain.Transaction {
	tx := v.parent.NewTransaction()
	if v.project != nil {
		id := v.project.ID
		tx.ProjectID = &id
	}
	return tx
}

func (v *ProjectView) EntryFilter() domain.EntryFilter {
	f := v.parent.EntryFilter()
	if v.project != nil {
		id := v.project.ID
		f.ProjectID = &id
	}
	return f
}

func (v *ProjectView) PositiveCredit() bool {
	return v.parent.PositiveCredit()
}
