package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidAmount         = errors.New("amount must not be negative")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountExists         = errors.New("account name already used in this book set")
	ErrScopeMismatch         = errors.New("account does not belong to this book set")
	ErrUnbalancedTransaction = errors.New("transaction entries do not sum to zero")
	ErrMissingCapability     = errors.New("account is missing a required capability")
	ErrConventionLocked      = errors.New("sign convention is immutable once entries exist")
	ErrInvalidRequest        = errors.New("invalid request")
)
