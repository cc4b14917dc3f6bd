package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must not be negative"}
	ErrAccountNotFound        = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrAccountExists          = &AppError{http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "Account name already used in this book set"}
	ErrScopeMismatch          = &AppError{http.StatusUnprocessableEntity, "SCOPE_MISMATCH", "Account does not belong to this book set"}
	ErrUnbalancedTransaction  = &AppError{http.StatusUnprocessableEntity, "UNBALANCED_TRANSACTION", "Transaction entries do not sum to zero"}
	ErrConventionLocked       = &AppError{http.StatusConflict, "CONVENTION_LOCKED", "Sign convention cannot change once entries exist"}
)
