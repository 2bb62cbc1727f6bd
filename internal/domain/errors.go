package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate resource")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrActionNotAllowed = errors.New("action not allowed for this invoice")
)
