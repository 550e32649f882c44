package model

import "errors"

// One instance per recoverable condition to allow easy comparison.
// Keep in rough order of the request lifecycle.
var (
	ErrUnknownUser            = errors.New("user not found")
	ErrUserAlreadyExists      = errors.New("login address already registered")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	ErrInvalidTransactionHash = errors.New("invalid transaction hash")
	ErrUnknownPlan            = errors.New("unknown mining plan")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrAlreadySettled         = errors.New("transaction already settled")
	ErrConflictingWrite       = errors.New("conflicting write")
	ErrMalformedRecord        = errors.New("malformed stored record")
	ErrInvalidSettings        = errors.New("invalid settings")
)
