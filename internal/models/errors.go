package models

import "errors"

// Domain errors surfaced by the ledger. The tool layer turns every one of
// these into a user-facing message instead of failing the conversation.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("source and destination accounts are the same")
)
