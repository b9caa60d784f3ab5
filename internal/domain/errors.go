package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. All failures cross
// package boundaries as returned errors, never as panics.

var (
	// Ledger errors
	ErrInvalidAmount   = errors.New("amount must be a positive integer")
	ErrInvalidCategory = errors.New("unknown or non-earning category")

	// Catalog errors
	ErrItemNotFound = errors.New("reward item not found")

	// Generic lookup failure for words, poems, tasks, plans
	ErrNotFound = errors.New("record not found")

	// Destructive operations require explicit confirmation from the caller
	ErrConfirmationRequired = errors.New("confirmation required")
)

// InsufficientBalanceError rejects a debit that would drive the balance
// below zero. It carries the quantities the presentation layer needs to
// build a "need N more stars" message; the core never formats user text.
type InsufficientBalanceError struct {
	Balance  int64 // balance at the time of the atomic check
	Required int64 // stars the debit asked for
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Required)
}

// Shortfall returns how many stars are missing.
func (e *InsufficientBalanceError) Shortfall() int64 { return e.Required - e.Balance }

// IsInsufficientBalance reports whether err is an insufficient-balance
// rejection and returns the typed error when it is.
func IsInsufficientBalance(err error) (*InsufficientBalanceError, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib, true
	}
	return nil, false
}
