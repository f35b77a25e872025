package ledger

import "errors"

var (
	// ErrInsufficientFunds means applying the batch would drive the
	// user's balance below zero. Nothing from the batch is persisted.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMixedUsers means a batch contained more than one user id.
	// This is a caller contract violation, caught before any
	// transaction is opened.
	ErrMixedUsers = errors.New("batch contains multiple user ids")

	// ErrEmptyBatch means Process was called with no actions.
	// Balance-only requests go through GetBalance instead.
	ErrEmptyBatch = errors.New("empty action batch")
)
