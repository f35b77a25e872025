package balances

import (
	"context"
	"database/sql"
)

type Balances interface {
	// Get returns the user's current balance without locking. Users the
	// ledger has never seen have balance 0.
	Get(ctx context.Context, userID string) (int64, error)
	// EnsureAndLock creates the user's balance row if absent (balance 0)
	// and acquires an exclusive row lock on it. Concurrent batches for
	// the same user serialize here.
	EnsureAndLock(tx *sql.Tx, userID string) (int64, error)
	// Set stores the user's new balance. The row is guaranteed to exist
	// after EnsureAndLock.
	Set(tx *sql.Tx, userID string, balance int64) error
}
