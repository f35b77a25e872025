package entries

import (
	"context"
	"database/sql"
	"time"

	"github.com/yeetcasino/aggregator/internal/ledger"
)

// UserTotals is one user's bet/win aggregate over a reporting window.
type UserTotals struct {
	UserID   string
	Currency string
	Rounds   int64
	TotalBet int64
	TotalWin int64
}

// RangeTotals aggregates a whole reporting window, including the
// amounts reversed by rollbacks, split by the original action's type.
type RangeTotals struct {
	Rounds      int64
	TotalBet    int64
	TotalWin    int64
	RollbackBet int64
	RollbackWin int64
}

// StatsFilter scopes reporting queries. An empty UserID means all users.
type StatsFilter struct {
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type Entries interface {
	// ListByActionIDs returns stored entries matching any of the given
	// action ids.
	ListByActionIDs(tx *sql.Tx, actionIDs []string) ([]ledger.Entry, error)
	// ListRollbacksReferencing returns stored rollback entries whose
	// original_action_id matches any of the given action ids.
	ListRollbacksReferencing(tx *sql.Tx, actionIDs []string) ([]ledger.Entry, error)
	// InsertBatch persists new entries. Entries are immutable once
	// inserted; created_at is assigned by the store.
	InsertBatch(tx *sql.Tx, entries []ledger.Entry) error

	// UserTotals returns per-user aggregates for the RTP report,
	// excluding seeded initial-balance entries.
	UserTotals(ctx context.Context, f StatsFilter) ([]UserTotals, error)
	// RangeTotals returns window-wide aggregates for the RTP report,
	// excluding seeded initial-balance entries.
	RangeTotals(ctx context.Context, f StatsFilter) (RangeTotals, error)
}
