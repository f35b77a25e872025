package ledger

import "time"

// ActionType is the closed set of action kinds the ledger records.
type ActionType string

const (
	ActionBet      ActionType = "bet"
	ActionWin      ActionType = "win"
	ActionRollback ActionType = "rollback"
)

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionBet, ActionWin, ActionRollback:
		return true
	default:
		return false
	}
}

// GameIDInitialBalance marks seeded initial-balance entries. Reporting
// excludes them from RTP totals; the ledger itself treats them like any
// other entry.
const GameIDInitialBalance = "initial-balance"

// Entry is one immutable processed action. ID is the internal tx id
// returned to game integrations; ActionID is the caller-supplied
// idempotency token.
type Entry struct {
	ID               string
	ActionID         string
	UserID           string
	Currency         string
	Type             ActionType
	Amount           int64 // minor units; meaningful for bet/win only
	OriginalActionID string // rollback only
	Game             string
	GameID           string
	CreatedAt        time.Time
}
