package entries

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/yeetcasino/aggregator/internal/ledger"
	"github.com/yeetcasino/aggregator/internal/repos/entries"
)

var _ entries.Entries = (*entriesRepo)(nil)

type entriesRepo struct{ db *sql.DB }

func New(db *sql.DB) *entriesRepo {
	return &entriesRepo{db: db}
}

const entryColumns = `id, action_id, user_id, currency, type, amount, original_action_id, game, game_id, created_at`

func (r *entriesRepo) ListByActionIDs(tx *sql.Tx, actionIDs []string) ([]ledger.Entry, error) {
	if len(actionIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM actions_ledger
		WHERE action_id IN (%s)
	`, entryColumns, placeholders(len(actionIDs)))

	rows, err := tx.Query(query, toArgs(actionIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list by action ids: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entriesRepo) ListRollbacksReferencing(tx *sql.Tx, actionIDs []string) ([]ledger.Entry, error) {
	if len(actionIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM actions_ledger
		WHERE type = 'rollback'
		  AND original_action_id IN (%s)
	`, entryColumns, placeholders(len(actionIDs)))

	rows, err := tx.Query(query, toArgs(actionIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list rollbacks referencing: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *entriesRepo) InsertBatch(tx *sql.Tx, batch []ledger.Entry) error {
	if len(batch) == 0 {
		return nil
	}

	var sb strings.Builder

	sb.WriteString(`
		INSERT INTO actions_ledger
			(id, action_id, user_id, currency, type, amount, original_action_id, game, game_id, created_at)
		VALUES `)

	args := make([]any, 0, len(batch)*9)

	for i, e := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}

		base := i * 9
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, now())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)

		args = append(args,
			e.ID, e.ActionID, e.UserID, e.Currency, string(e.Type), e.Amount,
			nullable(e.OriginalActionID), e.Game, nullable(e.GameID),
		)
	}

	_, err := tx.Exec(sb.String(), args...)
	if err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	return nil
}

func scanEntries(rows *sql.Rows) ([]ledger.Entry, error) {
	var out []ledger.Entry

	for rows.Next() {
		var (
			e          ledger.Entry
			entryType  string
			amount     sql.NullInt64
			originalID sql.NullString
			gameID     sql.NullString
		)

		err := rows.Scan(&e.ID, &e.ActionID, &e.UserID, &e.Currency, &entryType,
			&amount, &originalID, &e.Game, &gameID, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		e.Type = ledger.ActionType(entryType)
		e.Amount = amount.Int64
		e.OriginalActionID = originalID.String
		e.GameID = gameID.String

		out = append(out, e)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return out, nil
}

// placeholders renders "$1, $2, ..., $n" for IN clauses. Individual
// placeholders keep the queries portable across drivers.
func placeholders(n int) string {
	var sb strings.Builder

	for i := 1; i <= n; i++ {
		if i > 1 {
			sb.WriteString(", ")
		}

		fmt.Fprintf(&sb, "$%d", i)
	}

	return sb.String()
}

func toArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return args
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
