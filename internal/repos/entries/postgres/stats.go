package entries

import (
	"context"
	"fmt"

	"github.com/yeetcasino/aggregator/internal/ledger"
	"github.com/yeetcasino/aggregator/internal/repos/entries"
)

func (r *entriesRepo) UserTotals(ctx context.Context, f entries.StatsFilter) ([]entries.UserTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, currency,
		       COUNT(*) FILTER (WHERE type = 'bet') AS rounds,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'bet'), 0) AS total_bet,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'win'), 0) AS total_win
		FROM actions_ledger
		WHERE type IN ('bet', 'win')
		  AND created_at >= $1 AND created_at <= $2
		  AND COALESCE(game_id, '') <> $3
		  AND ($4 = '' OR user_id = $4)
		GROUP BY user_id, currency
		ORDER BY user_id, currency
		LIMIT $5 OFFSET $6
	`, f.From, f.To, ledger.GameIDInitialBalance, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("user totals: %w", err)
	}
	defer rows.Close()

	var out []entries.UserTotals

	for rows.Next() {
		var t entries.UserTotals

		err := rows.Scan(&t.UserID, &t.Currency, &t.Rounds, &t.TotalBet, &t.TotalWin)
		if err != nil {
			return nil, fmt.Errorf("scan user totals: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate user totals: %w", err)
	}

	return out, nil
}

func (r *entriesRepo) RangeTotals(ctx context.Context, f entries.StatsFilter) (entries.RangeTotals, error) {
	var t entries.RangeTotals

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE type = 'bet') AS rounds,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'bet'), 0) AS total_bet,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'win'), 0) AS total_win
		FROM actions_ledger
		WHERE type IN ('bet', 'win')
		  AND created_at >= $1 AND created_at <= $2
		  AND COALESCE(game_id, '') <> $3
		  AND ($4 = '' OR user_id = $4)
	`, f.From, f.To, ledger.GameIDInitialBalance, f.UserID).
		Scan(&t.Rounds, &t.TotalBet, &t.TotalWin)
	if err != nil {
		return entries.RangeTotals{}, fmt.Errorf("range totals: %w", err)
	}

	// Reversed amounts come from the original actions a rollback in the
	// window resolved against, not from the rollback rows themselves.
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(o.amount) FILTER (WHERE o.type = 'bet'), 0) AS rollback_bet,
		       COALESCE(SUM(o.amount) FILTER (WHERE o.type = 'win'), 0) AS rollback_win
		FROM actions_ledger r
		JOIN actions_ledger o ON o.action_id = r.original_action_id
		WHERE r.type = 'rollback'
		  AND r.created_at >= $1 AND r.created_at <= $2
		  AND COALESCE(o.game_id, '') <> $3
		  AND ($4 = '' OR r.user_id = $4)
	`, f.From, f.To, ledger.GameIDInitialBalance, f.UserID).
		Scan(&t.RollbackBet, &t.RollbackWin)
	if err != nil {
		return entries.RangeTotals{}, fmt.Errorf("rollback totals: %w", err)
	}

	return t, nil
}
