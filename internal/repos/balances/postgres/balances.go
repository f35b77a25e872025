package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yeetcasino/aggregator/internal/repos/balances"
)

var _ balances.Balances = (*balancesRepo)(nil)

type balancesRepo struct{ db *sql.DB }

func New(db *sql.DB) *balancesRepo {
	return &balancesRepo{db: db}
}

func (r *balancesRepo) Get(ctx context.Context, userID string) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM balances
		WHERE user_id = $1
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (r *balancesRepo) EnsureAndLock(tx *sql.Tx, userID string) (int64, error) {
	// Insert-first so a brand-new user still ends up with a row to lock.
	// A plain SELECT FOR UPDATE on a missing row locks nothing, letting
	// two first batches for the same user race each other.
	_, err := tx.Exec(`
		INSERT INTO balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("ensure balance row: %w", err)
	}

	var balance int64

	err = tx.QueryRow(`
		SELECT balance
		FROM balances
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}

func (r *balancesRepo) Set(tx *sql.Tx, userID string, balance int64) error {
	_, err := tx.Exec(`
		UPDATE balances
		SET balance = $2
		WHERE user_id = $1
	`, userID, balance)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}

	return nil
}
