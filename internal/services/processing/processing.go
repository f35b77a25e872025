package processing

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yeetcasino/aggregator/internal/infra/pgutils"
	"github.com/yeetcasino/aggregator/internal/ledger"
	"github.com/yeetcasino/aggregator/internal/repos/balances"
	pgbalances "github.com/yeetcasino/aggregator/internal/repos/balances/postgres"
	"github.com/yeetcasino/aggregator/internal/repos/entries"
	pgentries "github.com/yeetcasino/aggregator/internal/repos/entries/postgres"
)

// Result is the outcome of one committed batch: the stored entry for
// every requested action in request order, and the user's balance after
// the batch.
type Result struct {
	Entries []ledger.Entry
	Balance int64
}

// Service coordinates one all-or-nothing ledger mutation per call.
type Service struct {
	db       *sql.DB
	entries  entries.Entries
	balances balances.Balances
}

func New(db *sql.DB) *Service {
	return &Service{
		db:       db,
		entries:  pgentries.New(db),
		balances: pgbalances.New(db),
	}
}

// Process commits a single user's batch atomically:
//
// 1) Lock the user's balance row (created with balance 0 if absent).
// 2) Fetch the duplicates, activating rollbacks and referenced originals.
// 3) Reconcile the batch (pure, in-memory).
// 4) Reject the whole batch if the new balance would go negative.
// 5) Persist the new entries and the updated balance.
//
// Either everything commits or nothing does; retrying the same batch is
// always safe.
func (s *Service) Process(ctx context.Context, batch []ledger.Entry) (*Result, error) {
	userID, err := ledger.SingleUser(batch)
	if err != nil {
		return nil, err
	}

	var result *Result

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := s.balances.EnsureAndLock(tx, userID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		in, err := s.fetchBatchContext(tx, batch)
		if err != nil {
			return err
		}

		decision := ledger.Reconcile(in)

		newBalance := current + decision.Delta
		if newBalance < 0 {
			return ledger.ErrInsufficientFunds
		}

		if len(decision.NewEntries) > 0 {
			err = s.entries.InsertBatch(tx, decision.NewEntries)
			if err != nil {
				return fmt.Errorf("insert entries: %w", err)
			}
		}

		err = s.balances.Set(tx, userID, newBalance)
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		result = &Result{Entries: decision.Results, Balance: newBalance}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("process batch: %w", err)
	}

	return result, nil
}

// fetchBatchContext loads the three stored sets the reconciler resolves
// the batch against.
func (s *Service) fetchBatchContext(tx *sql.Tx, batch []ledger.Entry) (ledger.BatchInput, error) {
	ids := make([]string, 0, len(batch))
	var originalIDs []string

	for _, e := range batch {
		ids = append(ids, e.ActionID)

		if e.Type == ledger.ActionRollback {
			originalIDs = append(originalIDs, e.OriginalActionID)
		}
	}

	existing, err := s.entries.ListByActionIDs(tx, ids)
	if err != nil {
		return ledger.BatchInput{}, fmt.Errorf("fetch duplicates: %w", err)
	}

	priorRollbacks, err := s.entries.ListRollbacksReferencing(tx, ids)
	if err != nil {
		return ledger.BatchInput{}, fmt.Errorf("fetch prior rollbacks: %w", err)
	}

	var priorOriginals []ledger.Entry

	if len(originalIDs) > 0 {
		priorOriginals, err = s.entries.ListByActionIDs(tx, originalIDs)
		if err != nil {
			return ledger.BatchInput{}, fmt.Errorf("fetch rollback originals: %w", err)
		}
	}

	return ledger.BatchInput{
		Proposed:       batch,
		Existing:       existing,
		PriorRollbacks: priorRollbacks,
		PriorOriginals: priorOriginals,
	}, nil
}

// GetBalance returns the user's balance without locking; unknown users
// have balance 0.
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.balances.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
