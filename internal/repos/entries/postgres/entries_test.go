package entries

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yeetcasino/aggregator/internal/infra/pgtestutil"
	"github.com/yeetcasino/aggregator/internal/ledger"
	repoentries "github.com/yeetcasino/aggregator/internal/repos/entries"
)

func seedEntry(actionID, userID string, typ ledger.ActionType, amount int64, originalID, gameID string) ledger.Entry {
	return ledger.Entry{
		ID:               uuid.NewString(),
		ActionID:         actionID,
		UserID:           userID,
		Currency:         "USD",
		Type:             typ,
		Amount:           amount,
		OriginalActionID: originalID,
		Game:             "test:slots",
		GameID:           gameID,
	}
}

func mustInsert(t *testing.T, db *sql.DB, repo *entriesRepo, batch []ledger.Entry) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	err = repo.InsertBatch(tx, batch)
	if err != nil {
		t.Fatalf("insert batch: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestEntries_InsertAndList(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	bet := seedEntry("a1", "u1", ledger.ActionBet, 100, "", "round-1")
	win := seedEntry("a2", "u1", ledger.ActionWin, 250, "", "round-1")
	rb := seedEntry("r1", "u1", ledger.ActionRollback, 0, "a1", "round-1")

	mustInsert(t, db, repo, []ledger.Entry{bet, win, rb})

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	got, err := repo.ListByActionIDs(tx, []string{"a1", "r1", "missing"})
	if err != nil {
		t.Fatalf("list by action ids: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	byAction := make(map[string]ledger.Entry, len(got))
	for _, e := range got {
		byAction[e.ActionID] = e
	}

	gotBet, ok := byAction["a1"]
	if !ok {
		t.Fatalf("bet a1 not returned")
	}

	if gotBet.ID != bet.ID || gotBet.Amount != 100 || gotBet.Type != ledger.ActionBet {
		t.Fatalf("bet roundtrip mismatch: %+v", gotBet)
	}

	if gotBet.GameID != "round-1" {
		t.Fatalf("expected game_id round-1, got %q", gotBet.GameID)
	}

	if gotBet.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set by the database")
	}

	gotRb, ok := byAction["r1"]
	if !ok {
		t.Fatalf("rollback r1 not returned")
	}

	if gotRb.OriginalActionID != "a1" {
		t.Fatalf("expected original_action_id a1, got %q", gotRb.OriginalActionID)
	}

	// Rollback lookup by referenced original.
	rollbacks, err := repo.ListRollbacksReferencing(tx, []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("list rollbacks referencing: %v", err)
	}

	if len(rollbacks) != 1 || rollbacks[0].ActionID != "r1" {
		t.Fatalf("expected only r1, got %+v", rollbacks)
	}

	// Empty id lists short-circuit without touching the database.
	none, err := repo.ListByActionIDs(tx, nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil, nil for empty ids, got %v, %v", none, err)
	}
}

func TestEntries_InsertBatch_DuplicateActionID(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	mustInsert(t, db, repo, []ledger.Entry{seedEntry("a1", "u1", ledger.ActionBet, 100, "", "")})

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = repo.InsertBatch(tx, []ledger.Entry{seedEntry("a1", "u1", ledger.ActionBet, 100, "", "")})
	if err == nil {
		t.Fatalf("expected unique violation on duplicate action_id")
	}
}

func TestEntries_Stats(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	mustInsert(t, db, repo, []ledger.Entry{
		// Seeded funding entries never count toward RTP.
		seedEntry("seed-1", "u1", ledger.ActionWin, 1_000_000, "", ledger.GameIDInitialBalance),

		seedEntry("a1", "u1", ledger.ActionBet, 100, "", "round-1"),
		seedEntry("a2", "u1", ledger.ActionBet, 200, "", "round-1"),
		seedEntry("a3", "u1", ledger.ActionWin, 240, "", "round-1"),
		seedEntry("r1", "u1", ledger.ActionRollback, 0, "a2", "round-1"),

		seedEntry("b1", "u2", ledger.ActionBet, 50, "", "round-2"),
	})

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	filter := repoentries.StatsFilter{
		From:  time.Now().Add(-time.Hour),
		To:    time.Now().Add(time.Hour),
		Limit: 100,
	}

	totals, err := repo.UserTotals(ctx, filter)
	if err != nil {
		t.Fatalf("user totals: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("expected 2 user rows, got %d: %+v", len(totals), totals)
	}

	// Ordered by user_id.
	u1 := totals[0]
	if u1.UserID != "u1" || u1.Rounds != 2 || u1.TotalBet != 300 || u1.TotalWin != 240 {
		t.Fatalf("u1 totals mismatch: %+v", u1)
	}

	u2 := totals[1]
	if u2.UserID != "u2" || u2.Rounds != 1 || u2.TotalBet != 50 || u2.TotalWin != 0 {
		t.Fatalf("u2 totals mismatch: %+v", u2)
	}

	// Per-user filter narrows the result set.
	filter.UserID = "u2"

	totals, err = repo.UserTotals(ctx, filter)
	if err != nil {
		t.Fatalf("user totals filtered: %v", err)
	}

	if len(totals) != 1 || totals[0].UserID != "u2" {
		t.Fatalf("expected only u2, got %+v", totals)
	}

	filter.UserID = ""

	global, err := repo.RangeTotals(ctx, filter)
	if err != nil {
		t.Fatalf("range totals: %v", err)
	}

	if global.Rounds != 3 || global.TotalBet != 350 || global.TotalWin != 240 {
		t.Fatalf("global totals mismatch: %+v", global)
	}

	// r1 reversed bet a2, so 200 shows up as rolled-back bet volume.
	if global.RollbackBet != 200 || global.RollbackWin != 0 {
		t.Fatalf("rollback totals mismatch: %+v", global)
	}
}
