package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeetcasino/aggregator/internal/repos/entries"
	pgentries "github.com/yeetcasino/aggregator/internal/repos/entries/postgres"
)

// Query scopes one RTP report. UserID empty means casino-wide.
type Query struct {
	UserID string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

// UserStats is the per-user RTP row. RTP is nil when the user placed no
// bets in the window.
type UserStats struct {
	UserID   string
	Currency string
	Rounds   int64
	TotalBet int64
	TotalWin int64
	RTP      *float64
}

// GlobalStats aggregates the whole window, including amounts reversed
// by rollbacks split by the original action's type.
type GlobalStats struct {
	TotalRounds      int64
	TotalBet         int64
	TotalWin         int64
	TotalRTP         *float64
	TotalRollbackBet int64
	TotalRollbackWin int64
}

type Report struct {
	Data   []UserStats
	Global GlobalStats
}

// Service is the read-only reporting consumer of the ledger. It never
// writes and has no bearing on ledger correctness.
type Service struct {
	entries entries.Entries
}

func New(db *sql.DB) *Service {
	return &Service{entries: pgentries.New(db)}
}

// RTP computes the return-to-player report over the query window.
// Seeded initial-balance entries are excluded from every total.
func (s *Service) RTP(ctx context.Context, q Query) (*Report, error) {
	filter := entries.StatsFilter{
		UserID: q.UserID,
		From:   q.From,
		To:     q.To,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	}

	totals, err := s.entries.UserTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("user totals: %w", err)
	}

	data := make([]UserStats, 0, len(totals))

	for _, t := range totals {
		data = append(data, UserStats{
			UserID:   t.UserID,
			Currency: t.Currency,
			Rounds:   t.Rounds,
			TotalBet: t.TotalBet,
			TotalWin: t.TotalWin,
			RTP:      ratio(t.TotalWin, t.TotalBet),
		})
	}

	global, err := s.entries.RangeTotals(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("range totals: %w", err)
	}

	return &Report{
		Data: data,
		Global: GlobalStats{
			TotalRounds:      global.Rounds,
			TotalBet:         global.TotalBet,
			TotalWin:         global.TotalWin,
			TotalRTP:         ratio(global.TotalWin, global.TotalBet),
			TotalRollbackBet: global.RollbackBet,
			TotalRollbackWin: global.RollbackWin,
		},
	}, nil
}

// ratio returns win/bet, or nil when no bets were placed.
func ratio(win, bet int64) *float64 {
	if bet == 0 {
		return nil
	}

	rtp := decimal.NewFromInt(win).
		Div(decimal.NewFromInt(bet)).
		InexactFloat64()

	return &rtp
}
