package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeetcasino/aggregator/internal/services/reporting"
)

var userCols = []string{"user_id", "currency", "rounds", "total_bet", "total_win"}

func TestService_RTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := reporting.New(db)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("GROUP BY user_id, currency").
		WithArgs(from, to, "initial-balance", "", 100, 0).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("8|USDT|USD", "USD", 3, 600, 540).
			AddRow("9|BTC|USD", "USD", 0, 0, 250))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(from, to, "initial-balance", "").
		WillReturnRows(sqlmock.NewRows([]string{"rounds", "total_bet", "total_win"}).
			AddRow(3, 600, 790))
	mock.ExpectQuery("rollback").
		WithArgs(from, to, "initial-balance", "").
		WillReturnRows(sqlmock.NewRows([]string{"rollback_bet", "rollback_win"}).
			AddRow(200, 0))

	report, err := svc.RTP(context.Background(), reporting.Query{
		From:  from,
		To:    to,
		Page:  1,
		Limit: 100,
	})

	require.NoError(t, err)
	require.Len(t, report.Data, 2)

	first := report.Data[0]
	assert.Equal(t, "8|USDT|USD", first.UserID)
	assert.Equal(t, int64(3), first.Rounds)
	require.NotNil(t, first.RTP)
	assert.InDelta(t, 0.9, *first.RTP, 1e-9)

	second := report.Data[1]
	assert.Nil(t, second.RTP, "no bets means no defined return ratio")
	assert.Equal(t, int64(250), second.TotalWin)

	require.NotNil(t, report.Global.TotalRTP)
	assert.InDelta(t, 790.0/600.0, *report.Global.TotalRTP, 1e-9)
	assert.Equal(t, int64(200), report.Global.TotalRollbackBet)
	assert.Equal(t, int64(0), report.Global.TotalRollbackWin)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RTP_Pagination(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := reporting.New(db)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// Page 3 with limit 20 translates to offset 40.
	mock.ExpectQuery("GROUP BY user_id, currency").
		WithArgs(from, to, "initial-balance", "8|USDT|USD", 20, 40).
		WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(from, to, "initial-balance", "8|USDT|USD").
		WillReturnRows(sqlmock.NewRows([]string{"rounds", "total_bet", "total_win"}).
			AddRow(0, 0, 0))
	mock.ExpectQuery("rollback").
		WithArgs(from, to, "initial-balance", "8|USDT|USD").
		WillReturnRows(sqlmock.NewRows([]string{"rollback_bet", "rollback_win"}).
			AddRow(0, 0))

	report, err := svc.RTP(context.Background(), reporting.Query{
		UserID: "8|USDT|USD",
		From:   from,
		To:     to,
		Page:   3,
		Limit:  20,
	})

	require.NoError(t, err)
	assert.Empty(t, report.Data)
	assert.Nil(t, report.Global.TotalRTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}
