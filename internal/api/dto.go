package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yeetcasino/aggregator/internal/ledger"
	"github.com/yeetcasino/aggregator/internal/services/reporting"
)

type actionRequest struct {
	Action           string `json:"action"`
	ActionID         string `json:"action_id"`
	Amount           *int64 `json:"amount,omitempty"`
	OriginalActionID string `json:"original_action_id,omitempty"`
}

type processRequest struct {
	UserID   string          `json:"user_id"`
	Currency string          `json:"currency"`
	Game     string          `json:"game"`
	GameID   *string         `json:"game_id,omitempty"`
	Finished *bool           `json:"finished,omitempty"`
	Actions  []actionRequest `json:"actions,omitempty"`
}

type transactionResponse struct {
	ActionID string `json:"action_id"`
	TxID     string `json:"tx_id"`
}

type processResponse struct {
	GameID       string                `json:"game_id,omitempty"`
	Transactions []transactionResponse `json:"transactions,omitempty"`
	Balance      int64                 `json:"balance"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type userRTPResponse struct {
	UserID   string   `json:"user_id"`
	Currency string   `json:"currency"`
	Rounds   int64    `json:"rounds"`
	TotalBet int64    `json:"total_bet"`
	TotalWin int64    `json:"total_win"`
	RTP      *float64 `json:"rtp"`
}

type globalStatsResponse struct {
	TotalRounds      int64    `json:"total_rounds"`
	TotalBet         int64    `json:"total_bet"`
	TotalWin         int64    `json:"total_win"`
	TotalRTP         *float64 `json:"total_rtp"`
	TotalRollbackBet int64    `json:"total_rollback_bet"`
	TotalRollbackWin int64    `json:"total_rollback_win"`
}

type rtpResponse struct {
	Data        []userRTPResponse   `json:"data"`
	GlobalStats globalStatsResponse `json:"global_stats"`
}

// validateProcessRequest mirrors the shape checks game integrations
// rely on; the ledger core trusts batches that pass here.
func validateProcessRequest(req *processRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("invalid user_id: must be a non-empty string")
	}

	if strings.TrimSpace(req.Currency) == "" {
		return fmt.Errorf("invalid currency: must be a non-empty string")
	}

	if strings.TrimSpace(req.Game) == "" {
		return fmt.Errorf("invalid game: must be a non-empty string")
	}

	if req.GameID != nil && strings.TrimSpace(*req.GameID) == "" {
		return fmt.Errorf("invalid game_id: must be a non-empty string if provided")
	}

	for i, a := range req.Actions {
		err := validateAction(a, i)
		if err != nil {
			return err
		}
	}

	return nil
}

func validateAction(a actionRequest, index int) error {
	if strings.TrimSpace(a.ActionID) == "" {
		return fmt.Errorf("invalid action at index %d: missing or invalid 'action_id' field", index)
	}

	switch ledger.ActionType(a.Action) {
	case ledger.ActionBet, ledger.ActionWin:
		if a.Amount == nil || *a.Amount < 0 {
			return fmt.Errorf("invalid action at index %d: %s actions require a non-negative 'amount'", index, a.Action)
		}

		if a.OriginalActionID != "" {
			return fmt.Errorf("invalid action at index %d: %s actions should not have 'original_action_id'", index, a.Action)
		}
	case ledger.ActionRollback:
		if strings.TrimSpace(a.OriginalActionID) == "" {
			return fmt.Errorf("invalid action at index %d: rollback actions require a non-empty 'original_action_id'", index)
		}

		if a.Amount != nil {
			return fmt.Errorf("invalid action at index %d: rollback actions should not have 'amount'", index)
		}
	default:
		return fmt.Errorf("invalid action at index %d: unknown action type %q, must be one of: 'bet', 'win', 'rollback'", index, a.Action)
	}

	return nil
}

const (
	defaultRTPPage  = 1
	defaultRTPLimit = 100
	maxRTPLimit     = 100
)

// parseRTPQuery validates the from/to window and pagination of an RTP
// report request.
func parseRTPQuery(r *http.Request) (reporting.Query, error) {
	q := r.URL.Query()

	rawFrom := q.Get("from")
	if rawFrom == "" {
		return reporting.Query{}, fmt.Errorf("missing or invalid 'from' query parameter")
	}

	rawTo := q.Get("to")
	if rawTo == "" {
		return reporting.Query{}, fmt.Errorf("missing or invalid 'to' query parameter")
	}

	from, err := time.Parse(time.RFC3339, rawFrom)
	if err != nil {
		return reporting.Query{}, fmt.Errorf("invalid 'from' date format")
	}

	to, err := time.Parse(time.RFC3339, rawTo)
	if err != nil {
		return reporting.Query{}, fmt.Errorf("invalid 'to' date format")
	}

	if from.After(to) {
		return reporting.Query{}, fmt.Errorf("'from' date must be before or equal to 'to' date")
	}

	page := defaultRTPPage

	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return reporting.Query{}, fmt.Errorf("invalid 'page' parameter: must be a positive integer")
		}
	}

	limit := defaultRTPLimit

	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxRTPLimit {
			return reporting.Query{}, fmt.Errorf("invalid 'limit' parameter: must be between 1 and %d", maxRTPLimit)
		}
	}

	return reporting.Query{
		From:  from,
		To:    to,
		Page:  page,
		Limit: limit,
	}, nil
}
