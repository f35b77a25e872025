package api

import (
	"github.com/google/uuid"

	"github.com/yeetcasino/aggregator/internal/ledger"
)

// mapActions turns a validated request into ledger entries, assigning
// each a fresh tx id. For duplicates the assigned id is discarded in
// favor of the stored entry's.
func mapActions(req *processRequest) []ledger.Entry {
	gameID := ""
	if req.GameID != nil {
		gameID = *req.GameID
	}

	batch := make([]ledger.Entry, 0, len(req.Actions))

	for _, a := range req.Actions {
		e := ledger.Entry{
			ID:       uuid.NewString(),
			ActionID: a.ActionID,
			UserID:   req.UserID,
			Currency: req.Currency,
			Type:     ledger.ActionType(a.Action),
			Game:     req.Game,
			GameID:   gameID,
		}

		if a.Amount != nil {
			e.Amount = *a.Amount
		}

		if e.Type == ledger.ActionRollback {
			e.OriginalActionID = a.OriginalActionID
		}

		batch = append(batch, e)
	}

	return batch
}
