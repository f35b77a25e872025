package ledger

// BatchInput is everything Reconcile needs to decide one batch: the
// proposed actions (request order, single user) and three sets
// pre-fetched from the store by the coordinator. The stored sets may be
// over-fetched (queried by every batch action id); Reconcile narrows
// them down itself, so the decision stays correct regardless.
type BatchInput struct {
	// Proposed is the candidate batch in caller order.
	Proposed []Entry
	// Existing holds stored entries whose action_id matches a proposed
	// action id (duplicates to no-op).
	Existing []Entry
	// PriorRollbacks holds stored rollbacks whose original_action_id
	// matches a proposed action id (pre-rollbacks that may activate now).
	PriorRollbacks []Entry
	// PriorOriginals holds stored entries whose action_id is referenced
	// by a rollback in the proposed batch.
	PriorOriginals []Entry
}

// BatchResult is the reconciler's decision.
type BatchResult struct {
	// Delta is the net signed balance change from the batch.
	Delta int64
	// NewEntries are the genuinely new actions to persist, batch order.
	NewEntries []Entry
	// Results maps every proposed action to its persisted-or-existing
	// entry, preserving request order.
	Results []Entry
}

// Reconcile decides a batch without touching the store.
//
// 1. Split proposed actions into duplicates and new ones (action_id is
//    the idempotency token; duplicates resolve to their stored entry).
// 2. Collect the rollbacks that apply now: stored pre-rollbacks whose
//    original just arrived in this batch, plus every new rollback.
// 3. Resolve each applying rollback's original against stored history
//    and the new actions themselves.
// 4. Delta = sum over new bets/wins, plus the inverse of every resolved
//    original. A rolled-back action and its rollback cancel exactly, in
//    either arrival order; an unresolved rollback contributes nothing
//    until its original shows up and finds itself pre-rolled-back.
func Reconcile(in BatchInput) BatchResult {
	existing := make(map[string]Entry, len(in.Existing))
	for _, e := range in.Existing {
		existing[e.ActionID] = e
	}

	newEntries := make([]Entry, 0, len(in.Proposed))
	newByActionID := make(map[string]Entry, len(in.Proposed))

	for _, p := range in.Proposed {
		if _, dup := existing[p.ActionID]; dup {
			continue
		}
		if _, dup := newByActionID[p.ActionID]; dup {
			// Same action id twice in one batch: first occurrence wins.
			continue
		}

		newEntries = append(newEntries, p)
		newByActionID[p.ActionID] = p
	}

	// Rollbacks taking effect in this batch. A stored pre-rollback only
	// activates when its original is new now; if the original is a
	// duplicate, the reversal already happened when it was first stored.
	applying := make([]Entry, 0, len(in.PriorRollbacks))

	for _, r := range in.PriorRollbacks {
		if _, isNew := newByActionID[r.OriginalActionID]; isNew {
			applying = append(applying, r)
		}
	}

	for _, e := range newEntries {
		if e.Type == ActionRollback {
			applying = append(applying, e)
		}
	}

	// Originals a rollback can resolve against: stored history first,
	// then bet/win actions new in this very batch.
	originals := make(map[string]Entry, len(in.PriorOriginals))
	for _, o := range in.PriorOriginals {
		originals[o.ActionID] = o
	}

	for _, e := range newEntries {
		if e.Type == ActionBet || e.Type == ActionWin {
			if _, ok := originals[e.ActionID]; !ok {
				originals[e.ActionID] = e
			}
		}
	}

	var delta int64

	for _, e := range newEntries {
		switch e.Type {
		case ActionBet:
			delta -= e.Amount
		case ActionWin:
			delta += e.Amount
		case ActionRollback:
			// Effect derived from the original below.
		}
	}

	for _, r := range applying {
		orig, ok := originals[r.OriginalActionID]
		if !ok {
			// Pre-rollback: original not seen anywhere yet, reversal
			// is deferred until it arrives.
			continue
		}

		switch orig.Type {
		case ActionBet:
			delta += orig.Amount
		case ActionWin:
			delta -= orig.Amount
		case ActionRollback:
			// Rollbacks of rollbacks carry no amount to invert.
		}
	}

	results := make([]Entry, 0, len(in.Proposed))

	for _, p := range in.Proposed {
		if e, ok := existing[p.ActionID]; ok {
			results = append(results, e)
			continue
		}

		results = append(results, newByActionID[p.ActionID])
	}

	return BatchResult{
		Delta:      delta,
		NewEntries: newEntries,
		Results:    results,
	}
}

// SingleUser reports the batch's user id, failing on an empty batch or
// one that spans users.
func SingleUser(batch []Entry) (string, error) {
	if len(batch) == 0 {
		return "", ErrEmptyBatch
	}

	userID := batch[0].UserID

	for _, e := range batch[1:] {
		if e.UserID != userID {
			return "", ErrMixedUsers
		}
	}

	return userID, nil
}
