package hexwar40k

type movementHandler struct{}

// PhaseStart clears the previous pool, resets this turn's
// per-activation counters (a fresh move phase always begins a
// player's turn), rebuilds eligibility, and pre-computes the
// destinations pool for whichever unit is now offered.
func (movementHandler) PhaseStart(state *GameState) {
	for _, u := range state.livingUnitsForPlayer(state.CurrentPlayer) {
		u.resetActivationCounters()
	}
	state.Phase = PhaseMove
	state.MovePool = movementHandler{}.EligibleUnits(state)
	refreshMoveDestinations(state)
}

func (movementHandler) EligibleUnits(state *GameState) []string {
	var out []string
	for _, u := range state.livingUnitsForPlayer(state.CurrentPlayer) {
		if !state.UnitsMoved.has(u.ID) {
			out = append(out, u.ID)
		}
	}
	return out
}

func refreshMoveDestinations(state *GameState) {
	id := offeredUnit(state.MovePool)
	if id == "" {
		state.PendingMovementDestinations = nil
		return
	}
	u := state.UnitByID(id)
	fleeing := state.UnitsFled.has(id)
	dests := ValidDestinations(state, u, u.Stats.Move, fleeing)
	if len(dests) > 4 {
		dests = dests[:4]
	}
	state.PendingMovementDestinations = dests
}

func (h movementHandler) ExecuteAction(state *GameState, action Action) (ActionResult, error) {
	id := offeredUnit(state.MovePool)
	if id == "" || action.UnitID != id {
		return ActionResult{}, &IllegalActionError{Tag: "not_offered_unit", UnitID: action.UnitID, Phase: PhaseMove}
	}
	u := state.UnitByID(id)

	if action.Kind == ActionSkip {
		state.UnitsMoved.add(id)
		state.MovePool = removeFromPool(state.MovePool, id)
		return h.finish(state, false, false, "move_skip")
	}

	if action.Kind != ActionMove {
		return ActionResult{}, &IllegalActionError{Tag: "forbidden_in_phase", UnitID: id, Phase: PhaseMove}
	}
	if action.DestIndex < 0 || action.DestIndex >= len(state.PendingMovementDestinations) {
		return ActionResult{}, &IllegalActionError{Tag: "destination_out_of_range", UnitID: id, Phase: PhaseMove}
	}

	wasAdjacent := adjacentToLivingEnemy(state, u)
	distBefore, hadEnemy := nearestEnemyDistance(state, u)
	dest := state.PendingMovementDestinations[action.DestIndex]
	gained := state.Board.Objectives[dest] && state.Board.ControllingPlayer(dest, state) != u.Player
	u.Col, u.Row = dest.Col, dest.Row
	distAfter, _ := nearestEnemyDistance(state, u)
	closed := hadEnemy && distAfter < distBefore && distAfter <= u.Stats.Move

	state.UnitsMoved.add(id)
	if wasAdjacent {
		state.UnitsFled.add(id)
	}
	state.MovePool = removeFromPool(state.MovePool, id)
	return h.finish(state, closed, gained, "move")
}

func (movementHandler) finish(state *GameState, closed, gained bool, kind string) (ActionResult, error) {
	refreshMoveDestinations(state)
	complete := len(movementHandler{}.EligibleUnits(state)) == 0
	return ActionResult{Success: true, PhaseComplete: complete, NextPhase: PhaseShoot, Kind: kind, ClosedDistance: closed, ObjectiveGain: gained}, nil
}
