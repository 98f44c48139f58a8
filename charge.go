package hexwar40k

const chargeThreatRange = 6

type chargeHandler struct{}

func (chargeHandler) PhaseStart(state *GameState) {
	state.Phase = PhaseCharge
	state.ChargePool = chargeHandler{}.EligibleUnits(state)
	state.ChargeRollValues = map[string]int{}
	refreshChargeDestinations(state)
}

func (chargeHandler) EligibleUnits(state *GameState) []string {
	var out []string
	for _, u := range state.livingUnitsForPlayer(state.CurrentPlayer) {
		if state.UnitsCharged.has(u.ID) || state.UnitsFled.has(u.ID) {
			continue
		}
		if adjacentToLivingEnemy(state, u) {
			continue
		}
		if len(livingEnemiesWithinRange(state, u, u.Stats.Move+chargeThreatRange)) > 0 {
			out = append(out, u.ID)
		}
	}
	return out
}

// refreshChargeDestinations recomputes ValidMoveDestinationsPool for
// the offered unit once it has a recorded charge roll; before the
// roll the pool is empty (only the roll action is legal).
func refreshChargeDestinations(state *GameState) {
	id := offeredUnit(state.ChargePool)
	if id == "" {
		state.ValidMoveDestinationsPool = nil
		return
	}
	roll, rolled := state.ChargeRollValues[id]
	if !rolled {
		state.ValidMoveDestinationsPool = nil
		return
	}
	u := state.UnitByID(id)
	dests := ChargeDestinations(state, u, roll)
	if len(dests) > 4 {
		dests = dests[:4]
	}
	state.ValidMoveDestinationsPool = dests
}

func (h chargeHandler) ExecuteAction(state *GameState, action Action) (ActionResult, error) {
	id := offeredUnit(state.ChargePool)
	if id == "" || action.UnitID != id {
		return ActionResult{}, &IllegalActionError{Tag: "not_offered_unit", UnitID: action.UnitID, Phase: PhaseCharge}
	}
	u := state.UnitByID(id)
	_, rolled := state.ChargeRollValues[id]

	if action.Kind == ActionSkip {
		state.UnitsCharged.add(id)
		state.ChargePool = removeFromPool(state.ChargePool, id)
		delete(state.ChargeRollValues, id)
		return h.finish(state, ActionResult{Success: true, Kind: "charge_skip"})
	}

	if action.Kind != ActionCharge {
		return ActionResult{}, &IllegalActionError{Tag: "forbidden_in_phase", UnitID: id, Phase: PhaseCharge}
	}

	if !rolled {
		if action.DestIndex != -1 {
			return ActionResult{}, &IllegalActionError{Tag: "must_roll_first", UnitID: id, Phase: PhaseCharge}
		}
		state.ChargeRollValues[id] = state.rng.D6x2()
		refreshChargeDestinations(state)
		return ActionResult{Success: true, Kind: "charge_roll", PhaseComplete: false}, nil
	}

	if action.DestIndex < 0 || action.DestIndex >= len(state.ValidMoveDestinationsPool) {
		return ActionResult{}, &IllegalActionError{Tag: "destination_out_of_range", UnitID: id, Phase: PhaseCharge}
	}
	dest := state.ValidMoveDestinationsPool[action.DestIndex]
	u.Col, u.Row = dest.Col, dest.Row

	state.UnitsCharged.add(id)
	state.ChargedOrder = append(state.ChargedOrder, id)
	state.ChargePool = removeFromPool(state.ChargePool, id)
	delete(state.ChargeRollValues, id)
	return h.finish(state, ActionResult{Success: true, Kind: "charge"})
}

func (chargeHandler) finish(state *GameState, result ActionResult) (ActionResult, error) {
	refreshChargeDestinations(state)
	result.PhaseComplete = len(chargeHandler{}.EligibleUnits(state)) == 0
	result.NextPhase = PhaseFight
	return result, nil
}
