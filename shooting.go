package hexwar40k

type shootingHandler struct{}

func (shootingHandler) PhaseStart(state *GameState) {
	state.Phase = PhaseShoot
	state.ShootPool = shootingHandler{}.EligibleUnits(state)
	refreshShootTargets(state)
}

func (shootingHandler) EligibleUnits(state *GameState) []string {
	var out []string
	for _, u := range state.livingUnitsForPlayer(state.CurrentPlayer) {
		if u.ShootLeft <= 0 {
			continue
		}
		if state.UnitsFled.has(u.ID) {
			continue
		}
		if adjacentToLivingEnemy(state, u) {
			continue
		}
		if len(validShootTargets(state, u)) > 0 {
			out = append(out, u.ID)
		}
	}
	return out
}

// validShootTargets returns, ordered by distance then id, every
// living enemy within RNG_RNG, with line of sight, and not adjacent
// to any living friendly unit (friendly-fire guard, spec.md §4.2).
func validShootTargets(state *GameState, u *Unit) []*Unit {
	allies := livingHexesForPlayer(state, u.Player)
	var out []*Unit
	for _, e := range livingEnemiesWithinRange(state, u, u.Stats.RngRng) {
		if !LineOfSight(u.Hex(), e.Hex(), state.Board.Walls) {
			continue
		}
		if adjacentToAny(e.Hex(), allies) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func refreshShootTargets(state *GameState) {
	id := offeredUnit(state.ShootPool)
	if id == "" {
		state.ShootTargetPool = nil
		return
	}
	u := state.UnitByID(id)
	targets := validShootTargets(state, u)
	if len(targets) > 5 {
		targets = targets[:5]
	}
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	state.ShootTargetPool = ids
}

func (h shootingHandler) ExecuteAction(state *GameState, action Action) (ActionResult, error) {
	id := offeredUnit(state.ShootPool)
	if id == "" || action.UnitID != id {
		return ActionResult{}, &IllegalActionError{Tag: "not_offered_unit", UnitID: action.UnitID, Phase: PhaseShoot}
	}
	u := state.UnitByID(id)

	if action.Kind == ActionSkip {
		state.UnitsShot.add(id)
		state.ShootPool = removeFromPool(state.ShootPool, id)
		return h.finish(state, ActionResult{Success: true, Kind: "shoot_skip"})
	}
	if action.Kind != ActionShoot {
		return ActionResult{}, &IllegalActionError{Tag: "forbidden_in_phase", UnitID: id, Phase: PhaseShoot}
	}
	if action.TargetIndex < 0 || action.TargetIndex >= len(state.ShootTargetPool) {
		return ActionResult{}, &IllegalActionError{Tag: "target_out_of_range", UnitID: id, Phase: PhaseShoot}
	}
	targetID := state.ShootTargetPool[action.TargetIndex]
	target := state.UnitByID(targetID)
	hpBefore := target.HPCur

	outcome := ResolveAttack(state.rng, RangedProfile(u), target)
	u.ShootLeft--

	result := ActionResult{Success: true, Kind: "shoot", TargetID: targetID, Damage: outcome.Damage, Killed: outcome.Killed, TargetHPBefore: hpBefore}

	if u.ShootLeft <= 0 {
		state.UnitsShot.add(id)
		state.ShootPool = removeFromPool(state.ShootPool, id)
	} else if len(validShootTargets(state, u)) == 0 {
		// No targets left this activation: the activation is spent
		// even though SHOOT_LEFT wasn't exhausted by roll count.
		state.UnitsShot.add(id)
		state.ShootPool = removeFromPool(state.ShootPool, id)
	}
	return h.finish(state, result)
}

func (shootingHandler) finish(state *GameState, result ActionResult) (ActionResult, error) {
	refreshShootTargets(state)
	result.PhaseComplete = len(shootingHandler{}.EligibleUnits(state)) == 0
	result.NextPhase = PhaseCharge
	return result, nil
}
