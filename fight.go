package hexwar40k

type fightHandler struct{}

func (fightHandler) PhaseStart(state *GameState) {
	state.Phase = PhaseFight
	state.FightSubphase = SubphaseChargingUnits
	state.FightPool = nil
	seekNextFighter(state)
	refreshFightTargets(state)
}

// fightEligible mirrors spec.md §4.2's fight sub-phase eligibility:
// living, hex-adjacent to a living enemy, not yet attacked this turn,
// with strikes remaining.
func fightEligible(state *GameState, u *Unit) bool {
	return u.Alive() && !state.UnitsAttacked.has(u.ID) && u.AttackLeft > 0 && adjacentToLivingEnemy(state, u)
}

func firstEligibleForPlayer(state *GameState, player int) (string, bool) {
	for _, u := range state.Units {
		if u.Player == player && fightEligible(state, u) {
			return u.ID, true
		}
	}
	return "", false
}

func anyFightEligible(state *GameState) bool {
	_, a := firstEligibleForPlayer(state, 0)
	_, b := firstEligibleForPlayer(state, 1)
	return a || b
}

// seekNextFighter advances state.FightSubphase until it finds a
// single eligible unit to offer (stored as the sole entry of
// FightPool) or exhausts both alternation sides into cleanup. Bounded
// to a handful of iterations since there are only four sub-phases.
func seekNextFighter(state *GameState) {
	for i := 0; i < 8; i++ {
		switch state.FightSubphase {
		case SubphaseChargingUnits:
			found := false
			for _, id := range state.ChargedOrder {
				u := state.UnitByID(id)
				if u != nil && fightEligible(state, u) {
					state.FightPool = []string{id}
					found = true
					break
				}
			}
			if found {
				return
			}
			state.FightSubphase = SubphaseAlternatingActive
		case SubphaseAlternatingActive:
			if id, ok := firstEligibleForPlayer(state, state.CurrentPlayer); ok {
				state.FightPool = []string{id}
				return
			}
			state.FightSubphase = SubphaseAlternatingNonActive
		case SubphaseAlternatingNonActive:
			if id, ok := firstEligibleForPlayer(state, 1-state.CurrentPlayer); ok {
				state.FightPool = []string{id}
				return
			}
			if !anyFightEligible(state) {
				state.FightSubphase = SubphaseCleanup
				state.FightPool = nil
				return
			}
			state.FightSubphase = SubphaseAlternatingActive
		case SubphaseCleanup:
			state.FightPool = nil
			return
		}
	}
	state.FightSubphase = SubphaseCleanup
	state.FightPool = nil
}

func (fightHandler) EligibleUnits(state *GameState) []string {
	return state.FightPool
}

// validFightTargets mirrors validShootTargets's 5-slot scheme but
// drops the friendly-fire adjacency exclusion: a melee target is by
// definition adjacent to the attacker, one of its own allies, so
// applying shooting's "not adjacent to an ally" filter here would
// reject every legal target.
func validFightTargets(state *GameState, u *Unit) []*Unit {
	return livingEnemiesWithinRange(state, u, u.Stats.CCRng)
}

func refreshFightTargets(state *GameState) {
	id := offeredUnit(state.FightPool)
	if id == "" {
		state.FightTargetPool = nil
		return
	}
	u := state.UnitByID(id)
	targets := validFightTargets(state, u)
	if len(targets) > 5 {
		targets = targets[:5]
	}
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	state.FightTargetPool = ids
}

func (h fightHandler) ExecuteAction(state *GameState, action Action) (ActionResult, error) {
	id := offeredUnit(state.FightPool)
	if id == "" || action.UnitID != id {
		return ActionResult{}, &IllegalActionError{Tag: "not_offered_unit", UnitID: action.UnitID, Phase: PhaseFight}
	}
	u := state.UnitByID(id)

	if action.Kind == ActionSkip {
		state.UnitsAttacked.add(id)
		h.advanceAfter(state)
		return h.finish(state, ActionResult{Success: true, Kind: "fight_skip"})
	}
	if action.Kind != ActionFight {
		return ActionResult{}, &IllegalActionError{Tag: "forbidden_in_phase", UnitID: id, Phase: PhaseFight}
	}
	if action.TargetIndex < 0 || action.TargetIndex >= len(state.FightTargetPool) {
		return ActionResult{}, &IllegalActionError{Tag: "target_out_of_range", UnitID: id, Phase: PhaseFight}
	}
	targetID := state.FightTargetPool[action.TargetIndex]
	target := state.UnitByID(targetID)
	hpBefore := target.HPCur

	outcome := ResolveAttack(state.rng, MeleeProfile(u), target)
	u.AttackLeft--

	result := ActionResult{Success: true, Kind: "fight", TargetID: targetID, Damage: outcome.Damage, Killed: outcome.Killed, TargetHPBefore: hpBefore}

	exhausted := u.AttackLeft <= 0 || len(validFightTargets(state, u)) == 0
	if exhausted {
		state.UnitsAttacked.add(id)
		h.advanceAfter(state)
	}
	return h.finish(state, result)
}

// advanceAfter is called once the currently-offered unit has
// exhausted its activation. Within charging_units it just rescans the
// charger order; within an alternating sub-phase it flips to the
// other side before rescanning, implementing the ping-pong turn
// order spec.md §4.2 describes.
func (fightHandler) advanceAfter(state *GameState) {
	switch state.FightSubphase {
	case SubphaseAlternatingActive:
		state.FightSubphase = SubphaseAlternatingNonActive
	case SubphaseAlternatingNonActive:
		state.FightSubphase = SubphaseAlternatingActive
	}
	seekNextFighter(state)
}

func (fightHandler) finish(state *GameState, result ActionResult) (ActionResult, error) {
	refreshFightTargets(state)
	result.PhaseComplete = state.FightSubphase == SubphaseCleanup
	result.NextPhase = PhaseMove
	return result, nil
}
