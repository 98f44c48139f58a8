package hexwar40k

// ActionResult is returned by a phase handler's ExecuteAction. It
// carries enough detail for the façade to log the activation, for
// the reward calculator to shape a reward, and to signal a phase
// transition without the handler touching episode_steps itself
// (spec.md §9 "step counting lives in the façade alone").
type ActionResult struct {
	Success       bool
	PhaseComplete bool
	NextPhase     Phase
	Kind          string
	TargetID      string
	Damage        int
	Killed        bool
	TargetHPBefore int
	ClosedDistance bool
	ObjectiveGain bool
	ErrorTag      string
}

// PhaseHandler is the three-operation contract every phase
// implements (spec.md §4.2).
type PhaseHandler interface {
	PhaseStart(state *GameState)
	EligibleUnits(state *GameState) []string
	ExecuteAction(state *GameState, action Action) (ActionResult, error)
}

// handlerFor returns the handler for the given phase.
func handlerFor(phase Phase) PhaseHandler {
	switch phase {
	case PhaseMove:
		return movementHandler{}
	case PhaseShoot:
		return shootingHandler{}
	case PhaseCharge:
		return chargeHandler{}
	case PhaseFight:
		return fightHandler{}
	}
	return nil
}

// offeredUnit returns the head of pool, or "" if the pool is empty.
func offeredUnit(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[0]
}

// removeFromPool removes the first occurrence of id from pool.
func removeFromPool(pool []string, id string) []string {
	for i, v := range pool {
		if v == id {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}

// adjacentToLivingEnemy reports whether u is hex-adjacent to any
// living enemy unit.
func adjacentToLivingEnemy(state *GameState, u *Unit) bool {
	enemies := livingHexesForPlayer(state, 1-u.Player)
	return adjacentToAny(u.Hex(), enemies)
}

// livingEnemiesWithinRange returns, sorted by ascending distance then
// ascending id (the stable target-pool ordering spec.md §4.2
// requires), every living enemy of u within maxRange hexes.
func livingEnemiesWithinRange(state *GameState, u *Unit, maxRange int) []*Unit {
	var out []*Unit
	for _, e := range state.Units {
		if e.Player == u.Player || !e.Alive() {
			continue
		}
		if Distance(u.Hex(), e.Hex()) <= maxRange {
			out = append(out, e)
		}
	}
	sortUnitsByDistanceThenID(u, out)
	return out
}

func sortUnitsByDistanceThenID(from *Unit, units []*Unit) {
	for i := 1; i < len(units); i++ {
		j := i
		for j > 0 {
			a, b := units[j-1], units[j]
			da, db := Distance(from.Hex(), a.Hex()), Distance(from.Hex(), b.Hex())
			if da < db || (da == db && a.ID <= b.ID) {
				break
			}
			units[j-1], units[j] = units[j], units[j-1]
			j--
		}
	}
}

// advancePhase moves the engine to the next phase/player/turn per
// spec.md §4.2 "phase progression": move->shoot->charge->fight for
// the current player, then control passes to the other player at a
// fresh move phase; after player 1's fight, the turn increments and
// tracking sets clear.
func advancePhase(state *GameState) {
	// A phase whose pool comes up empty at phase start has no eligible
	// unit and no action could complete it, so it is passed over at
	// once; eight transitions cover one full turn of both players.
	for step := 0; step < 8; step++ {
		advancePhaseOnce(state)
		if currentOfferedID(state) != "" {
			return
		}
	}
}

// advancePhaseOnce makes a single phase/player/turn transition and
// runs the new phase's PhaseStart.
func advancePhaseOnce(state *GameState) {
	order := []Phase{PhaseMove, PhaseShoot, PhaseCharge, PhaseFight}
	idx := 0
	for i, p := range order {
		if p == state.Phase {
			idx = i
			break
		}
	}
	if idx < len(order)-1 {
		state.Phase = order[idx+1]
		handlerFor(state.Phase).PhaseStart(state)
		return
	}
	// fight just completed for CurrentPlayer.
	if state.CurrentPlayer == 0 {
		state.CurrentPlayer = 1
		state.Phase = PhaseMove
		handlerFor(state.Phase).PhaseStart(state)
		return
	}
	state.CurrentPlayer = 0
	state.Turn++
	state.clearTrackingSets()
	state.Phase = PhaseMove
	handlerFor(state.Phase).PhaseStart(state)
}
