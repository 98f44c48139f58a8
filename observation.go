package hexwar40k

const (
	obsGlobalSize   = 15
	obsActiveSize   = 8
	obsTerrainSize  = 32
	obsAllySlots    = 6
	obsAllySlotSize = 12
	obsEnemySlots   = 6
	obsEnemySlotSize = 23
	obsTargetSlots  = 5
	obsTargetSlotSize = 7

	// ObservationSize is the fixed length of every observation vector
	// (spec.md §4.5: 295-300 floats, partitioned into the blocks
	// above).
	ObservationSize = obsGlobalSize + obsActiveSize + obsTerrainSize +
		obsAllySlots*obsAllySlotSize + obsEnemySlots*obsEnemySlotSize +
		obsTargetSlots*obsTargetSlotSize
)

// clamp01 normalises x/denom into [0,1], guarding against a zero
// denominator.
func clamp01(x, denom float64) float64 {
	if denom <= 0 {
		return 0
	}
	v := x / denom
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

const maxTurns = 100 // normalisation denominator; actual cap comes from training config

// BuildObservation encodes state into the fixed-size [0,1] vector the
// Gym-style façade returns. Slot blocks are zero-padded when the real
// count is smaller than the block's capacity (spec.md §4.5).
func BuildObservation(state *GameState, maxTurnsPerEpisode int) []float64 {
	obs := make([]float64, ObservationSize)
	idx := 0

	idx = writeGlobalContext(obs, idx, state, maxTurnsPerEpisode)
	idx = writeActiveUnit(obs, idx, state)
	idx = writeDirectionalTerrain(obs, idx, state)
	idx = writeAllySlots(obs, idx, state)
	idx = writeEnemySlots(obs, idx, state)
	idx = writeTargetSlots(obs, idx, state)
	return obs
}

func currentOfferedUnit(state *GameState) *Unit {
	var id string
	switch state.Phase {
	case PhaseMove:
		id = offeredUnit(state.MovePool)
	case PhaseShoot:
		id = offeredUnit(state.ShootPool)
	case PhaseCharge:
		id = offeredUnit(state.ChargePool)
	case PhaseFight:
		id = offeredUnit(state.FightPool)
	}
	if id == "" {
		return nil
	}
	return state.UnitByID(id)
}

func writeGlobalContext(obs []float64, idx int, state *GameState, maxTurnsPerEpisode int) int {
	phases := []Phase{PhaseMove, PhaseShoot, PhaseCharge, PhaseFight}
	for _, p := range phases {
		v := 0.0
		if state.Phase == p {
			v = 1.0
		}
		obs[idx] = v
		idx++
	}
	obs[idx] = float64(state.CurrentPlayer)
	idx++
	denom := maxTurnsPerEpisode
	if denom <= 0 {
		denom = maxTurns
	}
	obs[idx] = clamp01(float64(state.Turn), float64(denom))
	idx++
	obs[idx] = clamp01(float64(state.EpisodeSteps), float64(denom)*12)
	idx++
	u := currentOfferedUnit(state)
	player := 0
	if u != nil {
		player = u.Player
	}
	allies := state.livingUnitsForPlayer(player)
	enemies := state.livingUnitsForPlayer(1 - player)
	obs[idx] = clamp01(float64(len(allies)), 20)
	idx++
	obs[idx] = clamp01(float64(len(enemies)), 20)
	idx++
	controlledByPlayer, controlledByEnemy := 0, 0
	for h := range state.Board.Objectives {
		switch state.Board.ControllingPlayer(h, state) {
		case player:
			controlledByPlayer++
		case 1 - player:
			controlledByEnemy++
		}
	}
	obs[idx] = clamp01(float64(controlledByPlayer), float64(max1(len(state.Board.Objectives))))
	idx++
	obs[idx] = clamp01(float64(controlledByEnemy), float64(max1(len(state.Board.Objectives))))
	idx++
	// remaining slots in the ~15-wide global block are reserved
	// headroom for future context signals; left zero-padded.
	for idx%obsGlobalSize != 0 {
		idx++
	}
	return idx
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func writeActiveUnit(obs []float64, idx int, state *GameState) int {
	base := idx
	u := currentOfferedUnit(state)
	if u == nil {
		return base + obsActiveSize
	}
	obs[idx] = clamp01(float64(u.HPCur), float64(u.Stats.HPMax))
	idx++
	obs[idx] = clamp01(float64(u.Stats.Move), 12)
	idx++
	obs[idx] = clamp01(float64(u.Stats.RngRng), 48)
	idx++
	obs[idx] = clamp01(float64(u.Stats.RngDmg), 6)
	idx++
	obs[idx] = clamp01(float64(u.Stats.CCDmg), 6)
	idx++
	obs[idx] = clamp01(float64(u.ShootLeft), float64(max1(u.Stats.RngNb)))
	idx++
	obs[idx] = clamp01(float64(u.AttackLeft), float64(max1(u.Stats.CCNb)))
	idx++
	if adjacentToLivingEnemy(state, u) {
		obs[idx] = 1
	}
	idx++
	return base + obsActiveSize
}

// writeDirectionalTerrain samples wall density in each of the six hex
// directions at short (2 hex) and medium (4 hex) range from the
// active unit, giving a 6*2*? layout; padded/truncated to
// obsTerrainSize floats total.
func writeDirectionalTerrain(obs []float64, idx int, state *GameState) int {
	base := idx
	u := currentOfferedUnit(state)
	if u == nil {
		return base + obsTerrainSize
	}
	start := u.Hex()
	ranges := []int{2, 4}
	col := 0
	for _, rad := range ranges {
		for dir := 0; dir < 6 && col < obsTerrainSize/2; dir++ {
			h := start
			for step := 0; step < rad; step++ {
				n := Neighbors(h)
				h = n[dir]
			}
			wall := 0.0
			if !InBounds(h, state.Board.Cols, state.Board.Rows) || state.Board.Walls[h] {
				wall = 1.0
			}
			obs[base+col] = wall
			col++
		}
	}
	return base + obsTerrainSize
}

func writeAllySlots(obs []float64, idx int, state *GameState) int {
	base := idx
	u := currentOfferedUnit(state)
	if u == nil {
		return base + obsAllySlots*obsAllySlotSize
	}
	allies := state.livingUnitsForPlayer(u.Player)
	for i := 0; i < obsAllySlots; i++ {
		slot := base + i*obsAllySlotSize
		if i >= len(allies) {
			continue
		}
		a := allies[i]
		obs[slot+0] = clamp01(float64(a.Col), float64(max1(state.Board.Cols)))
		obs[slot+1] = clamp01(float64(a.Row), float64(max1(state.Board.Rows)))
		obs[slot+2] = clamp01(float64(a.HPCur), float64(max1(a.Stats.HPMax)))
		obs[slot+3] = clamp01(float64(Distance(u.Hex(), a.Hex())), float64(max1(state.Board.Cols+state.Board.Rows)))
		obs[slot+4] = clamp01(float64(a.Stats.RngStr), 12)
		obs[slot+5] = clamp01(float64(a.Stats.CCStr), 12)
		// remaining ally-slot floats are zero-padded headroom.
	}
	return base + obsAllySlots*obsAllySlotSize
}

func writeEnemySlots(obs []float64, idx int, state *GameState) int {
	base := idx
	u := currentOfferedUnit(state)
	if u == nil {
		return base + obsEnemySlots*obsEnemySlotSize
	}
	enemies := livingEnemiesWithinRange(state, u, state.Board.Cols+state.Board.Rows)
	for i := 0; i < obsEnemySlots; i++ {
		slot := base + i*obsEnemySlotSize
		if i >= len(enemies) {
			continue
		}
		e := enemies[i]
		dist := Distance(u.Hex(), e.Hex())
		obs[slot+0] = clamp01(float64(e.Col), float64(max1(state.Board.Cols)))
		obs[slot+1] = clamp01(float64(e.Row), float64(max1(state.Board.Rows)))
		obs[slot+2] = clamp01(float64(e.HPCur), float64(max1(e.Stats.HPMax)))
		obs[slot+3] = clamp01(float64(dist), float64(max1(state.Board.Cols+state.Board.Rows)))
		if dist <= u.Stats.RngRng {
			obs[slot+4] = 1
		}
		if dist <= e.Stats.RngRng {
			obs[slot+5] = 1
		}
		expectedDmg := estimateExpectedDamage(u, e)
		obs[slot+6] = clamp01(expectedDmg, float64(max1(e.HPCur)))
	}
	return base + obsEnemySlots*obsEnemySlotSize
}

// estimateExpectedDamage gives a rough expected-damage figure for the
// observation (hit probability * wound probability * avg unsaved
// fraction * RNG_DMG), not a combat-resolution call — used only to
// summarise threat for the agent, never to mutate state.
func estimateExpectedDamage(attacker, defender *Unit) float64 {
	hitChance := clampProb(float64(attacker.Stats.RngAtk) / 6.0)
	wTarget := woundTarget(attacker.Stats.RngStr, defender.Stats.Toughness)
	woundChance := clampProb(float64(7-wTarget) / 6.0)
	saveTarget := defender.Stats.ArmorSave + attacker.Stats.RngAP
	if defender.Stats.InvulSave > 0 && defender.Stats.InvulSave < saveTarget {
		saveTarget = defender.Stats.InvulSave
	}
	failSaveChance := clampProb(float64(saveTarget-1) / 6.0)
	return hitChance * woundChance * failSaveChance * float64(attacker.Stats.RngDmg)
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func writeTargetSlots(obs []float64, idx int, state *GameState) int {
	base := idx
	var pool []string
	switch state.Phase {
	case PhaseShoot:
		pool = state.ShootTargetPool
	case PhaseFight:
		pool = state.FightTargetPool
	}
	u := currentOfferedUnit(state)
	for i := 0; i < obsTargetSlots; i++ {
		slot := base + i*obsTargetSlotSize
		if u == nil || i >= len(pool) {
			continue
		}
		target := state.UnitByID(pool[i])
		if target == nil {
			continue
		}
		obs[slot+0] = 1 // validity flag
		kill := 0.0
		if target.Stats.HPMax > 0 {
			kill = clamp01(estimateExpectedDamage(u, target), float64(target.HPCur))
		}
		obs[slot+1] = kill
		obs[slot+2] = clamp01(estimateExpectedDamage(target, u), float64(max1(u.HPCur)))
		obs[slot+3] = clamp01(float64(target.Stats.Value), 20)
	}
	return base + obsTargetSlots*obsTargetSlotSize
}
