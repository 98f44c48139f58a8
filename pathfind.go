package hexwar40k

import "sort"

// bfsFrontier is the queue entry used by the flood-fill BFS below;
// kept as a slice-backed FIFO rather than container/list since the
// per-call frontier is small (bounded by MOVE, at most a few dozen
// hexes for any realistic unit).
type bfsFrontier struct {
	hex  Hex
	cost int
}

// reached pairs a hex with the step cost floodFill found it at, in
// the order it was first visited.
type reached struct {
	hex  Hex
	cost int
}

// floodFill runs a budget-bounded BFS from start over in-bounds,
// non-wall, unoccupied hexes, visiting neighbors in the fixed
// direction order from Neighbors so that ties are resolved
// deterministically. It returns every hex reached within budget in
// first-visited order, alongside a cost lookup; start itself is
// included at cost 0.
func floodFill(start Hex, budget int, board *Board, occupied map[Hex]bool) (order []reached, costs map[Hex]int) {
	costs = map[Hex]int{start: 0}
	order = []reached{{hex: start, cost: 0}}
	frontier := []bfsFrontier{{hex: start, cost: 0}}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if cur.cost >= budget {
			continue
		}
		for _, n := range Neighbors(cur.hex) {
			if !InBounds(n, board.Cols, board.Rows) {
				continue
			}
			if board.Walls[n] {
				continue
			}
			if occupied[n] {
				continue
			}
			nextCost := cur.cost + 1
			if existing, ok := costs[n]; ok && existing <= nextCost {
				continue
			}
			costs[n] = nextCost
			order = append(order, reached{hex: n, cost: nextCost})
			frontier = append(frontier, bfsFrontier{hex: n, cost: nextCost})
		}
	}
	return order, costs
}

// Reachable reports whether goal can be reached from start within
// budget steps, expanding only into in-bounds, non-wall hexes not in
// occupied. goal itself may be occupied by the unit's own vacated hex
// (callers should exclude that unit's own current hex from occupied).
func Reachable(start, goal Hex, budget int, board *Board, occupied map[Hex]bool) bool {
	if start == goal {
		return true
	}
	_, costs := floodFill(start, budget, board, occupied)
	_, ok := costs[goal]
	return ok
}

// nearestEnemyDistance returns the hex distance from u to its closest
// living enemy, or false if no enemy remains.
func nearestEnemyDistance(state *GameState, u *Unit) (int, bool) {
	if state == nil {
		return 0, false
	}
	best := -1
	for _, e := range state.livingUnitsForPlayer(1 - u.Player) {
		d := Distance(u.Hex(), e.Hex())
		if best == -1 || d < best {
			best = d
		}
	}
	return best, best != -1
}

// adjacentToAny reports whether h is hex-adjacent to any hex in set.
func adjacentToAny(h Hex, set map[Hex]bool) bool {
	for _, n := range Neighbors(h) {
		if set[n] {
			return true
		}
	}
	return false
}

// stableSortByCost re-sorts a BFS visitation order by ascending cost,
// using Go's stable sort so that entries with equal cost keep the
// relative order floodFill first visited them in (the fixed neighbor
// direction order), giving reproducible enumeration for replay.
func stableSortByCost(r []reached) {
	sort.SliceStable(r, func(i, j int) bool { return r[i].cost < r[j].cost })
}

// ValidDestinations computes the legal movement destinations for unit
// under the movement-phase rules: every hex reachable within budget
// steps, excluding the unit's own hex, excluding hexes adjacent to a
// living enemy unless the unit is already fleeing this turn (a
// fleeing unit has already committed to disengaging and may move
// through/into enemy threat ranges again without additional penalty).
// Results are ordered by ascending cost then by the fixed neighbor
// expansion order captured in floodFill, giving a stable enumeration
// for pending_movement_destinations.
func ValidDestinations(state *GameState, unit *Unit, budget int, fleeing bool) []Hex {
	occupied := livingOccupied(state, unit.ID)
	order, _ := floodFill(Hex{Col: unit.Col, Row: unit.Row}, budget, state.Board, occupied)
	enemyHexes := livingHexesForPlayer(state, 1-unit.Player)

	var filtered []reached
	for _, r := range order {
		if r.hex.Col == unit.Col && r.hex.Row == unit.Row {
			continue
		}
		if !fleeing && adjacentToAny(r.hex, enemyHexes) {
			continue
		}
		filtered = append(filtered, r)
	}
	stableSortByCost(filtered)
	out := make([]Hex, len(filtered))
	for i, r := range filtered {
		out[i] = r.hex
	}
	return out
}

// ChargeDestinations computes the legal landing hexes for a charge:
// reachable within roll steps, adjacent to at least one living enemy,
// and not itself occupied.
func ChargeDestinations(state *GameState, unit *Unit, roll int) []Hex {
	occupied := livingOccupied(state, unit.ID)
	order, _ := floodFill(Hex{Col: unit.Col, Row: unit.Row}, roll, state.Board, occupied)
	enemyHexes := livingHexesForPlayer(state, 1-unit.Player)

	var filtered []reached
	for _, r := range order {
		if r.hex.Col == unit.Col && r.hex.Row == unit.Row {
			continue
		}
		if !adjacentToAny(r.hex, enemyHexes) {
			continue
		}
		filtered = append(filtered, r)
	}
	stableSortByCost(filtered)
	out := make([]Hex, len(filtered))
	for i, r := range filtered {
		out[i] = r.hex
	}
	return out
}

// livingOccupied returns the set of hexes occupied by living units
// other than excludeID.
func livingOccupied(state *GameState, excludeID string) map[Hex]bool {
	out := make(map[Hex]bool, len(state.Units))
	for _, u := range state.Units {
		if u.ID == excludeID || !u.Alive() {
			continue
		}
		out[Hex{Col: u.Col, Row: u.Row}] = true
	}
	return out
}

// livingHexesForPlayer returns the set of hexes occupied by living
// units belonging to player.
func livingHexesForPlayer(state *GameState, player int) map[Hex]bool {
	out := make(map[Hex]bool)
	for _, u := range state.Units {
		if u.Player == player && u.Alive() {
			out[Hex{Col: u.Col, Row: u.Row}] = true
		}
	}
	return out
}
