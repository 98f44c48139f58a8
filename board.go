package hexwar40k

// Board holds the static battlefield geometry: dimensions, wall hexes
// (block movement and line of sight) and objective hexes (scored at
// turn end). Boards are immutable after scenario load.
type Board struct {
	Cols       int
	Rows       int
	Walls      map[Hex]bool
	Objectives map[Hex]bool
}

// NewBoard builds an empty board of the given dimensions.
func NewBoard(cols, rows int) *Board {
	return &Board{
		Cols:       cols,
		Rows:       rows,
		Walls:      make(map[Hex]bool),
		Objectives: make(map[Hex]bool),
	}
}

// ControllingPlayer returns the player controlling objective hex h, or
// -1 if no living unit stands on it. Control ties (which cannot occur
// since only one unit may occupy a hex, invariant 6) are not modeled.
func (b *Board) ControllingPlayer(h Hex, state *GameState) int {
	for _, u := range state.Units {
		if u.Alive() && u.Col == h.Col && u.Row == h.Row {
			return u.Player
		}
	}
	return -1
}
