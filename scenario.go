package hexwar40k

import "fmt"

// ScenarioUnit is one placement entry in a scenario file.
type ScenarioUnit struct {
	ID       string `json:"id"`
	UnitType string `json:"unit_type"`
	Player   int    `json:"player"`
	Col      int    `json:"col"`
	Row      int    `json:"row"`
}

// Scenario is the JSON document spec.md §6 describes: unit
// placements plus optional walls/objectives.
type Scenario struct {
	Units      []ScenarioUnit `json:"units"`
	WallHexes  [][2]int       `json:"wall_hexes"`
	Objectives [][2]int       `json:"objectives"`
	Cols       int            `json:"board_cols"`
	Rows       int            `json:"board_rows"`
}

// LoadScenario parses a scenario document.
func LoadScenario(data []byte) (*Scenario, error) {
	return unmarshalJSONOrConfigError[*Scenario](data, "scenario")
}

// Resolve builds the board and runtime units for a fresh episode,
// validating every unit_type against registry (a ConfigError, fatal,
// per spec.md §6: "unit_type must resolve in the unit registry").
func (sc *Scenario) Resolve(registry Registry) (*Board, []*Unit, error) {
	cols, rows := sc.Cols, sc.Rows
	if cols <= 0 {
		cols = 10
	}
	if rows <= 0 {
		rows = 10
	}
	board := NewBoard(cols, rows)
	for _, wh := range sc.WallHexes {
		board.Walls[Hex{Col: wh[0], Row: wh[1]}] = true
	}
	for _, ob := range sc.Objectives {
		board.Objectives[Hex{Col: ob[0], Row: ob[1]}] = true
	}

	units := make([]*Unit, 0, len(sc.Units))
	for _, su := range sc.Units {
		stats, err := registry.Resolve(su.UnitType)
		if err != nil {
			return nil, nil, err
		}
		if su.Player != 0 && su.Player != 1 {
			return nil, nil, &ConfigError{Reason: fmt.Sprintf("unit %q has invalid player %d", su.ID, su.Player)}
		}
		u := &Unit{
			ID:         su.ID,
			Player:     su.Player,
			UnitType:   su.UnitType,
			Col:        su.Col,
			Row:        su.Row,
			HPCur:      stats.HPMax,
			ShootLeft:  stats.RngNb,
			AttackLeft: stats.CCNb,
			Stats:      stats,
		}
		units = append(units, u)
	}
	return board, units, nil
}
