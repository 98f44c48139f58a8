package hexwar40k

import "testing"

func testRegistry() Registry {
	reg, err := LoadRegistry(validRegistryJSON())
	if err != nil {
		panic(err)
	}
	return reg
}

func TestLoadScenarioValid(t *testing.T) {
	data := []byte(`{
		"board_cols": 8, "board_rows": 8,
		"wall_hexes": [[2,2]],
		"objectives": [[4,4]],
		"units": [{"id": "u1", "unit_type": "grunt", "player": 0, "col": 0, "row": 0}]
	}`)
	sc, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Cols != 8 || sc.Rows != 8 {
		t.Fatalf("unexpected board size: %dx%d", sc.Cols, sc.Rows)
	}
}

func TestScenarioResolveBuildsBoardAndUnits(t *testing.T) {
	data := []byte(`{
		"board_cols": 8, "board_rows": 8,
		"wall_hexes": [[2,2]],
		"objectives": [[4,4]],
		"units": [{"id": "u1", "unit_type": "grunt", "player": 0, "col": 0, "row": 0}]
	}`)
	sc, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	board, units, err := sc.Resolve(testRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !board.Walls[Hex{Col: 2, Row: 2}] {
		t.Fatalf("expected wall at (2,2)")
	}
	if len(units) != 1 || units[0].HPCur != 1 {
		t.Fatalf("expected one unit with HP_CUR seeded from HP_MAX, got %+v", units)
	}
}

func TestScenarioResolveUnknownUnitType(t *testing.T) {
	data := []byte(`{"units": [{"id": "u1", "unit_type": "ghost", "player": 0, "col": 0, "row": 0}]}`)
	sc, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = sc.Resolve(testRegistry())
	if err == nil {
		t.Fatalf("expected error resolving an unknown unit_type")
	}
}

func TestScenarioResolveInvalidPlayer(t *testing.T) {
	data := []byte(`{"units": [{"id": "u1", "unit_type": "grunt", "player": 7, "col": 0, "row": 0}]}`)
	sc, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = sc.Resolve(testRegistry())
	if err == nil {
		t.Fatalf("expected error for an invalid player index")
	}
}

func TestLoadScenarioInvalidJSON(t *testing.T) {
	_, err := LoadScenario([]byte(`not json`))
	if err == nil {
		t.Fatalf("expected a ConfigError for invalid JSON")
	}
}
