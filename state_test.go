package hexwar40k

import "testing"

func TestValidateRejectsUnitOnWall(t *testing.T) {
	board := NewBoard(10, 10)
	board.Walls[Hex{Col: 2, Row: 2}] = true
	state := NewGameState(board, 1)
	state.Units = []*Unit{newTestUnit("u1", 0, 2, 2, 6)}

	if err := state.Validate(); err == nil {
		t.Fatalf("expected StateCorruptionError for a unit occupying a wall hex")
	} else if _, ok := err.(*StateCorruptionError); !ok {
		t.Fatalf("expected *StateCorruptionError, got %T", err)
	}
}

func TestValidateRejectsOverlappingUnits(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	state.Units = []*Unit{
		newTestUnit("u1", 0, 3, 3, 6),
		newTestUnit("u2", 1, 3, 3, 6),
	}
	if err := state.Validate(); err == nil {
		t.Fatalf("expected StateCorruptionError for two units sharing a hex")
	}
}

func TestValidateRejectsDuplicatePoolEntries(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	state.Units = []*Unit{newTestUnit("u1", 0, 1, 1, 6)}
	state.MovePool = []string{"u1", "u1"}
	if err := state.Validate(); err == nil {
		t.Fatalf("expected StateCorruptionError for a duplicate pool entry")
	}
}

func TestValidatePassesOnCleanState(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	state.Units = []*Unit{
		newTestUnit("u1", 0, 1, 1, 6),
		newTestUnit("u2", 1, 8, 8, 6),
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("unexpected error on a clean state: %v", err)
	}
}

func TestUnitByIDFindsAndMisses(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	state.Units = []*Unit{newTestUnit("u1", 0, 1, 1, 6)}
	if u := state.UnitByID("u1"); u == nil {
		t.Fatalf("expected to find u1")
	}
	if u := state.UnitByID("missing"); u != nil {
		t.Fatalf("expected nil for an unknown id")
	}
}

func TestClearTrackingSetsEmptiesAllFive(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	state.UnitsMoved.add("u1")
	state.UnitsFled.add("u1")
	state.UnitsShot.add("u1")
	state.UnitsCharged.add("u1")
	state.UnitsAttacked.add("u1")

	state.clearTrackingSets()

	for name, set := range map[string]unitSet{
		"moved": state.UnitsMoved, "fled": state.UnitsFled, "shot": state.UnitsShot,
		"charged": state.UnitsCharged, "attacked": state.UnitsAttacked,
	} {
		if set.has("u1") {
			t.Errorf("expected %s set cleared", name)
		}
	}
}

func TestLivingUnitsForPlayerExcludesDead(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	alive := newTestUnit("alive", 0, 1, 1, 6)
	dead := newTestUnit("dead", 0, 2, 2, 6)
	dead.HPCur = 0
	state.Units = []*Unit{alive, dead}

	living := state.livingUnitsForPlayer(0)
	if len(living) != 1 || living[0].ID != "alive" {
		t.Fatalf("expected only the alive unit, got %v", living)
	}
}
