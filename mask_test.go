package hexwar40k

import "testing"

func TestGetActionMaskMoveIncludesDestinationsAndSkip(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	u := newTestUnit("u1", 0, 2, 2, 6)
	state.Units = []*Unit{u}
	handlerFor(PhaseMove).PhaseStart(state)

	mask := GetActionMask(state)
	if !mask.Legal(11) {
		t.Fatalf("skip (id 11) should always be legal when a unit is offered")
	}
	anyDest := false
	for i := 0; i < 4; i++ {
		if mask.Legal(i) {
			anyDest = true
		}
	}
	if !anyDest {
		t.Fatalf("expected at least one legal move destination id")
	}
	for i := 4; i <= 9; i++ {
		if mask.Legal(i) {
			t.Fatalf("id %d should not be legal during the move phase", i)
		}
	}
}

func TestGetActionMaskEmptyPoolIsAllFalse(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	handlerFor(PhaseMove).PhaseStart(state) // no units at all

	mask := GetActionMask(state)
	for i := 0; i < 12; i++ {
		if mask.Legal(i) {
			t.Fatalf("id %d should not be legal with an empty activation pool", i)
		}
	}
}

func TestGetActionMaskChargeBeforeRollOnlyAllowsRoll(t *testing.T) {
	board := NewBoard(20, 20)
	state := NewGameState(board, 1)
	charger := newTestUnit("charger", 0, 0, 0, 6)
	enemy := newTestUnit("enemy", 1, 5, 0, 6)
	state.Units = []*Unit{charger, enemy}
	handlerFor(PhaseCharge).PhaseStart(state)

	mask := GetActionMask(state)
	if !mask.Legal(9) {
		t.Fatalf("expected the roll/confirm id (9) legal before any roll is recorded")
	}
	for i := 0; i < 4; i++ {
		if mask.Legal(i) {
			t.Fatalf("destination id %d should not be legal before a charge roll", i)
		}
	}
}

func TestLegalRejectsOutOfRangeIDs(t *testing.T) {
	var mask ActionMask
	if mask.Legal(-1) || mask.Legal(12) {
		t.Fatalf("Legal must reject ids outside [0,11]")
	}
}

func TestHasNonSkipOptionDistinguishesFromSkipOnlyMask(t *testing.T) {
	var skipOnly ActionMask
	skipOnly[11] = true
	if skipOnly.HasNonSkipOption() {
		t.Fatalf("a mask with only skip legal should report no non-skip option")
	}

	var withMove ActionMask
	withMove[0] = true
	withMove[11] = true
	if !withMove.HasNonSkipOption() {
		t.Fatalf("a mask with a legal move destination should report a non-skip option")
	}
}
