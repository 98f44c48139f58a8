package hexwar40k

import "testing"

func buildMoveTestState() *GameState {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	a := newTestUnit("p0_a", 0, 2, 2, 4)
	b := newTestUnit("p1_a", 1, 7, 7, 4)
	state.Units = []*Unit{a, b}
	state.CurrentPlayer = 0
	handlerFor(PhaseMove).PhaseStart(state)
	return state
}

func TestMovementPhaseStartOffersUnmovedUnit(t *testing.T) {
	state := buildMoveTestState()
	if offeredUnit(state.MovePool) != "p0_a" {
		t.Fatalf("expected p0_a offered, got %q", offeredUnit(state.MovePool))
	}
	if len(state.PendingMovementDestinations) == 0 {
		t.Fatalf("expected pending move destinations for the offered unit")
	}
}

func TestMovementExecuteActionMovesUnitAndAdvancesPool(t *testing.T) {
	state := buildMoveTestState()
	dest := state.PendingMovementDestinations[0]
	result, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionMove, UnitID: "p0_a", DestIndex: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	moved := state.UnitByID("p0_a")
	if moved.Hex() != dest {
		t.Fatalf("unit did not move to chosen destination: got %+v, want %+v", moved.Hex(), dest)
	}
	if !state.UnitsMoved.has("p0_a") {
		t.Fatalf("expected p0_a marked as moved")
	}
	if offeredUnit(state.MovePool) == "p0_a" {
		t.Fatalf("p0_a should have been removed from the move pool")
	}
}

func TestMovementSkipMarksMovedWithoutRelocating(t *testing.T) {
	state := buildMoveTestState()
	before := state.UnitByID("p0_a").Hex()
	result, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionSkip, UnitID: "p0_a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	after := state.UnitByID("p0_a").Hex()
	if before != after {
		t.Fatalf("skip must not relocate the unit: before=%+v after=%+v", before, after)
	}
	if !state.UnitsMoved.has("p0_a") {
		t.Fatalf("expected p0_a marked as moved after skip")
	}
}

func TestMovementKindDistinguishesMoveFromSkip(t *testing.T) {
	state := buildMoveTestState()
	moveResult, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionMove, UnitID: "p0_a", DestIndex: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moveResult.Kind != "move" {
		t.Fatalf("Kind = %q, want \"move\"", moveResult.Kind)
	}

	state2 := buildMoveTestState()
	skipResult, err := handlerFor(PhaseMove).ExecuteAction(state2, Action{Kind: ActionSkip, UnitID: "p0_a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipResult.Kind != "move_skip" {
		t.Fatalf("Kind = %q, want \"move_skip\" so a move-phase skip scores the configured skip reward rather than the move reward", skipResult.Kind)
	}
}

func TestMovementExecuteActionSetsObjectiveGain(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	a := newTestUnit("p0_a", 0, 2, 2, 4)
	b := newTestUnit("p1_a", 1, 7, 7, 4)
	state.Units = []*Unit{a, b}
	state.CurrentPlayer = 0
	handlerFor(PhaseMove).PhaseStart(state)

	var objectiveDest Hex
	found := false
	for _, dest := range state.PendingMovementDestinations {
		board.Objectives = map[Hex]bool{dest: true}
		objectiveDest = dest
		found = true
		break
	}
	if !found {
		t.Fatalf("expected at least one pending move destination")
	}

	var destIndex int
	for i, dest := range state.PendingMovementDestinations {
		if dest == objectiveDest {
			destIndex = i
			break
		}
	}
	result, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionMove, UnitID: "p0_a", DestIndex: destIndex})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ObjectiveGain {
		t.Fatalf("expected ObjectiveGain when a unit moves onto an uncontrolled objective hex")
	}
}

func TestRefreshMoveDestinationsCapsAtFourSlots(t *testing.T) {
	board := NewBoard(20, 20)
	state := NewGameState(board, 1)
	u := newTestUnit("u1", 0, 10, 10, 6)
	state.Units = []*Unit{u}
	state.MovePool = []string{"u1"}

	refreshMoveDestinations(state)
	if len(state.PendingMovementDestinations) != 4 {
		t.Fatalf("len(PendingMovementDestinations) = %d, want 4 (ids 0-3 are the only move-destination slots the action space has)", len(state.PendingMovementDestinations))
	}
}

func TestMovementRejectsWrongOfferedUnit(t *testing.T) {
	state := buildMoveTestState()
	_, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionMove, UnitID: "not_offered"})
	if err == nil {
		t.Fatalf("expected not_offered_unit error")
	}
}

func TestMovementPhaseCompletesWhenPoolEmpty(t *testing.T) {
	state := buildMoveTestState()
	result, err := handlerFor(PhaseMove).ExecuteAction(state, Action{Kind: ActionSkip, UnitID: "p0_a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PhaseComplete {
		t.Fatalf("expected move phase to complete once the only eligible unit is spent")
	}
	if result.NextPhase != PhaseShoot {
		t.Fatalf("NextPhase = %v, want PhaseShoot", result.NextPhase)
	}
}
