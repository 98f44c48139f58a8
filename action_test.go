package hexwar40k

import "testing"

func TestDecodeActionSkipAlwaysLegalShape(t *testing.T) {
	for _, phase := range []Phase{PhaseMove, PhaseShoot, PhaseCharge, PhaseFight} {
		action, err := DecodeAction(11, phase, "u1")
		if err != nil {
			t.Fatalf("phase %s: unexpected error: %v", phase, err)
		}
		if action.Kind != ActionSkip {
			t.Errorf("phase %s: kind = %v, want ActionSkip", phase, action.Kind)
		}
	}
}

func TestDecodeActionOutOfRange(t *testing.T) {
	if _, err := DecodeAction(12, PhaseMove, "u1"); err == nil {
		t.Fatalf("expected error for out-of-range action id")
	}
	if _, err := DecodeAction(-1, PhaseMove, "u1"); err == nil {
		t.Fatalf("expected error for negative action id")
	}
}

func TestDecodeActionMoveIds(t *testing.T) {
	for id := 0; id <= 3; id++ {
		action, err := DecodeAction(id, PhaseMove, "u1")
		if err != nil {
			t.Fatalf("id %d: unexpected error: %v", id, err)
		}
		if action.Kind != ActionMove || action.DestIndex != id {
			t.Errorf("id %d: got %+v", id, action)
		}
	}
}

func TestDecodeActionShootIds(t *testing.T) {
	for id := 4; id <= 8; id++ {
		action, err := DecodeAction(id, PhaseShoot, "u1")
		if err != nil {
			t.Fatalf("id %d: unexpected error: %v", id, err)
		}
		if action.Kind != ActionShoot || action.TargetIndex != id-4 {
			t.Errorf("id %d: got %+v", id, action)
		}
	}
}

func TestDecodeActionForbiddenInPhase(t *testing.T) {
	// A shoot-range id decoded during the move phase is forbidden.
	if _, err := DecodeAction(4, PhaseMove, "u1"); err == nil {
		t.Fatalf("expected forbidden_in_phase error")
	}
}

func TestDecodeActionChargeRollID(t *testing.T) {
	action, err := DecodeAction(9, PhaseCharge, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != ActionCharge || action.DestIndex != -1 {
		t.Fatalf("expected roll/confirm charge action, got %+v", action)
	}
}

func TestDecodeSemanticActionMoveResolvesIndex(t *testing.T) {
	state := NewGameState(NewBoard(10, 10), 1)
	state.PendingMovementDestinations = []Hex{{Col: 1, Row: 1}, {Col: 2, Row: 2}}
	action, err := DecodeSemanticAction(state, ActionMove, "u1", 2, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.DestIndex != 1 {
		t.Fatalf("DestIndex = %d, want 1", action.DestIndex)
	}
}

func TestDecodeSemanticActionUnknownDestination(t *testing.T) {
	state := NewGameState(NewBoard(10, 10), 1)
	state.PendingMovementDestinations = []Hex{{Col: 1, Row: 1}}
	_, err := DecodeSemanticAction(state, ActionMove, "u1", 9, 9, "")
	if err == nil {
		t.Fatalf("expected destination_not_pending error")
	}
}

func TestDecodeSemanticActionChargeBeforeRollReturnsRollConfirm(t *testing.T) {
	state := NewGameState(NewBoard(10, 10), 1)
	state.ChargeRollValues = map[string]int{}
	action, err := DecodeSemanticAction(state, ActionCharge, "u1", 0, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Kind != ActionCharge || action.DestIndex != -1 {
		t.Fatalf("expected roll/confirm charge action, got %+v", action)
	}
}

func TestDecodeSemanticActionChargeAfterRollResolvesIndex(t *testing.T) {
	state := NewGameState(NewBoard(10, 10), 1)
	state.ChargeRollValues = map[string]int{"u1": 7}
	state.ValidMoveDestinationsPool = []Hex{{Col: 1, Row: 1}, {Col: 2, Row: 2}}
	action, err := DecodeSemanticAction(state, ActionCharge, "u1", 2, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.DestIndex != 1 {
		t.Fatalf("DestIndex = %d, want 1", action.DestIndex)
	}
}

func TestDecodeSemanticActionShootResolvesTarget(t *testing.T) {
	state := NewGameState(NewBoard(10, 10), 1)
	state.ShootTargetPool = []string{"a", "b", "c"}
	action, err := DecodeSemanticAction(state, ActionShoot, "u1", 0, 0, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.TargetIndex != 1 {
		t.Fatalf("TargetIndex = %d, want 1", action.TargetIndex)
	}
}
