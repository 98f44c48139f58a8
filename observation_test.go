package hexwar40k

import "testing"

func TestBuildObservationFixedSize(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	u := newTestUnit("u1", 0, 2, 2, 6)
	state.Units = []*Unit{u}
	handlerFor(PhaseMove).PhaseStart(state)

	obs := BuildObservation(state, 20)
	if len(obs) != ObservationSize {
		t.Fatalf("len(obs) = %d, want %d", len(obs), ObservationSize)
	}
}

func TestBuildObservationValuesClampedToUnitInterval(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	u := newTestUnit("u1", 0, 2, 2, 6)
	state.Units = []*Unit{u}
	handlerFor(PhaseMove).PhaseStart(state)

	obs := BuildObservation(state, 20)
	for i, v := range obs {
		if v < 0 || v > 1 {
			t.Fatalf("obs[%d] = %v, outside [0,1]", i, v)
		}
	}
}

func TestBuildObservationEmptyBoardDoesNotPanic(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	handlerFor(PhaseMove).PhaseStart(state)

	obs := BuildObservation(state, 20)
	if len(obs) != ObservationSize {
		t.Fatalf("len(obs) = %d, want %d", len(obs), ObservationSize)
	}
}

func TestBuildObservationPhaseOneHotBlock(t *testing.T) {
	board := NewBoard(10, 10)
	state := NewGameState(board, 1)
	u := newTestUnit("u1", 0, 2, 2, 6)
	state.Units = []*Unit{u}
	handlerFor(PhaseMove).PhaseStart(state)

	obs := BuildObservation(state, 20)
	// the four phase flags are the first four floats.
	onCount := 0
	for i := 0; i < 4; i++ {
		if obs[i] == 1 {
			onCount++
		}
	}
	if onCount != 1 {
		t.Fatalf("expected exactly one phase flag set, got %d", onCount)
	}
	if obs[0] != 1 {
		t.Fatalf("expected move-phase flag (index 0) set, got obs[0]=%v", obs[0])
	}
}
