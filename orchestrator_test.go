package hexwar40k

import (
	"context"
	"testing"
)

func firstLegalPolicy(_ []float64, mask ActionMask) (int, error) {
	for id := 0; id < 12; id++ {
		if mask.Legal(id) {
			return id, nil
		}
	}
	return 11, nil
}

func TestRunEpisodeCompletesWithoutError(t *testing.T) {
	cfg := loadTestConfig(t, "phase1-open.json")
	engine := NewEngine(cfg, map[int]string{0: "agent", 1: "bot"}, 3)
	wrapper := NewBotWrapper(engine, GreedyBot{})

	result, err := RunEpisode(context.Background(), wrapper, engine, 1, firstLegalPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Turns < 1 {
		t.Fatalf("expected at least one turn to have elapsed, got %d", result.Turns)
	}
}

func TestRunVectorizedRunsIndependentEpisodes(t *testing.T) {
	cfg := loadTestConfig(t, "phase1-open.json")
	n := 4
	results, err := RunVectorized(context.Background(), n, func(workerIdx int) (interface {
		Step(action int) ([]float64, float64, bool, bool, StepInfo, error)
	}, *Engine) {
		engine := NewEngine(cfg, map[int]string{0: "agent", 1: "bot"}, 2)
		return NewBotWrapper(engine, GreedyBot{}), engine
	}, func(workerIdx int) int64 { return int64(workerIdx) }, firstLegalPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != n {
		t.Fatalf("len(results) = %d, want %d", len(results), n)
	}
}

func TestRunVectorizedDistinctSeedsProduceDistinctEpisodes(t *testing.T) {
	cfg := loadTestConfig(t, "phase1-open.json")
	n := 6
	newWrapper := func(workerIdx int) (interface {
		Step(action int) ([]float64, float64, bool, bool, StepInfo, error)
	}, *Engine) {
		engine := NewEngine(cfg, map[int]string{0: "agent", 1: "bot"}, 2)
		return NewBotWrapper(engine, GreedyBot{}), engine
	}
	results, err := RunVectorized(context.Background(), n, newWrapper, func(workerIdx int) int64 { return int64(workerIdx) }, firstLegalPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sameSteps := true
	for _, r := range results[1:] {
		if r.Steps != results[0].Steps {
			sameSteps = false
		}
	}
	if sameSteps {
		t.Fatalf("expected distinct seeds to drive distinct episode lengths, got identical Steps across all %d workers", n)
	}
}

func TestRunBotEvaluationSweepAggregatesPerBot(t *testing.T) {
	cfg := loadTestConfig(t, "phase1-open.json")
	sc, err := LoadScenario(mustReadFixture(t, "phase1-open.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bots := map[string]Bot{"greedy": GreedyBot{}, "defensive": DefensiveBot{}}
	sweep := RunBotEvaluationSweep(context.Background(), cfg, []*Scenario{sc}, bots, 1, firstLegalPolicy)
	if len(sweep) != 2 {
		t.Fatalf("expected a result entry per bot, got %d", len(sweep))
	}
	for name, result := range sweep {
		if result.Failed {
			t.Fatalf("bot %q sweep unexpectedly failed: %s", name, result.Reason)
		}
		if len(result.Episodes) != 1 {
			t.Fatalf("bot %q: expected one episode per scenario, got %d", name, len(result.Episodes))
		}
	}
}

func mustReadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := (LocalFileSource{Dir: "testdata"}).Load(context.Background(), name)
	if err != nil {
		t.Fatalf("reading fixture %q: %v", name, err)
	}
	return data
}
