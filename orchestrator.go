package hexwar40k

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// EpisodeResult summarises one completed episode for evaluation and
// metrics purposes.
type EpisodeResult struct {
	Winner   *int
	Turns    int
	Steps    int
	Tactical TacticalData
}

// RunEpisode drives wrapper to completion using agentPolicy to pick
// player 0's actions, returning the episode summary. It never copies
// wrapper.Engine.State (spec.md §9 "single GameState"): it only
// issues further Step calls.
func RunEpisode(ctx context.Context, wrapper interface {
	Step(action int) ([]float64, float64, bool, bool, StepInfo, error)
}, engine *Engine, seed int64, agentPolicy func(obs []float64, mask ActionMask) (int, error)) (EpisodeResult, error) {
	obs, _, err := engine.Reset(ctx, seed)
	if err != nil {
		return EpisodeResult{}, err
	}
	for {
		mask := GetActionMask(engine.State)
		action, err := agentPolicy(obs, mask)
		if err != nil {
			return EpisodeResult{}, fmt.Errorf("agent policy failed: %w", err)
		}
		var terminated, truncated bool
		var info StepInfo
		obs, _, terminated, truncated, info, err = wrapper.Step(action)
		if err != nil {
			return EpisodeResult{}, err
		}
		if terminated || truncated {
			return EpisodeResult{Winner: info.Winner, Turns: engine.State.Turn, Steps: engine.State.EpisodeSteps, Tactical: info.TacticalData}, nil
		}
	}
}

// RunVectorized runs n independent episodes concurrently, each with
// its own Engine/GameState/PRNG (spec.md §5: "no shared mutable state
// between workers"). newWrapper must construct a fresh engine/wrapper
// pair per call since GameState is never shared.
func RunVectorized(ctx context.Context, n int, newWrapper func(workerIdx int) (interface {
	Step(action int) ([]float64, float64, bool, bool, StepInfo, error)
}, *Engine), seedFunc func(workerIdx int) int64, agentPolicy func(obs []float64, mask ActionMask) (int, error)) ([]EpisodeResult, error) {
	results := make([]EpisodeResult, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			wrapper, engine := newWrapper(i)
			res, err := RunEpisode(gctx, wrapper, engine, seedFunc(i), agentPolicy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BotSweepResult is the outcome of running an agent against one bot
// variant over a fixed scenario set.
type BotSweepResult struct {
	BotName  string
	Episodes []EpisodeResult
	Failed   bool
	Reason   string
}

// EvaluationRow is the persisted form of a BotSweepResult, stored via
// gorm for later comparison across training runs.
type EvaluationRow struct {
	gorm.Model
	RunID       string
	BotName     string
	Wins        int
	Losses      int
	Draws       int
	EpisodeCount int
	Failed      bool
}

// RunBotEvaluationSweep runs the agent against every bot in bots over
// scenarios, refusing to report a combined score if any single
// episode fails — spec.md §7: "Evaluation code must not silently
// degrade: if any episode in a bot-evaluation sweep fails, the
// combined metric is refused and the sweep is reported as failed."
func RunBotEvaluationSweep(ctx context.Context, cfg *ResolvedConfig, scenarios []*Scenario, bots map[string]Bot, seed int64, agentPolicy func(obs []float64, mask ActionMask) (int, error)) map[string]BotSweepResult {
	out := make(map[string]BotSweepResult, len(bots))
	for name, bot := range bots {
		result := BotSweepResult{BotName: name}
		for i, sc := range scenarios {
			engineCfg := *cfg
			engineCfg.Scenario = sc
			engine := NewEngine(&engineCfg, map[int]string{0: "agent", 1: "bot"}, 0)
			wrapper := NewBotWrapper(engine, bot)
			res, err := RunEpisode(ctx, wrapper, engine, seed+int64(i), agentPolicy)
			if err != nil {
				result.Failed = true
				result.Reason = err.Error()
				break
			}
			result.Episodes = append(result.Episodes, res)
		}
		out[name] = result
	}
	return out
}

// PersistEvaluation writes a sweep's summary rows via gorm. It
// checks every bot's result first and writes nothing at all if any of
// them failed, matching the
// "refused" combined-metric rule above.
func PersistEvaluation(db *gorm.DB, runID string, sweep map[string]BotSweepResult) error {
	for name, result := range sweep {
		if result.Failed {
			return fmt.Errorf("bot evaluation sweep failed for %q: %s", name, result.Reason)
		}
	}
	for name, result := range sweep {
		row := EvaluationRow{RunID: runID, BotName: name, EpisodeCount: len(result.Episodes)}
		for _, ep := range result.Episodes {
			switch {
			case ep.Winner == nil:
			case *ep.Winner == -1:
				row.Draws++
			case *ep.Winner == 0:
				row.Wins++
			default:
				row.Losses++
			}
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("persisting evaluation row for %q: %w", name, err)
		}
	}
	return nil
}
