package hexwar40k

import "fmt"

const opponentSafetyLimit = 500

// Bot is a scripted decision module returning a legal semantic action
// given the current state and its mask (Glossary: "Scripted bot").
type Bot interface {
	Act(state *GameState, mask ActionMask) (int, error)
}

// RandomBot picks uniformly among the legal action ids.
type RandomBot struct{ rng *Rand }

// NewRandomBot builds a uniform-random bot with its own PRNG stream,
// independent of the episode's combat-resolution PRNG so that bot
// decisions do not perturb dice-roll reproducibility.
func NewRandomBot(seed int64) *RandomBot { return &RandomBot{rng: NewRand(seed)} }

func (b *RandomBot) Act(_ *GameState, mask ActionMask) (int, error) {
	var legal []int
	for i := 0; i < 12; i++ {
		if mask[i] {
			legal = append(legal, i)
		}
	}
	if len(legal) == 0 {
		return 0, fmt.Errorf("no legal actions in mask")
	}
	return legal[b.rng.src.Intn(len(legal))], nil
}

// GreedyBot always attacks/charges/moves toward the nearest valid
// target or destination, preferring combat over movement whenever a
// target slot is legal.
type GreedyBot struct{}

func (GreedyBot) Act(state *GameState, mask ActionMask) (int, error) {
	for id := 4; id <= 8; id++ {
		if mask.Legal(id) {
			return id, nil
		}
	}
	for id := 0; id <= 3; id++ {
		if mask.Legal(id) {
			return id, nil // destination pools are already distance-ordered
		}
	}
	if mask.Legal(9) {
		return 9, nil
	}
	return 11, nil
}

// DefensiveBot ("turtle"): never initiates a charge, shoots if it can
// without exposing itself further, otherwise holds position.
type DefensiveBot struct{}

func (DefensiveBot) Act(state *GameState, mask ActionMask) (int, error) {
	if state.Phase == PhaseCharge {
		return 11, nil
	}
	for id := 4; id <= 8; id++ {
		if mask.Legal(id) {
			return id, nil
		}
	}
	if mask.Legal(11) {
		return 11, nil
	}
	for id := 0; id <= 3; id++ {
		if mask.Legal(id) {
			return id, nil
		}
	}
	return 11, nil
}

// OpponentDiagnostics tracks shoot-opportunity/shoot-taken ratios for
// both agent and bot, per spec.md §4.8.
type OpponentDiagnostics struct {
	AgentShootOpportunities, AgentShootsTaken int
	BotShootOpportunities, BotShootsTaken     int
}

// BotWrapper wraps Engine so player 0 is the learning agent; after
// each external step where control passes to player 1, it drives the
// scripted bot in a bounded synchronous loop until control returns to
// player 0 or the episode ends (spec.md §4.8, §9 "message drive, not
// async").
type BotWrapper struct {
	Engine *Engine
	Bot    Bot
	Diag   OpponentDiagnostics
}

func NewBotWrapper(engine *Engine, bot Bot) *BotWrapper {
	return &BotWrapper{Engine: engine, Bot: bot}
}

// Step advances the agent's action, then drives the bot until it is
// player 0's turn again or the episode ends, folding the bot's reward
// into the accumulator returned to the caller (bot reward is not the
// agent's reward signal but is summed for episode bookkeeping).
func (w *BotWrapper) Step(action int) ([]float64, float64, bool, bool, StepInfo, error) {
	w.trackShootOpportunity(true)
	obs, reward, terminated, truncated, info := w.Engine.Step(action)
	if info.Success && lastActionKind(info) == "shoot" {
		w.Diag.AgentShootsTaken++
	}

	iterations := 0
	for !terminated && !truncated && w.Engine.State.CurrentPlayer == 1 {
		iterations++
		if iterations > opponentSafetyLimit {
			return obs, reward, terminated, truncated, info, &OpponentFailureError{Reason: "bot loop exceeded safety limit", Turn: w.Engine.State.Turn, Phase: w.Engine.State.Phase}
		}
		mask := GetActionMask(w.Engine.State)
		w.trackShootOpportunity(false)
		botAction, err := w.Bot.Act(w.Engine.State, mask)
		if err != nil || !mask.Legal(botAction) {
			return obs, reward, terminated, truncated, info, &OpponentFailureError{Reason: "bot returned illegal action", Turn: w.Engine.State.Turn, Phase: w.Engine.State.Phase}
		}
		var botObs []float64
		var botReward float64
		botObs, botReward, terminated, truncated, info = w.Engine.Step(botAction)
		obs = botObs
		reward += botReward
		if info.Success && lastActionKind(info) == "shoot" {
			w.Diag.BotShootsTaken++
		}
	}
	return obs, reward, terminated, truncated, info, nil
}

// lastActionKind returns the Kind of the most recently logged
// activation, or "" if no action has been logged yet. Unlike
// info.Phase (which reflects the phase *after* a completed
// activation advances it), this identifies what the just-executed
// action actually was.
func lastActionKind(info StepInfo) string {
	if len(info.ActionLogs) == 0 {
		return ""
	}
	return info.ActionLogs[len(info.ActionLogs)-1].Kind
}

func (w *BotWrapper) trackShootOpportunity(agent bool) {
	if w.Engine.State.Phase != PhaseShoot {
		return
	}
	if agent {
		w.Diag.AgentShootOpportunities++
	} else {
		w.Diag.BotShootOpportunities++
	}
}

func (w *SelfPlayWrapper) trackShootOpportunity(agent bool) {
	if w.Engine.State.Phase != PhaseShoot {
		return
	}
	if agent {
		w.Diag.AgentShootOpportunities++
	} else {
		w.Diag.BotShootOpportunities++
	}
}

// FrozenPolicy is a snapshot of a learner's policy queried through
// the masked-prediction interface so it never emits illegal actions
// (spec.md §4.8).
type FrozenPolicy interface {
	PredictMasked(obs []float64, mask ActionMask) (int, error)
}

// SelfPlayWrapper is shaped identically to BotWrapper, but the
// opponent's action comes from a frozen snapshot of the learner's own
// policy, refreshed by the orchestrator every N episodes.
type SelfPlayWrapper struct {
	Engine *Engine
	Frozen FrozenPolicy
	Diag   OpponentDiagnostics
}

func NewSelfPlayWrapper(engine *Engine, frozen FrozenPolicy) *SelfPlayWrapper {
	return &SelfPlayWrapper{Engine: engine, Frozen: frozen}
}

// RefreshFrozenPolicy swaps in a new frozen snapshot; called by the
// orchestrator every N episodes, never mid-episode.
func (w *SelfPlayWrapper) RefreshFrozenPolicy(frozen FrozenPolicy) {
	w.Frozen = frozen
}

func (w *SelfPlayWrapper) Step(action int) ([]float64, float64, bool, bool, StepInfo, error) {
	w.trackShootOpportunity(true)
	obs, reward, terminated, truncated, info := w.Engine.Step(action)
	if info.Success && lastActionKind(info) == "shoot" {
		w.Diag.AgentShootsTaken++
	}

	iterations := 0
	for !terminated && !truncated && w.Engine.State.CurrentPlayer == 1 {
		iterations++
		if iterations > opponentSafetyLimit {
			return obs, reward, terminated, truncated, info, &OpponentFailureError{Reason: "self-play loop exceeded safety limit", Turn: w.Engine.State.Turn, Phase: w.Engine.State.Phase}
		}
		mask := GetActionMask(w.Engine.State)
		w.trackShootOpportunity(false)
		frozenAction, err := w.Frozen.PredictMasked(obs, mask)
		if err != nil || !mask.Legal(frozenAction) {
			return obs, reward, terminated, truncated, info, &OpponentFailureError{Reason: "frozen policy returned illegal action", Turn: w.Engine.State.Turn, Phase: w.Engine.State.Phase}
		}
		var reward2 float64
		var terminated2, truncated2 bool
		var info2 StepInfo
		obs, reward2, terminated2, truncated2, info2 = w.Engine.Step(frozenAction)
		reward += reward2
		terminated, truncated, info = terminated2, truncated2, info2
		if info.Success && lastActionKind(info) == "shoot" {
			w.Diag.BotShootsTaken++
		}
	}
	return obs, reward, terminated, truncated, info, nil
}
