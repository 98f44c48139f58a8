package hexwar40k

import (
	"context"

	"github.com/rs/zerolog"
)

// StepInfo is the info dict spec.md §4.7 requires step to return:
// winner, phase, turn, tactical accumulators, a snapshot of
// action_logs, and the compliance_data block. PoolCorruption is always
// false here: a corrupted state panics in Step before info is built.
type StepInfo struct {
	Winner          *int
	Phase           Phase
	Turn            int
	TacticalData    TacticalData
	ActionLogs      []ActionLogEntry
	Success         bool
	ErrorTag        string
	UnitsActivated  int
	PhaseEndReason  string
	PoolCorruption  bool
}

// TacticalData accumulates the shots/hits/damage counters the
// original metrics tracker kept per episode (SPEC_FULL.md §3).
type TacticalData struct {
	ShotsFired int
	ShotsHit   int
	DamageDealt int
	Kills       int
}

// Engine is the Gym-style façade (C9): the single owner of GameState,
// the only place episode_steps is incremented (invariant 4), and the
// only place termination is decided.
type Engine struct {
	State    *GameState
	Registry Registry
	Scenario *Scenario
	Rewards  RewardsConfig
	MaxTurns int

	// AgentKeys maps player index -> agent_key, used to index the
	// per-agent rewards configuration (spec.md §4.6).
	AgentKeys map[int]string

	// Log receives one LogResult line per resolved activation. Defaults
	// to a disabled logger so hot training loops stay quiet unless a
	// caller opts in via SetLogger.
	Log zerolog.Logger

	tactical TacticalData
}

// SetLogger attaches a component-scoped logger built by NewLogger.
// Without a call to SetLogger, Step logs nothing.
func (e *Engine) SetLogger(log zerolog.Logger) {
	e.Log = log
}

// NewEngine builds an engine from a resolved configuration. maxTurns
// overrides cfg.Training if non-zero.
func NewEngine(cfg *ResolvedConfig, agentKeys map[int]string, maxTurns int) *Engine {
	if maxTurns <= 0 {
		maxTurns = 20
		for _, agentCfg := range cfg.Training {
			if agentCfg.MaxTurnsPerEpisode > 0 {
				maxTurns = agentCfg.MaxTurnsPerEpisode
				break
			}
		}
	}
	return &Engine{
		Registry:  cfg.Registry,
		Scenario:  cfg.Scenario,
		Rewards:   cfg.Rewards,
		MaxTurns:  maxTurns,
		AgentKeys: agentKeys,
		Log:       zerolog.Nop(),
	}
}

// Reset reseeds the PRNG, reloads units from the scenario, clears all
// tracking sets and pools, starts the move phase, and emits the
// initial observation (spec.md §4.7).
func (e *Engine) Reset(ctx context.Context, seed int64) ([]float64, StepInfo, error) {
	board, units, err := e.Scenario.Resolve(e.Registry)
	if err != nil {
		return nil, StepInfo{}, err
	}
	state := NewGameState(board, seed)
	state.Units = units
	e.State = state
	e.tactical = TacticalData{}

	handlerFor(PhaseMove).PhaseStart(state)
	if err := state.Validate(); err != nil {
		return nil, StepInfo{}, err
	}

	obs := BuildObservation(state, e.MaxTurns)
	info := StepInfo{Winner: nil, Phase: state.Phase, Turn: state.Turn, TacticalData: e.tactical}
	return obs, info, nil
}

// Step decodes and dispatches one discrete action id, exactly per
// spec.md §4.7's six-step contract.
func (e *Engine) Step(actionID int) ([]float64, float64, bool, bool, StepInfo) {
	state := e.State

	if state.Turn >= e.MaxTurns {
		obs := BuildObservation(state, e.MaxTurns)
		winner := e.determineWinnerOnTurnLimit()
		state.GameOver = true
		state.Winner = winner
		agentPlayer := state.CurrentPlayer
		reward := CalculateReward(e.Rewards, StepRewardInput{
			AgentKey: e.AgentKeys[agentPlayer], Terminated: true, Winner: winner,
			AgentPlayer: agentPlayer, TurnLimitHit: true,
		})
		return obs, reward, true, false, e.info(true, false, true, nil)
	}

	offeredID := currentOfferedID(state)
	action, decodeErr := DecodeAction(actionID, state.Phase, offeredID)
	mask := GetActionMask(state)

	agentPlayer := state.CurrentPlayer
	agentKey := e.AgentKeys[agentPlayer]

	if decodeErr != nil || !mask.Legal(actionID) {
		reward := CalculateReward(e.Rewards, StepRewardInput{AgentKey: agentKey, ActionKind: "illegal", IllegalAction: true, AgentPlayer: agentPlayer})
		obs := BuildObservation(state, e.MaxTurns)
		info := e.info(false, false, false, nil)
		info.ErrorTag = "forbidden_in_phase"
		return obs, reward, false, false, info
	}

	redundantSkip := action.Kind == ActionSkip && mask.HasNonSkipOption()

	handler := handlerFor(state.Phase)
	result, execErr := handler.ExecuteAction(state, action)
	if execErr != nil {
		if _, ok := execErr.(*StateCorruptionError); ok {
			panic(execErr) // fatal per spec.md §7 class 3: never paper over
		}
		reward := CalculateReward(e.Rewards, StepRewardInput{AgentKey: agentKey, ActionKind: "illegal", IllegalAction: true, AgentPlayer: agentPlayer})
		obs := BuildObservation(state, e.MaxTurns)
		info := e.info(false, false, false, nil)
		if iae, ok := execErr.(*IllegalActionError); ok {
			info.ErrorTag = iae.Tag
		} else {
			info.ErrorTag = execErr.Error()
		}
		return obs, reward, false, false, info
	}

	state.EpisodeSteps++
	e.recordTactical(result)

	var target *Unit
	if result.TargetID != "" {
		target = state.UnitByID(result.TargetID)
	}

	entry := ActionLogEntry{Turn: state.Turn, Player: agentPlayer, Phase: state.Phase, UnitID: action.UnitID, Kind: result.Kind, TargetID: result.TargetID, Success: result.Success}
	state.ActionLogs = append(state.ActionLogs, entry)
	LogResult(e.Log, state, entry)

	if result.PhaseComplete {
		advancePhase(state)
	}

	if err := state.Validate(); err != nil {
		panic(err)
	}

	terminated := e.recomputeGameOver()
	reward := CalculateReward(e.Rewards, StepRewardInput{
		AgentKey: agentKey, ActionKind: baseActionKind(result.Kind), Result: result,
		AgentPlayer: agentPlayer, Unit: state.UnitByID(action.UnitID), Target: target,
		State: state, RedundantSkip: redundantSkip,
		Terminated: terminated, Winner: state.Winner,
	})
	obs := BuildObservation(state, e.MaxTurns)
	return obs, reward, terminated, false, e.info(true, result.Success, false, &result)
}

func currentOfferedID(state *GameState) string {
	switch state.Phase {
	case PhaseMove:
		return offeredUnit(state.MovePool)
	case PhaseShoot:
		return offeredUnit(state.ShootPool)
	case PhaseCharge:
		return offeredUnit(state.ChargePool)
	case PhaseFight:
		return offeredUnit(state.FightPool)
	}
	return ""
}

func (e *Engine) recordTactical(result ActionResult) {
	if result.Kind == "shoot" {
		e.tactical.ShotsFired++
		if result.Damage > 0 || result.Killed {
			e.tactical.ShotsHit++
		}
	}
	e.tactical.DamageDealt += result.Damage
	if result.Killed {
		e.tactical.Kills++
	}
}

// recomputeGameOver applies the elimination rule: the episode ends
// once one side has no living units.
func (e *Engine) recomputeGameOver() bool {
	state := e.State
	winner := determineEliminationWinner(state)
	if winner != nil {
		state.GameOver = true
		state.Winner = winner
		return true
	}
	return false
}

func determineEliminationWinner(state *GameState) *int {
	p0 := len(state.livingUnitsForPlayer(0))
	p1 := len(state.livingUnitsForPlayer(1))
	if p0 > 0 && p1 > 0 {
		return nil
	}
	var w int
	switch {
	case p0 == 0 && p1 == 0:
		w = -1
	case p0 == 0:
		w = 1
	default:
		w = 0
	}
	return &w
}

func (e *Engine) determineWinnerOnTurnLimit() *int {
	state := e.State
	p0 := len(state.livingUnitsForPlayer(0))
	p1 := len(state.livingUnitsForPlayer(1))
	w := -1
	switch {
	case p0 > p1:
		w = 0
	case p1 > p0:
		w = 1
	}
	return &w
}

func (e *Engine) info(success, phaseAdvanced, turnLimit bool, result *ActionResult) StepInfo {
	state := e.State
	reason := "eligible_units_empty"
	if turnLimit {
		reason = "turn_limit"
	}
	return StepInfo{
		Winner:       state.Winner,
		Phase:        state.Phase,
		Turn:         state.Turn,
		TacticalData: e.tactical,
		ActionLogs:   state.ActionLogs,
		Success:      success,
		UnitsActivated: boolToInt(success && result != nil),
		PhaseEndReason: reason,
		PoolCorruption: false,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
