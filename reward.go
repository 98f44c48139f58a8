package hexwar40k

// AgentRewards holds every scalar spec.md §4.6/§6 groups under one
// agent_key: base per-action rewards, result bonuses, tactical
// shaping, situational modifiers and penalties. Keyed by agent
// identity rather than unit type so two agents piloting the same
// archetype can be shaped differently.
type AgentRewards struct {
	BaseActions map[string]float64 `json:"base_actions"`

	ResultBonuses struct {
		DamageDealt      float64 `json:"damage_dealt"`
		Kill             float64 `json:"kill"`
		NoOverkillKill   float64 `json:"no_overkill_kill"`
		LowestHPKill     float64 `json:"lowest_hp_kill"`
		ObjectiveGained  float64 `json:"objective_gained"`
	} `json:"result_bonuses"`

	TacticalBonuses struct {
		RangedOptimalRange float64 `json:"ranged_optimal_range"`
		MeleeClosing       float64 `json:"melee_closing"`
	} `json:"tactical_bonuses"`

	SituationalModifiers struct {
		Win             float64 `json:"win"`
		Lose            float64 `json:"lose"`
		Draw            float64 `json:"draw"`
		TurnLimitPenalty float64 `json:"turn_limit_penalty"`
	} `json:"situational_modifiers"`

	Penalties struct {
		IllegalAction float64 `json:"illegal_action"`
		RedundantSkip float64 `json:"redundant_skip"`
	} `json:"penalties"`
}

// RewardsConfig maps agent_key -> AgentRewards (spec.md §6).
type RewardsConfig map[string]AgentRewards

// LoadRewardsConfig parses a rewards configuration document.
func LoadRewardsConfig(data []byte) (RewardsConfig, error) {
	cfg, err := unmarshalJSONOrConfigError[RewardsConfig](data, "rewards configuration")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// StepRewardInput bundles everything CalculateReward needs about one
// resolved (or rejected) activation.
type StepRewardInput struct {
	AgentKey      string
	ActionKind    string // "move", "shoot", "skip", etc — indexes BaseActions
	Result        ActionResult
	IllegalAction bool
	RedundantSkip bool
	Terminated    bool
	Winner        *int
	AgentPlayer   int
	TurnLimitHit  bool
	Unit          *Unit
	Target        *Unit
	State         *GameState
}

// baseActionKind maps an ActionResult.Kind (which carries per-phase
// detail useful for logging, e.g. "shoot_skip"/"charge_roll") down to
// the handful of keys a rewards document's base_actions actually
// indexes by: move/shoot/charge/fight/skip.
func baseActionKind(kind string) string {
	switch kind {
	case "move_skip", "shoot_skip", "charge_skip", "fight_skip":
		return "skip"
	case "charge_roll":
		return "charge"
	default:
		return kind
	}
}

// CalculateReward sums spec.md §4.6's five reward components.
func CalculateReward(cfg RewardsConfig, in StepRewardInput) float64 {
	agent, ok := cfg[in.AgentKey]
	if !ok {
		return 0
	}
	var total float64

	total += agent.BaseActions[in.ActionKind]

	if in.Result.Success {
		total += agent.ResultBonuses.DamageDealt * float64(in.Result.Damage)
		if in.Result.Killed {
			total += agent.ResultBonuses.Kill
			if in.Target != nil && in.Result.Damage <= in.Result.TargetHPBefore {
				total += agent.ResultBonuses.NoOverkillKill
			}
			if in.Target != nil && isLowestHPAmongEnemies(in) {
				total += agent.ResultBonuses.LowestHPKill
			}
		}
		if in.Result.ObjectiveGain {
			total += agent.ResultBonuses.ObjectiveGained
		}
		total += tacticalBonus(agent, in)
	}

	if in.Terminated {
		switch {
		case in.Winner == nil:
		case *in.Winner == -1:
			total += agent.SituationalModifiers.Draw
		case *in.Winner == in.AgentPlayer:
			total += agent.SituationalModifiers.Win
		default:
			total += agent.SituationalModifiers.Lose
		}
		if in.TurnLimitHit {
			total += agent.SituationalModifiers.TurnLimitPenalty
		}
	}

	if in.IllegalAction {
		total += agent.Penalties.IllegalAction
	}
	if in.RedundantSkip {
		total += agent.Penalties.RedundantSkip
	}

	return total
}

// isLowestHPAmongEnemies reports whether the just-killed target held
// the lowest HP_CUR among every enemy alive immediately before the
// killing blow landed. Only the target's own HP changed this step, so
// comparing its pre-hit HP against the other enemies' current HP is
// equivalent to comparing all of them pre-hit.
func isLowestHPAmongEnemies(in StepRewardInput) bool {
	if in.Target == nil || in.State == nil {
		return false
	}
	for _, e := range in.State.livingUnitsForPlayer(in.Target.Player) {
		if e.ID == in.Target.ID {
			continue
		}
		if e.HPCur < in.Result.TargetHPBefore {
			return false
		}
	}
	return true
}

func tacticalBonus(agent AgentRewards, in StepRewardInput) float64 {
	if in.Unit == nil {
		return 0
	}
	switch in.Result.Kind {
	case "shoot":
		if in.Target == nil {
			return 0
		}
		dist := Distance(in.Unit.Hex(), in.Target.Hex())
		optimal := in.Unit.Stats.RngRng / 2
		if optimal > 0 && dist <= optimal {
			return agent.TacticalBonuses.RangedOptimalRange
		}
	case "move":
		// Move actions never carry a Target (movement.go has nothing to
		// point at), so this rewards an actual close, not merely ending
		// up within MOVE of an enemy regardless of direction travelled.
		if in.Result.ClosedDistance {
			return agent.TacticalBonuses.MeleeClosing
		}
	}
	return 0
}
