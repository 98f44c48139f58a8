package hexwar40k

// ActionKind discriminates the closed Action sum type (spec.md §9
// "dynamic typing -> tagged variants": both the discrete id form and
// the UI dict form decode into this before any phase handler sees
// them).
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionShoot
	ActionCharge
	ActionFight
	ActionSkip
)

// Action is the decoded, phase-agnostic intent a handler executes.
// Exactly one of DestIndex/TargetIndex is meaningful, depending on
// Kind; UnitID is always the head of the current activation pool.
type Action struct {
	Kind        ActionKind
	UnitID      string
	DestIndex   int // index into a destinations pool (move/charge)
	TargetIndex int // index into a targets pool (shoot/fight)
}

// DecodeAction maps a raw Discrete(12) id to an Action for the given
// phase and offered unit, per the table in spec.md §4.4. Callers must
// still check the mask before executing; DecodeAction only performs
// the syntactic mapping.
func DecodeAction(id int, phase Phase, offeredUnitID string) (Action, error) {
	if id < 0 || id > 11 {
		return Action{}, &IllegalActionError{Tag: "action_id_out_of_range", UnitID: offeredUnitID, Phase: phase}
	}
	if id == 11 {
		return Action{Kind: ActionSkip, UnitID: offeredUnitID}, nil
	}
	switch phase {
	case PhaseMove:
		if id >= 0 && id <= 3 {
			return Action{Kind: ActionMove, UnitID: offeredUnitID, DestIndex: id}, nil
		}
	case PhaseShoot:
		if id >= 4 && id <= 8 {
			return Action{Kind: ActionShoot, UnitID: offeredUnitID, TargetIndex: id - 4}, nil
		}
	case PhaseCharge:
		if id >= 0 && id <= 3 {
			return Action{Kind: ActionCharge, UnitID: offeredUnitID, DestIndex: id}, nil
		}
		if id == 9 {
			return Action{Kind: ActionCharge, UnitID: offeredUnitID, DestIndex: -1}, nil // roll/confirm
		}
	case PhaseFight:
		if id >= 4 && id <= 8 {
			return Action{Kind: ActionFight, UnitID: offeredUnitID, TargetIndex: id - 4}, nil
		}
	}
	return Action{}, &IllegalActionError{Tag: "forbidden_in_phase", UnitID: offeredUnitID, Phase: phase}
}

// ParseActionKind maps the lowercase action-kind names used in the
// HTTP API's semantic dict form and in ActionResult.Kind to an
// ActionKind, for callers that only have the string.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "move":
		return ActionMove, true
	case "shoot":
		return ActionShoot, true
	case "charge":
		return ActionCharge, true
	case "fight":
		return ActionFight, true
	case "skip":
		return ActionSkip, true
	}
	return 0, false
}

// EncodeAction is the inverse of DecodeAction's table: it maps a
// decoded Action back to the raw Discrete(12) id so a semantic action
// (spec.md §6 HTTP API dict form) can be dispatched through the same
// Engine.Step(id) path the discrete form uses.
func EncodeAction(a Action) int {
	switch a.Kind {
	case ActionSkip:
		return 11
	case ActionMove:
		return a.DestIndex
	case ActionShoot:
		return a.TargetIndex + 4
	case ActionCharge:
		if a.DestIndex == -1 {
			return 9
		}
		return a.DestIndex
	case ActionFight:
		return a.TargetIndex + 4
	}
	return -1
}

// DecodeSemanticAction builds an Action from the UI's dict form
// (spec.md §6 HTTP API), resolving destCol/destRow or targetId
// against the currently pending pools instead of a raw index, then
// converting to the same index-based Action the discrete path uses.
func DecodeSemanticAction(state *GameState, kind ActionKind, unitID string, destCol, destRow int, targetID string) (Action, error) {
	switch kind {
	case ActionSkip:
		return Action{Kind: ActionSkip, UnitID: unitID}, nil
	case ActionCharge:
		if _, rolled := state.ChargeRollValues[unitID]; !rolled {
			return Action{Kind: ActionCharge, UnitID: unitID, DestIndex: -1}, nil // roll/confirm
		}
		dest := Hex{Col: destCol, Row: destRow}
		for i, h := range state.ValidMoveDestinationsPool {
			if h == dest {
				return Action{Kind: ActionCharge, UnitID: unitID, DestIndex: i}, nil
			}
		}
		return Action{}, &IllegalActionError{Tag: "destination_not_pending", UnitID: unitID, Phase: state.Phase}
	case ActionMove:
		dest := Hex{Col: destCol, Row: destRow}
		for i, h := range state.PendingMovementDestinations {
			if h == dest {
				return Action{Kind: kind, UnitID: unitID, DestIndex: i}, nil
			}
		}
		return Action{}, &IllegalActionError{Tag: "destination_not_pending", UnitID: unitID, Phase: state.Phase}
	case ActionShoot, ActionFight:
		pool := state.ShootTargetPool
		if kind == ActionFight {
			pool = state.FightTargetPool
		}
		for i, id := range pool {
			if id == targetID {
				return Action{Kind: kind, UnitID: unitID, TargetIndex: i}, nil
			}
		}
		return Action{}, &IllegalActionError{Tag: "target_not_pending", UnitID: unitID, Phase: state.Phase}
	}
	return Action{}, &IllegalActionError{Tag: "unknown_action_kind", UnitID: unitID, Phase: state.Phase}
}
