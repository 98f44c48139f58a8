package hexwar40k

import "fmt"

// ConfigError is raised for missing stats, unknown unit types, or
// invalid reward keys: always at load time, never recoverable at
// runtime (spec.md §7 class 1).
type ConfigError struct {
	Reason string
	Tag    string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// IllegalActionError marks an action the mask forbade. The façade
// converts it into a (success=false, error=tag) result and a small
// negative reward; it never counts toward episode_steps and the
// episode continues (spec.md §7 class 2).
type IllegalActionError struct {
	Tag    string
	UnitID string
	Phase  Phase
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %q for unit %s in phase %s", e.Tag, e.UnitID, e.Phase)
}

// StateCorruptionError is fatal: a tracking set held a duplicate, a
// unit stood on a wall, or some other invariant broke. The engine
// must refuse to continue rather than paper over it (spec.md §7
// class 3).
type StateCorruptionError struct {
	Reason string
}

func (e *StateCorruptionError) Error() string { return "state corruption: " + e.Reason }

// OpponentFailureError marks a scripted bot or frozen policy
// returning an illegal action, or raising outright. Fatal for the
// episode; the orchestrator aborts and logs scenario/turn/phase
// context (spec.md §7 class 4).
type OpponentFailureError struct {
	Reason string
	Turn   int
	Phase  Phase
}

func (e *OpponentFailureError) Error() string {
	return fmt.Sprintf("opponent failure at turn %d phase %s: %s", e.Turn, e.Phase, e.Reason)
}
