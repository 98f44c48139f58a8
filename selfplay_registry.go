package hexwar40k

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// SelfPlayRegistry tracks which frozen-policy snapshot id each
// training run's workers should currently load, and merges the
// per-worker OpponentDiagnostics counters out-of-band (spec.md §5:
// "Logs and metric counters are per-worker and merged by the
// orchestrator out-of-band"). The actual policy weights are opaque to
// this engine (the NN algorithm is out of scope); only the snapshot
// id and refresh cadence live here.
type SelfPlayRegistry struct {
	client *redis.Client
	runID  string
}

// NewSelfPlayRegistry connects to addr for the given training run id.
func NewSelfPlayRegistry(addr, runID string) *SelfPlayRegistry {
	return &SelfPlayRegistry{client: redis.NewClient(&redis.Options{Addr: addr}), runID: runID}
}

func (r *SelfPlayRegistry) snapshotKey() string    { return "hexwar40k:" + r.runID + ":frozen_snapshot" }
func (r *SelfPlayRegistry) diagKeyShots(side string) string {
	return "hexwar40k:" + r.runID + ":diag:" + side + ":shots"
}

// PublishSnapshot records the current frozen-policy snapshot id,
// called by the orchestrator every N episodes.
func (r *SelfPlayRegistry) PublishSnapshot(ctx context.Context, snapshotID int) error {
	return r.client.Set(ctx, r.snapshotKey(), snapshotID, 0).Err()
}

// CurrentSnapshot returns the active snapshot id, or 0 if none has
// been published yet.
func (r *SelfPlayRegistry) CurrentSnapshot(ctx context.Context) (int, error) {
	val, err := r.client.Get(ctx, r.snapshotKey()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// MergeDiagnostics atomically adds one worker's OpponentDiagnostics
// into the run-wide counters.
func (r *SelfPlayRegistry) MergeDiagnostics(ctx context.Context, diag OpponentDiagnostics) error {
	pipe := r.client.TxPipeline()
	pipe.IncrBy(ctx, r.diagKeyShots("agent_opportunities"), int64(diag.AgentShootOpportunities))
	pipe.IncrBy(ctx, r.diagKeyShots("agent_taken"), int64(diag.AgentShootsTaken))
	pipe.IncrBy(ctx, r.diagKeyShots("bot_opportunities"), int64(diag.BotShootOpportunities))
	pipe.IncrBy(ctx, r.diagKeyShots("bot_taken"), int64(diag.BotShootsTaken))
	_, err := pipe.Exec(ctx)
	return err
}
