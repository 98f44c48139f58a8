package hexwar40k

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// unmarshalJSONOrConfigError is the shared decode-or-fail-fast helper
// every loader in this file uses: configuration documents never
// partially load (spec.md §7 class 1, "fail fast at load, never
// recoverable at runtime").
func unmarshalJSONOrConfigError[T any](data []byte, what string) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &ConfigError{Reason: fmt.Sprintf("%s: invalid JSON: %v", what, err)}
	}
	return out, nil
}

// PhaseOverride holds per-phase knobs a training config may set for
// one agent (e.g. a tighter max_steps_per_turn during charge to bound
// exploration).
type PhaseOverride struct {
	MaxStepsPerTurn int `json:"max_steps_per_turn"`
}

// AgentTrainingConfig is the per-agent block of the training
// configuration (spec.md §6).
type AgentTrainingConfig struct {
	MaxTurnsPerEpisode int                      `json:"max_turns_per_episode"`
	MaxStepsPerTurn    int                      `json:"max_steps_per_turn"`
	NEnvs              int                      `json:"n_envs"`
	PhaseOverrides     map[string]PhaseOverride `json:"phase_overrides"`
	EvalEpisodes       int                      `json:"eval_episodes"`
	EvalEveryNEpisodes int                      `json:"eval_every_n_episodes"`
}

// TrainingConfig maps agent_key -> AgentTrainingConfig.
type TrainingConfig map[string]AgentTrainingConfig

// LoadTrainingConfig parses a training configuration document.
func LoadTrainingConfig(data []byte) (TrainingConfig, error) {
	return unmarshalJSONOrConfigError[TrainingConfig](data, "training configuration")
}

// DocumentSource resolves named configuration documents (scenario,
// registry, rewards, training config) to bytes. Concurrency §5 treats
// these as read-only snapshots loaded once and shared by reference
// across workers; DocumentSource is what performs that one load.
type DocumentSource interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// LocalFileSource reads documents from a directory on disk.
type LocalFileSource struct {
	Dir string
}

func (s LocalFileSource) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Dir + "/" + name)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("reading %s: %v", name, err)}
	}
	return data, nil
}

// S3Source reads documents from an S3 bucket, for deployments that
// keep scenarios/registries/rewards configs in object storage rather
// than on the worker's local disk (grounded on the teacher's
// aws-sdk-go-v2 dependency, which this repo's prior rendering/backend
// code no longer uses now that that code is gone).
type S3Source struct {
	Bucket string
	Prefix string
	client *s3.Client
}

// NewS3Source loads default AWS credentials/region from the
// environment and constructs a ready-to-use S3Source.
func NewS3Source(ctx context.Context, bucket, prefix string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("loading AWS config: %v", err)}
	}
	return &S3Source{Bucket: bucket, Prefix: strings.TrimSuffix(prefix, "/"), client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Source) Load(ctx context.Context, name string) ([]byte, error) {
	key := name
	if s.Prefix != "" {
		key = s.Prefix + "/" + name
	}
	downloader := manager.NewDownloader(s.client)
	buf := manager.NewWriteAtBuffer(nil)
	_, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("s3://%s/%s: %v", s.Bucket, key, err)}
	}
	return buf.Bytes(), nil
}

// ResolvedConfig is the full, validated snapshot a worker needs to
// run episodes: the parsed scenario, the unit registry, and the
// rewards configuration. It is built once per scenario/registry/
// rewards triple and shared read-only across vectorised workers.
type ResolvedConfig struct {
	Scenario *Scenario
	Registry Registry
	Rewards  RewardsConfig
	Training TrainingConfig
}

// LoadResolvedConfig loads and validates the scenario, registry and
// rewards documents from src, and the training document only when
// trainingName is non-empty (otherwise Training is the zero value).
func LoadResolvedConfig(ctx context.Context, src DocumentSource, scenarioName, registryName, rewardsName, trainingName string) (*ResolvedConfig, error) {
	scenarioData, err := src.Load(ctx, scenarioName)
	if err != nil {
		return nil, err
	}
	scenario, err := LoadScenario(scenarioData)
	if err != nil {
		return nil, err
	}

	registryData, err := src.Load(ctx, registryName)
	if err != nil {
		return nil, err
	}
	registry, err := LoadRegistry(registryData)
	if err != nil {
		return nil, err
	}

	rewardsData, err := src.Load(ctx, rewardsName)
	if err != nil {
		return nil, err
	}
	rewards, err := LoadRewardsConfig(rewardsData)
	if err != nil {
		return nil, err
	}

	var training TrainingConfig
	if trainingName != "" {
		trainingData, err := src.Load(ctx, trainingName)
		if err != nil {
			return nil, err
		}
		training, err = LoadTrainingConfig(trainingData)
		if err != nil {
			return nil, err
		}
	}

	return &ResolvedConfig{Scenario: scenario, Registry: registry, Rewards: rewards, Training: training}, nil
}
