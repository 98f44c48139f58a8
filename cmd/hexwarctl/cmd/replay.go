package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	hexwar40k "github.com/castellan-labs/hexwar40k"
)

var replayCmd = &cobra.Command{
	Use:   "replay <actions.json>",
	Short: "Replay a recorded action-id sequence against a fresh scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func runReplay(c *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var actions []int
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("decoding action log: %w", err)
	}

	ctx := context.Background()
	src := hexwar40k.LocalFileSource{Dir: resolvedConfigDir()}
	cfg, err := hexwar40k.LoadResolvedConfig(ctx, src, scenario, registry, rewards, "")
	if err != nil {
		return err
	}
	engine := hexwar40k.NewEngine(cfg, map[int]string{0: "agent", 1: "opponent"}, 0)
	if _, _, err := engine.Reset(ctx, seed); err != nil {
		return err
	}

	for i, action := range actions {
		_, reward, terminated, truncated, info := engine.Step(action)
		line := fmt.Sprintf("[%d] action=%d phase=%s success=%v reward=%.2f", i, action, info.Phase, info.Success, reward)
		if info.Success {
			fmt.Fprintln(c.OutOrStdout(), color.GreenString(line))
		} else {
			fmt.Fprintln(c.OutOrStdout(), color.RedString(line))
		}
		if terminated || truncated {
			fmt.Fprintf(c.OutOrStdout(), "episode ended: winner=%v\n", winnerString(info.Winner))
			break
		}
	}
	return nil
}
