package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	hexwar40k "github.com/castellan-labs/hexwar40k"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one episode against a scripted bot and print the result",
	RunE:  runRun,
}

func runRun(c *cobra.Command, args []string) error {
	ctx := context.Background()
	src := hexwar40k.LocalFileSource{Dir: resolvedConfigDir()}
	cfg, err := hexwar40k.LoadResolvedConfig(ctx, src, scenario, registry, rewards, "")
	if err != nil {
		return err
	}

	engine := hexwar40k.NewEngine(cfg, map[int]string{0: "agent", 1: "bot"}, 0)
	wrapper := hexwar40k.NewBotWrapper(engine, hexwar40k.GreedyBot{})

	result, err := hexwar40k.RunEpisode(ctx, wrapper, engine, seed, func(obs []float64, mask hexwar40k.ActionMask) (int, error) {
		for id := 0; id < 12; id++ {
			if mask.Legal(id) {
				return id, nil
			}
		}
		return 11, nil
	})
	if err != nil {
		return err
	}

	if isJSONOutput() {
		enc := json.NewEncoder(c.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(c.OutOrStdout(), "turns=%d steps=%d winner=%v kills=%d damage=%d\n",
		result.Turns, result.Steps, winnerString(result.Winner), result.Tactical.Kills, result.Tactical.DamageDealt)
	return nil
}

func winnerString(w *int) string {
	if w == nil {
		return "undecided"
	}
	switch *w {
	case -1:
		return "draw"
	default:
		return fmt.Sprintf("player %d", *w)
	}
}
