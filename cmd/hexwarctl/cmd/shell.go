package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	hexwar40k "github.com/castellan-labs/hexwar40k"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive step-by-step shell against a fresh episode",
	RunE:  runShell,
}

func runShell(c *cobra.Command, args []string) error {
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

	rl, err := readline.New(color.CyanString("hexwar> "))
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), "enter an action id 0-11, \"mask\" to show legal ids, or \"quit\"")
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "mask":
			mask := hexwar40k.GetActionMask(engine.State)
			fmt.Fprintf(rl.Stdout(), "phase=%s legal=%v\n", engine.State.Phase, mask)
			continue
		}

		actionID, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), color.YellowString("not a number: %v", err))
			continue
		}
		_, reward, terminated, truncated, info := engine.Step(actionID)
		fmt.Fprintf(rl.Stdout(), "phase=%s success=%v reward=%.2f\n", info.Phase, info.Success, reward)
		if terminated || truncated {
			fmt.Fprintln(rl.Stdout(), color.MagentaString("episode ended: winner=%v", winnerString(info.Winner)))
			return nil
		}
	}
}
