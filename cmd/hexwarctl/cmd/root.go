package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	configDir   string
	scenario    string
	registry    string
	rewards     string
	jsonOut     bool
	verbose     bool
	seed        int64
)

var rootCmd = &cobra.Command{
	Use:          "hexwarctl",
	Short:        "hexwarctl - command-line interface for the combat simulator core",
	SilenceUsage: true,
	Long: `hexwarctl drives the simulator core directly, without a server.

Examples:
  hexwarctl run --scenario phase1-open.json       Run one scripted episode
  hexwarctl replay actions.json                    Replay a JSON array of action ids
  hexwarctl shell                                   Interactive step-by-step shell

Global Flags:
  --config-dir string   directory holding scenario/registry/rewards JSON (env: HEXWAR_CONFIG_DIR)
  --json                 output in JSON format
  --verbose              show detailed debug information`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hexwarctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "testdata", "directory holding scenario/registry/rewards JSON (env: HEXWAR_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "phase1-open.json", "scenario document name")
	rootCmd.PersistentFlags().StringVar(&registry, "registry", "registry.json", "unit registry document name")
	rootCmd.PersistentFlags().StringVar(&rewards, "rewards", "rewards.json", "rewards config document name")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed debug information")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "PRNG seed for engine.Reset")

	viper.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(shellCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hexwarctl")
	}

	viper.SetEnvPrefix("HEXWAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func resolvedConfigDir() string {
	if rootCmd.PersistentFlags().Changed("config-dir") {
		return configDir
	}
	if v := viper.GetString("config-dir"); v != "" {
		return v
	}
	return configDir
}

func isJSONOutput() bool { return viper.GetBool("json") }
func isVerbose() bool    { return viper.GetBool("verbose") }
