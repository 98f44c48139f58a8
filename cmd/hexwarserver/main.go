// Command hexwarserver runs the HTTP API described in §6: start/action/
// ai-turn/state routes plus a push-based state stream, backed by one
// Engine per game id.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	hexwar40k "github.com/castellan-labs/hexwar40k"
	"github.com/castellan-labs/hexwar40k/httpapi"
)

func main() {
	_ = godotenv.Load()

	log := hexwar40k.NewLogger("hexwarserver")

	configDir := os.Getenv("HEXWAR_CONFIG_DIR")
	if configDir == "" {
		configDir = "testdata"
	}
	scenarioName := envOr("HEXWAR_SCENARIO", "phase1-open.json")
	registryName := envOr("HEXWAR_REGISTRY", "registry.json")
	rewardsName := envOr("HEXWAR_REWARDS", "rewards.json")
	addr := envOr("HEXWAR_ADDR", ":8080")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src := hexwar40k.LocalFileSource{Dir: configDir}
	cfg, err := hexwar40k.LoadResolvedConfig(ctx, src, scenarioName, registryName, rewardsName, "")
	if err != nil {
		log.Fatal().Err(err).Msg("loading resolved config")
	}

	server := httpapi.NewServer(cfg, log)

	log.Info().Str("addr", addr).Msg("starting hexwarserver")
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
