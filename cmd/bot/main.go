// Command bot serves automated seats over NATS. It answers clue and guess
// requests on the agent subject using the local occupant (an LLM or the
// random bot).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/bot"
	"github.com/domino14/spymaster/config"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-flags")
	}
	cfg.AdjustRelativePaths(ex)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	occ, err := bot.LocalOccupant(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-occupant")
	}
	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("nats-connect")
	}
	defer nc.Close()

	b := bot.NewBot(occ, cfg.GetDuration(config.ConfigAgentTimeout))
	if err := b.Serve(ctx, nc, cfg.GetString(config.ConfigAgentSubject)); err != nil {
		log.Fatal().Err(err).Msg("bot-serve")
	}
	log.Info().Msg("bot gracefully shutting down")
}
