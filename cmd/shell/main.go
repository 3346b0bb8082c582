package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/shell"
)

var (
	GitVersion string
)

//go:embed spymaster.txt
var banner string

func main() {
	// Determine the path of the executable. Relative data paths are
	// resolved against its directory.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	fmt.Println(banner)
	fmt.Println(GitVersion)

	// a missing .env is fine; keys may come from the environment
	_ = godotenv.Load()

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(ex)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Info().Interface("settings", cfg.SanitizedSettings()).Msg("loaded-config")

	if cfg.GetString(config.ConfigDBPath) != "" {
		if err := cfg.EnsureDataPath(); err != nil {
			log.Fatal().Err(err).Msg("data-path")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
		close(done)
	}()

	sc, err := shell.NewShellController(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-start-shell")
	}
	go sc.Loop(sig)

	<-done
	log.Info().Msg("shell exiting")
}
