// Command lambda runs an automated seat as an AWS Lambda function. The
// answer is returned to the caller and, when the event names a reply
// channel, also sent over NATS.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/bot"
	"github.com/domino14/spymaster/config"
)

type replier interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

var (
	occupant agent.Occupant
	replies  replier
)

func HandleRequest(ctx context.Context, evt bot.LambdaEvent) (bot.Reply, error) {
	log.Info().Str("game-id", evt.GameID).Str("kind", string(evt.Request.Kind)).Msg("lambda-request")
	return bot.HandleLambdaEvent(ctx, occupant, replies, evt), nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
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

	occupant, err = bot.LocalOccupant(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-occupant")
	}
	nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}
	replies = nc

	lambda.Start(HandleRequest)
}
