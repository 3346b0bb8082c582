package bot

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/boardgen"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/llm"
)

// LocalOccupant builds an occupant that runs in this process: the LLM
// oracle for the llm transport, the random bot for anything else.
func LocalOccupant(ctx context.Context, cfg *config.Config) (agent.Occupant, error) {
	if cfg.GetString(config.ConfigAgentTransport) == config.TransportLLM {
		return llm.NewOracle(ctx, llm.DefaultConfig(cfg))
	}
	words, err := boardgen.Words(cfg)
	if err != nil {
		return nil, err
	}
	return agent.NewRandomBot(words), nil
}

// OccupantFromConfig builds the occupant the configured transport names.
// The returned func releases whatever connection it holds.
func OccupantFromConfig(ctx context.Context, cfg *config.Config) (agent.Occupant, func(), error) {
	timeout := cfg.GetDuration(config.ConfigAgentTimeout)
	transport := cfg.GetString(config.ConfigAgentTransport)
	log.Info().Str("transport", transport).Msg("agent-transport")
	switch transport {
	case config.TransportNats:
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			return nil, nil, fmt.Errorf("nats connect: %w", err)
		}
		return NewClient(nc, cfg.GetString(config.ConfigAgentSubject), timeout), nc.Close, nil
	case config.TransportLambda:
		c, err := NewLambdaClient(ctx, cfg.GetString(config.ConfigLambdaFunction), timeout)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	case config.TransportLLM, config.TransportRandom:
		occ, err := LocalOccupant(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return occ, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown agent transport %q", transport)
}
