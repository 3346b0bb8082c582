package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
)

// requester is satisfied by *nats.Conn.
type requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// Client sends agent requests to a Bot over NATS request/reply.
type Client struct {
	nc      requester
	subject string
	timeout time.Duration
}

func NewClient(nc *nats.Conn, subject string, timeout time.Duration) *Client {
	return &Client{nc: nc, subject: subject, timeout: timeout}
}

func (c *Client) request(ctx context.Context, e Envelope) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	res, err := c.nc.RequestWithContext(ctx, c.subject, data)
	if err != nil {
		log.Err(err).Str("subject", c.subject).Str("game-id", e.gameID()).Msg("request-failed")
		return "", fmt.Errorf("nats request: %w", err)
	}
	log.Debug().Str("reply", string(res.Data)).Msg("reply-received")
	return decodeReply(res.Data)
}

func (c *Client) GiveClue(ctx context.Context, req *agent.ClueRequest) (string, error) {
	return c.request(ctx, clueEnvelope(req))
}

func (c *Client) Guess(ctx context.Context, req *agent.GuessRequest) (string, error) {
	return c.request(ctx, guessEnvelope(req))
}
