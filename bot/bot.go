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

// Bot answers requests arriving on a NATS subject with a local occupant.
type Bot struct {
	occupant agent.Occupant
	timeout  time.Duration
}

func NewBot(occ agent.Occupant, timeout time.Duration) *Bot {
	return &Bot{occupant: occ, timeout: timeout}
}

// Handle answers one encoded envelope. It always returns an encoded Reply.
func (b *Bot) Handle(ctx context.Context, data []byte) []byte {
	var reply Reply
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		reply = Reply{Error: fmt.Sprintf("bad request: %v", err)}
	} else {
		if b.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		reply = Answer(ctx, b.occupant, e)
		log.Info().Str("game-id", e.gameID()).Str("kind", string(e.Kind)).
			Bool("ok", reply.Error == "").Msg("request-answered")
	}
	out, err := json.Marshal(reply)
	if err != nil {
		// a Reply is two strings
		return []byte(`{"error":"could not encode reply"}`)
	}
	return out
}

// Serve answers requests on subject until ctx is done. Each request is
// answered on its own goroutine.
func (b *Bot) Serve(ctx context.Context, nc *nats.Conn, subject string) error {
	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("request-received")
		go func() {
			if err := m.Respond(b.Handle(ctx, m.Data)); err != nil {
				log.Err(err).Msg("respond-failed")
			}
		}()
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", subject).Msg("listening")

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		log.Err(err).Msg("drain-failed")
	}
	return nil
}
