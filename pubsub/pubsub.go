// Package pubsub fans game snapshots out to observers over NATS.
package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/game"
)

const SubjectPrefix = "spymaster.game."

// Subject is where snapshots of game id are published.
func Subject(id string) string {
	return SubjectPrefix + id
}

// publisher is satisfied by *nats.Conn.
type publisher interface {
	Publish(subj string, data []byte) error
}

// NatsPublisher publishes each snapshot in binary form on the game's
// subject.
type NatsPublisher struct {
	nc       publisher
	attempts uint
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc, attempts: 3}
}

func (p *NatsPublisher) Publish(ctx context.Context, s *game.Snapshot) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	subj := Subject(s.ID)
	return retry.Do(
		func() error { return p.nc.Publish(subj, data) },
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(20*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Str("subject", subj).Uint("attempt", n+1).Msg("publish-retry")
		}),
	)
}

// Subscribe calls fn with every snapshot published for game id until the
// subscription is drained. Messages that do not decode are logged and
// dropped.
func Subscribe(nc *nats.Conn, id string, fn func(*game.Snapshot)) (*nats.Subscription, error) {
	return nc.Subscribe(Subject(id), func(m *nats.Msg) {
		if snap := Decode(m.Data); snap != nil {
			fn(snap)
		}
	})
}

// Decode reads a published snapshot, or returns nil.
func Decode(data []byte) *game.Snapshot {
	s := &game.Snapshot{}
	if err := s.UnmarshalBinary(data); err != nil {
		log.Warn().Err(err).Msg("undecodable-snapshot")
		return nil
	}
	return s
}
