package pubsub

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/testhelpers"
)

type flakyConn struct {
	failures int
	subjects []string
	payloads [][]byte
}

func (c *flakyConn) Publish(subj string, data []byte) error {
	c.subjects = append(c.subjects, subj)
	if c.failures > 0 {
		c.failures--
		return errors.New("slow consumer")
	}
	c.payloads = append(c.payloads, data)
	return nil
}

func snapshot(t *testing.T) *game.Snapshot {
	t.Helper()
	g, err := game.NewGame("g-42", testhelpers.Board(board.Blue), testhelpers.HumanRoster(), board.Blue)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SubmitClue(game.Clue{Word: "tide", Count: 2}); err != nil {
		t.Fatal(err)
	}
	return g.Snapshot()
}

func TestPublishRetries(t *testing.T) {
	is := is.New(t)
	conn := &flakyConn{failures: 2}
	p := &NatsPublisher{nc: conn, attempts: 3}
	is.NoErr(p.Publish(context.Background(), snapshot(t)))
	is.Equal(conn.subjects, []string{"spymaster.game.g-42", "spymaster.game.g-42", "spymaster.game.g-42"})

	got := Decode(conn.payloads[0])
	is.True(got != nil)
	is.Equal(got.ID, "g-42")
	is.Equal(got.Phase, game.Guessing)
	_, err := game.FromSnapshot(got)
	is.NoErr(err)
}

func TestPublishGivesUp(t *testing.T) {
	is := is.New(t)
	conn := &flakyConn{failures: 10}
	p := &NatsPublisher{nc: conn, attempts: 3}
	err := p.Publish(context.Background(), snapshot(t))
	is.True(err != nil)
	is.Equal(len(conn.subjects), 3)
}

func TestDecodeGarbage(t *testing.T) {
	is := is.New(t)
	is.True(Decode([]byte("garbage")) == nil)
}
