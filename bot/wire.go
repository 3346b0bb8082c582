// Package bot carries agent requests to occupants that run somewhere else:
// a worker listening on NATS, or a Lambda function.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/domino14/spymaster/agent"
)

type Kind string

const (
	KindClue  Kind = "clue"
	KindGuess Kind = "guess"
)

var errUnknownKind = errors.New("unknown request kind")

// Envelope is a single request on the wire.
type Envelope struct {
	Kind         Kind                `json:"kind"`
	ClueRequest  *agent.ClueRequest  `json:"clue_request,omitempty"`
	GuessRequest *agent.GuessRequest `json:"guess_request,omitempty"`
}

// Reply carries the occupant's raw text, or the reason it had none.
type Reply struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// LambdaEvent is the payload a Lambda-hosted occupant is invoked with. If
// ReplyChannel is set the reply is also published there.
type LambdaEvent struct {
	GameID       string   `json:"game_id"`
	Request      Envelope `json:"request"`
	ReplyChannel string   `json:"reply_channel,omitempty"`
}

func clueEnvelope(req *agent.ClueRequest) Envelope {
	return Envelope{Kind: KindClue, ClueRequest: req}
}

func guessEnvelope(req *agent.GuessRequest) Envelope {
	return Envelope{Kind: KindGuess, GuessRequest: req}
}

func (e Envelope) gameID() string {
	switch {
	case e.ClueRequest != nil:
		return e.ClueRequest.GameID
	case e.GuessRequest != nil:
		return e.GuessRequest.GameID
	}
	return ""
}

// Answer runs the request in e against a local occupant.
func Answer(ctx context.Context, occ agent.Occupant, e Envelope) Reply {
	var (
		text string
		err  error
	)
	switch {
	case e.Kind == KindClue && e.ClueRequest != nil:
		text, err = occ.GiveClue(ctx, e.ClueRequest)
	case e.Kind == KindGuess && e.GuessRequest != nil:
		text, err = occ.Guess(ctx, e.GuessRequest)
	default:
		err = fmt.Errorf("%w: %q", errUnknownKind, e.Kind)
	}
	if err != nil {
		return Reply{Error: err.Error()}
	}
	return Reply{Text: text}
}

// decodeReply turns a wire reply into the occupant's text. Error replies
// and undecodable ones become agent.ErrAgentResponse.
func decodeReply(data []byte) (string, error) {
	var r Reply
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("%w: undecodable reply: %w", agent.ErrAgentResponse, err)
	}
	if r.Error != "" {
		return "", fmt.Errorf("%w: remote occupant: %s", agent.ErrAgentResponse, r.Error)
	}
	return r.Text, nil
}
