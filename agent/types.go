// Package agent is the boundary between a game and its automated
// occupants. Occupants receive bounded requests and answer with raw text;
// the Gateway parses those answers strictly and applies the clue
// validation policy. Nothing in this package mutates a game.
package agent

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
)

// ErrAgentResponse means an occupant's reply was absent or did not have the
// required shape.
var ErrAgentResponse = errors.New("bad agent response")

// CardView is a card as the spymaster sees it.
type CardView struct {
	Index    int         `json:"index"`
	Word     string      `json:"word"`
	Color    board.Color `json:"color"`
	Revealed bool        `json:"revealed"`
}

// IndexedWord is a hidden card as an operative sees it.
type IndexedWord struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
}

type ClueRequest struct {
	GameID string      `json:"game_id"`
	Team   board.Color `json:"team"`
	Board  []CardView  `json:"board"`
	// History holds the clue words already given in this game.
	History []string `json:"history,omitempty"`
	// Rejected holds words this occupant proposed during the current
	// request that were turned down.
	Rejected []string `json:"rejected,omitempty"`
}

type GuessRequest struct {
	GameID     string        `json:"game_id"`
	Team       board.Color   `json:"team"`
	Clue       game.Clue     `json:"clue"`
	Unrevealed []IndexedWord `json:"unrevealed"`
}

// ClueResponse is the parsed answer of a clue giver.
type ClueResponse struct {
	Word          string   `json:"word"`
	Count         int      `json:"count"`
	IntendedWords []string `json:"intendedWords,omitempty"`
}

func (r ClueResponse) Clue() game.Clue {
	return game.Clue{Word: r.Word, Count: r.Count, IntendedWords: r.IntendedWords}
}

// GuessResponse is the parsed answer of an operative: board indices in the
// order they should be revealed.
type GuessResponse struct {
	Guesses []int `json:"guesses"`
}

// ClueGiver plays the spymaster seat. It returns the raw reply text.
type ClueGiver interface {
	GiveClue(ctx context.Context, req *ClueRequest) (string, error)
}

// Guesser plays the operative seat. It returns the raw reply text.
type Guesser interface {
	Guess(ctx context.Context, req *GuessRequest) (string, error)
}

// Occupant can sit in either seat.
type Occupant interface {
	ClueGiver
	Guesser
}

// NewClueRequest builds the spymaster's view of g for its active team.
func NewClueRequest(g *game.Game) *ClueRequest {
	cards := g.Board().Cards()
	return &ClueRequest{
		GameID: g.ID(),
		Team:   g.ActiveTeam(),
		Board: lo.Map(cards, func(c board.Card, i int) CardView {
			return CardView{Index: i, Word: c.Word, Color: c.Color, Revealed: c.Revealed}
		}),
		History: lo.Map(g.ClueHistory(), func(e game.ClueHistoryEntry, _ int) string {
			return e.ClueWord
		}),
	}
}

// NewGuessRequest builds the operative's view of g. It needs an active
// clue.
func NewGuessRequest(g *game.Game) (*GuessRequest, error) {
	clue, ok := g.ActiveClue()
	if !ok {
		return nil, game.ErrIllegalTransition
	}
	return &GuessRequest{
		GameID: g.ID(),
		Team:   g.ActiveTeam(),
		Clue:   clue,
		Unrevealed: lo.Map(g.Board().Unrevealed(), func(c board.IndexedCard, _ int) IndexedWord {
			return IndexedWord{Index: c.Index, Word: c.Word}
		}),
	}, nil
}
