package game

import (
	"github.com/domino14/spymaster/board"
)

type EventType string

const (
	EventClue   EventType = "clue"
	EventReveal EventType = "reveal"
	EventPass   EventType = "pass"
	EventRating EventType = "rating"
)

// Event is one entry of the game log. Only the fields relevant to the
// event type are set.
type Event struct {
	Type    EventType          `json:"type"`
	Team    board.Color        `json:"team"`
	Clue    *Clue              `json:"clue,omitempty"`
	Card    *board.IndexedCard `json:"card,omitempty"`
	Outcome Outcome            `json:"outcome,omitempty"`
	Reason  Reason             `json:"reason,omitempty"`
}

func (e Event) copy() Event {
	if e.Clue != nil {
		c := e.Clue.copy()
		e.Clue = &c
	}
	if e.Card != nil {
		c := *e.Card
		e.Card = &c
	}
	return e
}
