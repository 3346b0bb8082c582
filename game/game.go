// Package game implements the turn state machine of a single match: clue
// submission, card reveals and their consequences, passing, and the
// post-game rating. It has no notion of who is calling; seat checks and
// automated occupants live in the runner.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/roster"
)

type Game struct {
	id        string
	createdAt time.Time

	board  *board.Board
	roster *roster.Roster

	activeTeam board.Color
	phase      Phase
	activeClue *Clue
	// nil while no clue is active.
	guessesRemaining *int
	winner           board.Color

	clueHistory []ClueHistoryEntry
	clueRating  int
	guessRating int

	events  []Event
	version int
}

// NewGame starts a game in the Waiting phase with startingTeam to give the
// first clue. The starting team must hold the majority of the board. An
// empty id gets a fresh uuid.
func NewGame(id string, b *board.Board, r *roster.Roster, startingTeam board.Color) (*Game, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: no board", ErrInvalidLayout)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no roster", ErrInvalidRoster)
	}
	if startingTeam != b.StartingTeam() {
		return nil, fmt.Errorf("%w: %v starts but the board favors %v",
			ErrInvalidLayout, startingTeam, b.StartingTeam())
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &Game{
		id:         id,
		createdAt:  time.Now().UTC().Round(0),
		board:      b,
		roster:     r,
		activeTeam: startingTeam,
		phase:      Waiting,
	}, nil
}

func (g *Game) ID() string              { return g.id }
func (g *Game) CreatedAt() time.Time    { return g.createdAt }
func (g *Game) Roster() *roster.Roster  { return g.roster }
func (g *Game) Phase() Phase            { return g.phase }
func (g *Game) ActiveTeam() board.Color { return g.activeTeam }
func (g *Game) Winner() board.Color     { return g.winner }
func (g *Game) Finished() bool          { return g.phase == Finished }

// Version increases by one with every successful mutation.
func (g *Game) Version() int { return g.version }

// Board returns a copy of the board. Mutating it has no effect on the game.
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

func (g *Game) StartingTeam() board.Color {
	return g.board.StartingTeam()
}

// ActiveClue returns the clue being guessed on, if any.
func (g *Game) ActiveClue() (Clue, bool) {
	if g.activeClue == nil {
		return Clue{}, false
	}
	return g.activeClue.copy(), true
}

// GuessesRemaining returns the remaining guess budget, if a clue is active.
func (g *Game) GuessesRemaining() (int, bool) {
	if g.guessesRemaining == nil {
		return 0, false
	}
	return *g.guessesRemaining, true
}

func (g *Game) UnrevealedCounts() map[board.Color]int {
	return g.board.UnrevealedCounts()
}

func (g *Game) ClueHistory() []ClueHistoryEntry {
	return lo.Map(g.clueHistory, func(e ClueHistoryEntry, _ int) ClueHistoryEntry {
		e.IntendedWords = append([]string(nil), e.IntendedWords...)
		return e
	})
}

// Turn is the number of clues given so far.
func (g *Game) Turn() int {
	return len(g.clueHistory)
}

func (g *Game) Events() []Event {
	return lo.Map(g.events, func(e Event, _ int) Event { return e.copy() })
}

// Ratings returns the post-game ratings; ok is false until Rate succeeds.
func (g *Game) Ratings() (clue, guess int, ok bool) {
	return g.clueRating, g.guessRating, g.clueRating != 0
}

// IsSeatTurn reports whether the seat of the given team and role is the one
// the game is waiting on.
func (g *Game) IsSeatTurn(team board.Color, role roster.Role) bool {
	if g.phase == Finished || team != g.activeTeam {
		return false
	}
	switch g.phase {
	case Waiting:
		return role == roster.Spymaster
	case Guessing:
		return role == roster.Operative
	}
	return false
}

// ActiveSeat returns the seat the game is waiting on. ok is false once the
// game is finished.
func (g *Game) ActiveSeat() (roster.Seat, bool) {
	switch g.phase {
	case Waiting:
		return g.roster.Spymaster(g.activeTeam), true
	case Guessing:
		return g.roster.Operative(g.activeTeam), true
	}
	return roster.Seat{}, false
}

// Clone returns a deep copy of the game. The roster is immutable and is
// shared.
func (g *Game) Clone() *Game {
	cp := *g
	cp.board = g.board.Copy()
	if g.activeClue != nil {
		c := g.activeClue.copy()
		cp.activeClue = &c
	}
	if g.guessesRemaining != nil {
		n := *g.guessesRemaining
		cp.guessesRemaining = &n
	}
	cp.clueHistory = g.ClueHistory()
	cp.events = g.Events()
	return &cp
}

func (g *Game) logEvent(e Event) {
	g.events = append(g.events, e)
	g.version++
}
