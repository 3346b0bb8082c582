package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/board"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SubmitClue starts the guessing phase for the active team. The operative
// gets count+1 guesses. Nothing about the clue word itself is policed here.
func (g *Game) SubmitClue(c Clue) error {
	if g.phase != Waiting {
		return illegal("submit a clue", g.phase)
	}
	if err := c.validate(); err != nil {
		return err
	}
	c = c.copy()
	g.clueHistory = append(g.clueHistory, ClueHistoryEntry{
		ClueWord:      c.Word,
		IntendedWords: append([]string{}, c.IntendedWords...),
	})
	g.activeClue = &c
	budget := c.Count + 1
	g.guessesRemaining = &budget
	g.phase = Guessing

	ec := c.copy()
	g.logEvent(Event{Type: EventClue, Team: g.activeTeam, Clue: &ec})
	log.Debug().Str("game-id", g.id).Str("team", g.activeTeam.String()).
		Str("clue", c.Word).Int("count", c.Count).Msg("clue-submitted")
	return nil
}

// PassTurn ends the active team's guessing without a reveal.
func (g *Game) PassTurn() error {
	if g.phase != Guessing {
		return illegal("pass", g.phase)
	}
	team := g.activeTeam
	g.handOff()
	g.logEvent(Event{Type: EventPass, Team: team, Outcome: HandedOff, Reason: ReasonPassed})
	log.Debug().Str("game-id", g.id).Str("team", team.String()).Msg("turn-passed")
	return nil
}

// Rate records the players' opinion of the automated clues and guesses.
// It is the only mutation allowed once the game is over, and may be
// repeated; the last rating wins.
func (g *Game) Rate(clueRating, guessRating int) error {
	if g.phase != Finished {
		return illegal("rate", g.phase)
	}
	for _, r := range []int{clueRating, guessRating} {
		if r < MinRating || r > MaxRating {
			return fmt.Errorf("%w: %d is outside %d..%d", ErrInvalidRating, r, MinRating, MaxRating)
		}
	}
	g.clueRating = clueRating
	g.guessRating = guessRating
	g.logEvent(Event{Type: EventRating, Team: g.winner})
	return nil
}

func (g *Game) handOff() {
	g.activeTeam = g.activeTeam.Opponent()
	g.phase = Waiting
	g.activeClue = nil
	g.guessesRemaining = nil
}

// finish leaves the last clue and budget in place for display.
func (g *Game) finish(winner board.Color) {
	g.winner = winner
	g.phase = Finished
}
