package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/board"
)

// Outcome says what a reveal did to the turn.
type Outcome string

const (
	// Continued means the same operative may keep guessing.
	Continued Outcome = "continued"
	HandedOff Outcome = "handed-off"
	GameOver  Outcome = "game-over"
)

// Reason names the rule that produced an outcome.
type Reason string

const (
	ReasonCorrect     Reason = "correct"
	ReasonAssassin    Reason = "assassin"
	ReasonTeamCleared Reason = "team-cleared"
	ReasonWrongTeam   Reason = "wrong-team"
	ReasonNeutral     Reason = "neutral"
	ReasonOutOfGuess  Reason = "out-of-guesses"
	ReasonPassed      Reason = "passed"
)

// RevealOutcome describes a single successful reveal.
type RevealOutcome struct {
	Card    board.IndexedCard
	Team    board.Color
	Outcome Outcome
	Reason  Reason
	// Winner is set only when Outcome is GameOver.
	Winner board.Color
}

func (o RevealOutcome) String() string {
	s := fmt.Sprintf("%v revealed %s (%v): %s", o.Team, o.Card.Word, o.Card.Color, o.Reason)
	if o.Outcome == GameOver {
		s += fmt.Sprintf(", %v wins", o.Winner)
	}
	return s
}

// RevealCard reveals the card at idx for the active team and applies its
// consequences. The first matching rule wins:
//
//  1. the assassin ends the game; the other team wins
//  2. a team with no hidden cards left wins (red is checked before blue)
//  3. a card of the other team hands the turn off
//  4. a neutral card hands the turn off
//  5. an exhausted guess budget hands the turn off
//
// Otherwise the operative may guess again. Every check that can fail runs
// before anything is changed.
func (g *Game) RevealCard(idx int) (RevealOutcome, error) {
	if g.phase != Guessing {
		return RevealOutcome{}, illegal("reveal", g.phase)
	}
	card, err := g.board.CardAt(idx)
	if err != nil {
		return RevealOutcome{}, err
	}
	if card.Revealed {
		return RevealOutcome{}, fmt.Errorf("%w: %q", ErrAlreadyRevealed, card.Word)
	}

	card, err = g.board.Reveal(idx)
	if err != nil {
		// unreachable after the guards above
		return RevealOutcome{}, err
	}
	if g.guessesRemaining != nil {
		*g.guessesRemaining--
	}

	team := g.activeTeam
	out := RevealOutcome{
		Card: board.IndexedCard{Card: card, Index: idx},
		Team: team,
	}
	switch {
	case card.Color == board.Assassin:
		out.Outcome, out.Reason, out.Winner = GameOver, ReasonAssassin, team.Opponent()
		g.finish(out.Winner)
	case g.board.AllOfColorRevealed(board.Red):
		out.Outcome, out.Reason, out.Winner = GameOver, ReasonTeamCleared, board.Red
		g.finish(out.Winner)
	case g.board.AllOfColorRevealed(board.Blue):
		out.Outcome, out.Reason, out.Winner = GameOver, ReasonTeamCleared, board.Blue
		g.finish(out.Winner)
	case card.Color != team && card.Color != board.Neutral:
		out.Outcome, out.Reason = HandedOff, ReasonWrongTeam
		g.handOff()
	case card.Color == board.Neutral:
		out.Outcome, out.Reason = HandedOff, ReasonNeutral
		g.handOff()
	case g.guessesRemaining != nil && *g.guessesRemaining <= 0:
		out.Outcome, out.Reason = HandedOff, ReasonOutOfGuess
		g.handOff()
	default:
		out.Outcome, out.Reason = Continued, ReasonCorrect
	}

	ic := out.Card
	g.logEvent(Event{Type: EventReveal, Team: team, Card: &ic, Outcome: out.Outcome, Reason: out.Reason})
	log.Debug().Str("game-id", g.id).Str("team", team.String()).Int("index", idx).
		Str("word", card.Word).Str("color", card.Color.String()).
		Str("outcome", string(out.Outcome)).Msg("card-revealed")
	return out, nil
}
