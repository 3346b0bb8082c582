package game_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/testhelpers"
)

func remaining(g *game.Game) int {
	n, ok := g.GuessesRemaining()
	if !ok {
		return -1
	}
	return n
}

func TestCorrectThenWrongTeam(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "fruit", Count: 2}))
	is.Equal(remaining(g), 3)
	is.Equal(g.Phase(), game.Guessing)

	out, err := g.RevealCard(testhelpers.FirstStartingIdx)
	is.NoErr(err)
	is.Equal(out.Outcome, game.Continued)
	is.Equal(out.Reason, game.ReasonCorrect)
	is.Equal(remaining(g), 2)
	is.Equal(g.Phase(), game.Guessing)

	out, err = g.RevealCard(testhelpers.FirstOtherIdx)
	is.NoErr(err)
	is.Equal(out.Outcome, game.HandedOff)
	is.Equal(out.Reason, game.ReasonWrongTeam)
	is.Equal(out.Card.Color, board.Blue)
	is.Equal(g.Phase(), game.Waiting)
	is.Equal(g.ActiveTeam(), board.Blue)
	_, ok := g.ActiveClue()
	is.True(!ok)
	is.Equal(remaining(g), -1)
}

func TestAssassinOnFirstGuess(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "fruit", Count: 2}))
	out, err := g.RevealCard(testhelpers.AssassinIdx)
	is.NoErr(err)
	is.Equal(out.Outcome, game.GameOver)
	is.Equal(out.Reason, game.ReasonAssassin)
	is.Equal(out.Winner, board.Blue)
	is.Equal(g.Phase(), game.Finished)
	is.Equal(g.Winner(), board.Blue)
}

func TestAssassinWhenBlueReveals(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Blue)
	is.NoErr(g.SubmitClue(game.Clue{Word: "fruit", Count: 0}))
	_, err := g.RevealCard(testhelpers.AssassinIdx)
	is.NoErr(err)
	is.Equal(g.Winner(), board.Red)
}

func TestLastCardWinsWithGuessesLeft(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "everything", Count: 9}))
	for i := 0; i < 8; i++ {
		out, err := g.RevealCard(i)
		is.NoErr(err)
		is.Equal(out.Outcome, game.Continued)
	}
	is.Equal(remaining(g), 2)
	out, err := g.RevealCard(8)
	is.NoErr(err)
	is.Equal(out.Outcome, game.GameOver)
	is.Equal(out.Reason, game.ReasonTeamCleared)
	is.Equal(g.Winner(), board.Red)
	is.Equal(g.Phase(), game.Finished)
}

func TestBudgetExhaustedAfterCorrectGuess(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 0}))
	is.Equal(remaining(g), 1)
	out, err := g.RevealCard(testhelpers.FirstStartingIdx)
	is.NoErr(err)
	is.Equal(out.Card.Color, board.Red)
	is.Equal(out.Outcome, game.HandedOff)
	is.Equal(out.Reason, game.ReasonOutOfGuess)
	is.Equal(g.Phase(), game.Waiting)
	is.Equal(g.ActiveTeam(), board.Blue)
}

func TestNeutralHandsOff(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 3}))
	out, err := g.RevealCard(testhelpers.FirstNeutralIdx)
	is.NoErr(err)
	is.Equal(out.Reason, game.ReasonNeutral)
	is.Equal(g.ActiveTeam(), board.Blue)
	is.Equal(g.Phase(), game.Waiting)
}

func TestRevealingOpponentsLastCardLoses(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 1}))
	s := g.Snapshot()
	s.Fingerprint = ""
	for i := testhelpers.FirstOtherIdx; i < testhelpers.FirstNeutralIdx-1; i++ {
		s.Cards[i].Revealed = true
	}
	g, err := game.FromSnapshot(s)
	is.NoErr(err)

	out, err := g.RevealCard(testhelpers.FirstNeutralIdx - 1)
	is.NoErr(err)
	is.Equal(out.Outcome, game.GameOver)
	is.Equal(out.Reason, game.ReasonTeamCleared)
	is.Equal(g.Winner(), board.Blue)
}

func TestBudgetArithmetic(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 4}))
	for i := 0; i < 4; i++ {
		is.Equal(remaining(g), 5-i)
		_, err := g.RevealCard(i)
		is.NoErr(err)
	}
	is.Equal(remaining(g), 1)
	out, err := g.RevealCard(4)
	is.NoErr(err)
	is.Equal(out.Reason, game.ReasonOutOfGuess)
}

func TestPassTurn(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 2}))
	is.NoErr(g.PassTurn())
	is.Equal(g.Phase(), game.Waiting)
	is.Equal(g.ActiveTeam(), board.Blue)
	is.Equal(remaining(g), -1)
	is.Equal(g.UnrevealedCounts()[board.Red], 9)

	evts := g.Events()
	is.Equal(len(evts), 2)
	is.Equal(evts[1].Type, game.EventPass)
	is.Equal(evts[1].Team, board.Red)
}

func TestIllegalTransitionsChangeNothing(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	before := stateJSON(t, g)

	_, err := g.RevealCard(0)
	is.True(errors.Is(err, game.ErrIllegalTransition))
	is.True(errors.Is(g.PassTurn(), game.ErrIllegalTransition))
	is.True(errors.Is(g.Rate(3, 3), game.ErrIllegalTransition))
	is.Equal(stateJSON(t, g), before)

	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 1}))
	before = stateJSON(t, g)
	is.True(errors.Is(g.SubmitClue(game.Clue{Word: "again", Count: 1}), game.ErrIllegalTransition))
	is.Equal(stateJSON(t, g), before)

	_, err = g.RevealCard(testhelpers.AssassinIdx)
	is.NoErr(err)
	before = stateJSON(t, g)
	is.True(errors.Is(g.SubmitClue(game.Clue{Word: "late", Count: 1}), game.ErrIllegalTransition))
	_, err = g.RevealCard(0)
	is.True(errors.Is(err, game.ErrIllegalTransition))
	is.True(errors.Is(g.PassTurn(), game.ErrIllegalTransition))
	is.Equal(stateJSON(t, g), before)
}

func TestRevealGuards(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 2}))
	_, err := g.RevealCard(0)
	is.NoErr(err)
	before := stateJSON(t, g)

	_, err = g.RevealCard(0)
	is.True(errors.Is(err, game.ErrAlreadyRevealed))
	_, err = g.RevealCard(25)
	is.True(errors.Is(err, game.ErrIndexOutOfRange))
	_, err = g.RevealCard(-1)
	is.True(errors.Is(err, game.ErrIndexOutOfRange))
	is.Equal(stateJSON(t, g), before)
	is.Equal(remaining(g), 2)
}

func TestInvalidClue(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.True(errors.Is(g.SubmitClue(game.Clue{Word: "space", Count: -1}), game.ErrInvalidClue))
	is.True(errors.Is(g.SubmitClue(game.Clue{Word: "  ", Count: 1}), game.ErrInvalidClue))
	is.Equal(g.Phase(), game.Waiting)
	is.Equal(len(g.ClueHistory()), 0)
}

func TestHumanCluesAreNotPoliced(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "quasar", Count: 1}))
	is.NoErr(g.PassTurn())
	is.NoErr(g.SubmitClue(game.Clue{Word: "quasar", Count: 1}))
	is.Equal(len(g.ClueHistory()), 2)
}

func TestClueHistory(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	words := []string{"Quasar", "Comet"}
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 2, IntendedWords: words}))
	words[0] = "changed"
	h := g.ClueHistory()
	is.Equal(h, []game.ClueHistoryEntry{{ClueWord: "space", IntendedWords: []string{"Quasar", "Comet"}}})
	h[0].ClueWord = "mutated"
	is.Equal(g.ClueHistory()[0].ClueWord, "space")
	is.Equal(g.Turn(), 1)
}

func TestRate(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 2}))
	_, err := g.RevealCard(testhelpers.AssassinIdx)
	is.NoErr(err)

	is.True(errors.Is(g.Rate(0, 3), game.ErrInvalidRating))
	is.True(errors.Is(g.Rate(3, 6), game.ErrInvalidRating))
	_, _, ok := g.Ratings()
	is.True(!ok)

	v := g.Version()
	is.NoErr(g.Rate(4, 2))
	c, gs, ok := g.Ratings()
	is.True(ok)
	is.Equal(c, 4)
	is.Equal(gs, 2)
	is.Equal(g.Version(), v+1)
}

func TestVersionCountsMutations(t *testing.T) {
	is := is.New(t)
	g := newGame(t, board.Red)
	is.NoErr(g.SubmitClue(game.Clue{Word: "space", Count: 2}))
	_, err := g.RevealCard(0)
	is.NoErr(err)
	_, _ = g.RevealCard(0)
	is.NoErr(g.PassTurn())
	is.Equal(g.Version(), 3)
	is.Equal(len(g.Events()), 3)
}
