package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/testhelpers"
)

// redAfterOneTurn returns a game where red already clued "space" and it is
// red's turn to clue again.
func redAfterOneTurn(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame("gw", testhelpers.Board(board.Red), testhelpers.HumanRoster(), board.Red)
	if err != nil {
		t.Fatal(err)
	}
	for _, step := range []func() error{
		func() error { return g.SubmitClue(game.Clue{Word: "space", Count: 1}) },
		g.PassTurn,
		func() error { return g.SubmitClue(game.Clue{Word: "ocean", Count: 1}) },
		g.PassTurn,
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestRequestClueRetriesHistoryDuplicate(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	before := g.Snapshot()
	bot := agent.NewScriptedBot().AddClueReplies(
		`{"word": "SPACE", "count": 2}`,
		`{"word": "orbit", "count": 2, "intendedWords": ["Quasar", "Comet"]}`,
	)
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "orbit")
	is.Equal(clue.IntendedWords, []string{"Quasar", "Comet"})

	clues, _ := bot.Calls()
	is.Equal(clues, 2)
	is.Equal(bot.ClueRequests[0].History, []string{"space", "ocean"})
	is.Equal(bot.ClueRequests[1].Rejected, []string{"SPACE"})
	is.Equal(g.Version(), before.Version)
	is.Equal(len(g.ClueHistory()), 2)
}

func TestRequestClueRejectsBoardWords(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot().AddClueReplies(
		`{"word": "quasar", "count": 1}`,
		`{"word": "Velvet", "count": 1}`,
		`{"word": "nebula", "count": 1}`,
	)
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "nebula")
	clues, _ := bot.Calls()
	is.Equal(clues, 3)
}

func TestRequestClueAcceptsWhenHistoryCapExhausted(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot()
	for i := 0; i < 10; i++ {
		bot.AddClueReplies(`{"word": "space", "count": 1}`)
	}
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "space")
	clues, _ := bot.Calls()
	is.Equal(clues, 4) // first try plus three retries
}

func TestRequestClueAcceptsWhenBoardCapExhausted(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot()
	for i := 0; i < 10; i++ {
		bot.AddClueReplies(`{"word": "comet", "count": 1}`)
	}
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "comet")
	clues, _ := bot.Calls()
	is.Equal(clues, 6)
}

func TestRequestClueCapsAreSeparate(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	p := agent.Policy{RejectHistory: true, RejectBoard: true, HistoryRetries: 1, BoardRetries: 1}
	bot := agent.NewScriptedBot().AddClueReplies(
		`{"word": "space", "count": 1}`,
		`{"word": "comet", "count": 1}`,
		`{"word": "ocean", "count": 1}`,
		`{"word": "never", "count": 1}`,
	)
	gw := agent.NewGateway(bot, bot, p)
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "ocean")
	clues, _ := bot.Calls()
	is.Equal(clues, 3)
}

func TestRequestClueRulesCanBeDisabled(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot().AddClueReplies(`{"word": "space", "count": 1}`)
	p := agent.DefaultPolicy()
	p.RejectHistory = false
	gw := agent.NewGateway(bot, bot, p)
	clue, err := gw.RequestClue(context.Background(), g)
	is.NoErr(err)
	is.Equal(clue.Word, "space")
}

func TestRequestClueMalformed(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot().AddClueReplies(`{"word": "orbit"}`, `{"word": "orbit", "count": 1}`)
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	_, err := gw.RequestClue(context.Background(), g)
	is.True(errors.Is(err, agent.ErrAgentResponse))
	clues, _ := bot.Calls()
	is.Equal(clues, 1)
	is.Equal(g.Phase(), game.Waiting)
}

func TestRequestClueAbsent(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	bot := agent.NewScriptedBot()
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	_, err := gw.RequestClue(context.Background(), g)
	is.True(errors.Is(err, agent.ErrAgentResponse))

	_, err = agent.NewGateway(nil, nil, agent.DefaultPolicy()).RequestClue(context.Background(), g)
	is.True(errors.Is(err, agent.ErrAgentResponse))
}

func TestRequestClueWrongPhase(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	is.NoErr(g.SubmitClue(game.Clue{Word: "again", Count: 1}))
	gw := agent.NewGateway(agent.NewScriptedBot(), nil, agent.DefaultPolicy())
	_, err := gw.RequestClue(context.Background(), g)
	is.True(errors.Is(err, game.ErrIllegalTransition))
}

func TestRequestGuesses(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	is.NoErr(g.SubmitClue(game.Clue{Word: "orbit", Count: 2}))
	_, err := g.RevealCard(testhelpers.FirstStartingIdx)
	is.NoErr(err)

	bot := agent.NewScriptedBot().AddGuessReplies("```json\n{\"guesses\": [8, 0, 1]}\n```", `{"guesses": [30]}`)
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())
	guesses, err := gw.RequestGuesses(context.Background(), g)
	is.NoErr(err)
	is.Equal(guesses, []int{8, 0, 1})

	req := bot.GuessRequests[0]
	is.Equal(req.Team, board.Red)
	is.Equal(req.Clue.Word, "orbit")
	is.Equal(len(req.Unrevealed), 24)
	is.Equal(req.Unrevealed[0], agent.IndexedWord{Index: 1, Word: "Zephyr"})

	_, err = gw.RequestGuesses(context.Background(), g)
	is.True(errors.Is(err, agent.ErrAgentResponse))
}

func TestRequestGuessesWrongPhase(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	gw := agent.NewGateway(nil, agent.NewScriptedBot(), agent.DefaultPolicy())
	_, err := gw.RequestGuesses(context.Background(), g)
	is.True(errors.Is(err, game.ErrIllegalTransition))
}

func TestPolicyFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	is.Equal(agent.PolicyFromConfig(cfg), agent.DefaultPolicy())
	cfg.Set(config.ConfigRejectBoardClues, false)
	cfg.Set(config.ConfigClueHistoryRetries, -4)
	p := agent.PolicyFromConfig(cfg)
	is.True(!p.RejectBoard)
	is.Equal(p.HistoryRetries, 0)
}

func TestRandomBotPlaysLegally(t *testing.T) {
	is := is.New(t)
	g := redAfterOneTurn(t)
	words := []string{"space", "Quasar", "ocean", "nebula"}
	bot := agent.NewRandomBot(words)
	gw := agent.NewGateway(bot, bot, agent.DefaultPolicy())

	for i := 0; i < 20; i++ {
		clue, err := gw.RequestClue(context.Background(), g)
		is.NoErr(err)
		is.Equal(clue.Word, "nebula")
		is.True(clue.Count >= 1 && clue.Count <= 3)
		is.Equal(len(clue.IntendedWords), clue.Count)
	}

	is.NoErr(g.SubmitClue(game.Clue{Word: "nebula", Count: 2}))
	guesses, err := gw.RequestGuesses(context.Background(), g)
	is.NoErr(err)
	is.Equal(len(guesses), 3)
	seen := map[int]bool{}
	for _, idx := range guesses {
		is.True(!seen[idx])
		seen[idx] = true
	}
}
