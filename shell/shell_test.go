package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"file": {"/path/to/log.txt"}}},
			nil},
		{"clue 'ice cream' 2 Cone Freezer",
			&shellcmd{"clue", []string{"ice cream", "2", "Cone", "Freezer"}, CmdOptions{}},
			nil},
		{"rate -1 3",
			&shellcmd{"rate", []string{"-1", "3"}, CmdOptions{}},
			nil},
		{"new -humans all -roster r.yaml ",
			&shellcmd{"new", nil, CmdOptions{"humans": {"all"}, "roster": {"r.yaml"}}},
			nil,
		},
		{"autoplay -games", nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func newTestController(t *testing.T) *ShellController {
	t.Helper()
	sc, err := newController(context.Background(), testhelpers.DefaultConfig, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sc.Close)
	return sc
}

func run(t *testing.T, sc *ShellController, line string) (string, error) {
	t.Helper()
	resp, err := sc.standardModeSwitch(line, nil)
	if resp == nil {
		return "", err
	}
	return resp.message, err
}

// indexOf finds the first hidden card of color c in the current game.
func indexOf(sc *ShellController, c board.Color) int {
	for _, card := range sc.cur.View().Board().Unrevealed() {
		if card.Color == c {
			return card.Index
		}
	}
	return -1
}

func TestHotSeatGame(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)

	_, err := run(t, sc, "guess 3")
	is.True(errors.Is(err, errNoGame))

	out, err := run(t, sc, "new -humans all")
	is.NoErr(err)
	is.True(strings.Contains(out, "spymaster to give a clue"))
	start := sc.cur.View().ActiveTeam()

	_, err = run(t, sc, "guess 3")
	is.True(errors.Is(err, game.ErrNotYourTurn))

	out, err = run(t, sc, "clue zzzword 1")
	is.NoErr(err)
	is.True(strings.Contains(out, "2 guess(es) left"))

	own := sc.cur.View().Board().Cards()[indexOf(sc, start)].Word
	out, err = run(t, sc, "guess "+strings.ToLower(own))
	is.NoErr(err)
	is.True(strings.Contains(out, "correct"))

	_, err = run(t, sc, "pass")
	is.NoErr(err)
	view := sc.cur.View()
	is.Equal(view.ActiveTeam(), start.Opponent())
	is.Equal(view.Phase(), game.Waiting)

	out, err = run(t, sc, "history")
	is.NoErr(err)
	is.True(strings.Contains(out, "zzzword"))

	_, err = run(t, sc, "rate 4 4")
	is.True(errors.Is(err, game.ErrIllegalTransition))

	_, err = run(t, sc, "clue yyyword 1")
	is.NoErr(err)
	out, err = run(t, sc, "guess "+strconv.Itoa(indexOf(sc, board.Assassin)))
	is.NoErr(err)
	is.True(strings.Contains(out, "Game over"))
	is.True(sc.cur.View().Finished())

	_, err = run(t, sc, "rate 4 3")
	is.NoErr(err)

	out, err = run(t, sc, "list")
	is.NoErr(err)
	is.True(strings.Contains(out, sc.cur.ID()))
	out, err = run(t, sc, "stats")
	is.NoErr(err)
	is.True(strings.Contains(out, "Games: 1 (1 finished)"))
}

func TestAutomatedOperativePlaysAfterClue(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	_, err := run(t, sc, "new -humans spymaster")
	is.NoErr(err)
	_, err = run(t, sc, "pass")
	is.True(errors.Is(err, game.ErrNotYourTurn))

	_, err = run(t, sc, "clue zzzword 1")
	is.NoErr(err)
	view := sc.cur.View()
	is.True(view.Finished() || view.Phase() == game.Waiting)
	is.True(view.Version() > 1)
}

func TestLoadResumes(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	_, err := run(t, sc, "new -humans all")
	is.NoErr(err)
	id := sc.cur.ID()
	_, err = run(t, sc, "clue zzzword 2")
	is.NoErr(err)

	sc.registry.Evict(id)
	sc.cur = nil
	out, err := run(t, sc, "load "+id)
	is.NoErr(err)
	is.True(strings.Contains(out, "3 guess(es) left"))

	_, err = run(t, sc, "load nope")
	is.True(err != nil)
}

func TestAutoplayCommand(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out, err := run(t, sc, "autoplay -games 4 -threads 2")
	is.NoErr(err)
	is.True(strings.Contains(out, "Games played: 4"))
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	script := `
local json = require("json")
local out = spymaster.new("-humans", "all")
assert(string.sub(out, 1, 6) ~= "ERROR:", out)
local st = json.decode(spymaster.state())
assert(st.phase == "waiting", "phase " .. tostring(st.phase))
out = spymaster.clue("zzzword", 1)
assert(string.sub(out, 1, 6) ~= "ERROR:", out)
st = json.decode(spymaster.state())
assert(st.phase == "guessing")
out = spymaster.clue("again", 1)
assert(string.sub(out, 1, 6) == "ERROR:", out)
out = spymaster.pass()
assert(string.sub(out, 1, 6) ~= "ERROR:", out)
`
	path := filepath.Join(t.TempDir(), "game.lua")
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := run(t, sc, "script "+path)
	is.NoErr(err)
	is.Equal(sc.cur.View().Phase(), game.Waiting)
	is.Equal(len(sc.cur.View().ClueHistory()), 1)
}

func TestScriptArgumentsKeepSpaces(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	script := `
local out = spymaster.new("-humans", "all")
assert(string.sub(out, 1, 6) ~= "ERROR:", out)
out = spymaster.clue("ice cream", 2, "rock'n'roll")
assert(string.sub(out, 1, 6) ~= "ERROR:", out)
`
	path := filepath.Join(t.TempDir(), "spaces.lua")
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := run(t, sc, "script "+path)
	is.NoErr(err)
	hist := sc.cur.View().ClueHistory()
	is.Equal(len(hist), 1)
	is.Equal(hist[0].ClueWord, "ice cream")
	is.Equal(hist[0].IntendedWords, []string{"rock'n'roll"})
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.Contains(out, "autoplay"))
	out, err = run(t, sc, "help guess")
	is.NoErr(err)
	is.True(strings.Contains(out, "N+1"))
	out, _ = run(t, sc, "help nothing")
	is.True(strings.Contains(out, "no help text"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter()
	complete := func(line string) []string {
		cands, _ := c.Do([]rune(line), len([]rune(line)))
		out := make([]string, len(cands))
		for i, cand := range cands {
			out[i] = string(cand)
		}
		return out
	}
	is.Equal(complete("hi"), []string{"story "})
	is.Equal(complete("new -hu"), []string{"mans "})
	is.Equal(complete("new -humans sp"), []string{"ymaster "})
	is.Equal(complete("show "), []string{"spymaster "})
	is.Equal(len(complete("clue ")), 0)
}
