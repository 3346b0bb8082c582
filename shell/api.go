package shell

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/domino14/spymaster/automatic"
	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/roster"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// rosterForHumans seats the person at the keyboard in the named role on
// both teams and automated agents everywhere else.
func rosterForHumans(humans string) (*roster.Roster, error) {
	var sp, op roster.OccupantKind
	switch humans {
	case "", "operative":
		sp, op = roster.Automated, roster.Human
	case "spymaster":
		sp, op = roster.Human, roster.Automated
	case "all":
		sp, op = roster.Human, roster.Human
	case "none":
		sp, op = roster.Automated, roster.Automated
	default:
		return nil, fmt.Errorf("-humans must be spymaster, operative, all or none, not %q", humans)
	}
	return roster.NewRoster(
		roster.NewTeam(board.Red, "Red", sp, op),
		roster.NewTeam(board.Blue, "Blue", sp, op),
	)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	var (
		r   *roster.Roster
		err error
	)
	if path := cmd.options.String("roster"); path != "" {
		r, err = roster.LoadRosterFile(path)
	} else {
		r, err = rosterForHumans(cmd.options.String("humans"))
	}
	if err != nil {
		return nil, err
	}
	gr, err := sc.registry.Create(sc.ctx, sc.gen, r)
	if err != nil {
		return nil, err
	}
	sc.cur = gr
	return sc.advance()
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <game id>")
	}
	gr, err := sc.registry.Get(sc.ctx, cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.cur = gr
	return sc.advance()
}

// advance lets the automated seats play, then shows the game.
func (sc *ShellController) advance() (*Response, error) {
	err := sc.cur.Advance(sc.ctx)
	text := sc.displayText(false)
	if err != nil {
		return msg(text + "\nAutomated play stopped: " + err.Error()), nil
	}
	return msg(text), nil
}

func (sc *ShellController) displayText(spymaster bool) string {
	view := sc.cur.View()
	if seat, ok := view.ActiveSeat(); ok && !seat.Automated() && seat.Role == roster.Spymaster &&
		view.Phase() == game.Waiting {
		spymaster = true
	}
	return view.ToDisplayText(spymaster || view.Finished(), sc.color)
}

// humanSeat returns the active team if its active seat is held by a human.
func (sc *ShellController) humanSeat(role roster.Role) (board.Color, error) {
	if sc.cur == nil {
		return board.NoColor, errNoGame
	}
	view := sc.cur.View()
	seat, ok := view.ActiveSeat()
	if !ok {
		return board.NoColor, fmt.Errorf("%w: the game is over", game.ErrIllegalTransition)
	}
	if seat.Role != role {
		return board.NoColor, fmt.Errorf("%w: it is the %v %v's turn", game.ErrNotYourTurn,
			view.ActiveTeam(), seat.Role)
	}
	if seat.Automated() {
		return board.NoColor, fmt.Errorf("%w: the %v %v is automated", game.ErrNotYourTurn,
			view.ActiveTeam(), seat.Role)
	}
	return view.ActiveTeam(), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.cur == nil {
		return nil, errNoGame
	}
	spymaster := len(cmd.args) > 0 && cmd.args[0] == "spymaster"
	return msg(sc.displayText(spymaster)), nil
}

func (sc *ShellController) clue(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: clue <word> <count> [intended words...]")
	}
	team, err := sc.humanSeat(roster.Spymaster)
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(cmd.args[1])
	if err != nil {
		return nil, fmt.Errorf("%w: count %q is not a number", game.ErrInvalidClue, cmd.args[1])
	}
	c := game.Clue{Word: cmd.args[0], Count: count, IntendedWords: cmd.args[2:]}
	if err := sc.cur.SubmitClue(sc.ctx, team, c); err != nil {
		return nil, err
	}
	return sc.advance()
}

func (sc *ShellController) guess(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: guess <index|word>...")
	}
	team, err := sc.humanSeat(roster.Operative)
	if err != nil {
		return nil, err
	}
	b := sc.cur.View().Board()
	var lines []string
	for _, arg := range cmd.args {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			idx = b.IndexOf(arg)
			if idx < 0 {
				return nil, fmt.Errorf("%q is not on the board", arg)
			}
		}
		out, err := sc.cur.RevealCard(sc.ctx, team, idx)
		if err != nil {
			return nil, err
		}
		lines = append(lines, out.String())
		if out.Outcome != game.Continued {
			break
		}
	}
	resp, err := sc.advance()
	if err != nil {
		return nil, err
	}
	return msg(strings.Join(lines, "\n") + "\n" + resp.message), nil
}

func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	team, err := sc.humanSeat(roster.Operative)
	if err != nil {
		return nil, err
	}
	if err := sc.cur.PassTurn(sc.ctx, team); err != nil {
		return nil, err
	}
	return sc.advance()
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.cur == nil {
		return nil, errNoGame
	}
	h := sc.cur.View().HistoryText()
	if h == "" {
		return msg("No clues yet."), nil
	}
	return msg(h), nil
}

func (sc *ShellController) rate(cmd *shellcmd) (*Response, error) {
	if sc.cur == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: rate <clue rating> <guess rating>")
	}
	ratings := make([]int, 2)
	for i, a := range cmd.args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", game.ErrInvalidRating, a)
		}
		ratings[i] = v
	}
	if err := sc.cur.Rate(sc.ctx, ratings[0], ratings[1]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Thanks! Clues %d/5, guesses %d/5.", ratings[0], ratings[1])), nil
}

func (sc *ShellController) list(cmd *shellcmd) (*Response, error) {
	entries, err := sc.registry.Store().List(sc.ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return msg("No games stored."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-36s  %-19s  %-8s  %-6s  %s\n", "ID", "Created", "Phase", "Winner", "Clues")
	for _, e := range entries {
		winner := "-"
		if e.Winner.IsTeam() {
			winner = e.Winner.String()
		}
		fmt.Fprintf(&sb, "%-36s  %-19s  %-8s  %-6s  %d\n", e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Phase, winner, e.Turns)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	sum, err := sc.registry.Store().Summary(sc.ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games: %d (%d finished)\n", sum.TotalGames, sum.FinishedGames)
	fmt.Fprintf(&sb, "Red wins: %d, blue wins: %d\n", sum.Wins[board.Red], sum.Wins[board.Blue])
	fmt.Fprintf(&sb, "With automated spymasters: %d, automated operatives: %d\n",
		sum.AutomatedSpymasterGames, sum.AutomatedOperativeGames)
	fmt.Fprintf(&sb, "Clue ratings: %v\n", &sum.ClueRatings)
	fmt.Fprintf(&sb, "Guess ratings: %v\n", &sum.GuessRatings)
	return msg(sb.String()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	report, err := automatic.Play(sc.ctx, sc.config, automatic.Options{
		Games:    games,
		Threads:  threads,
		LogFile:  cmd.options.String("file"),
		Occupant: sc.occupant,
	})
	if err != nil {
		return nil, err
	}
	return msg(report.String()), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = cmd.args[0]
	}
	return msg(usageTopic(topic)), nil
}
