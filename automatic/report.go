package automatic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/stats"
)

const logHeader = "gameID,startingTeam,winner,turns,reveals,assassin\n"

// Result is the outcome of one self-play game.
type Result struct {
	GameID       string
	StartingTeam board.Color
	Winner       board.Color
	Turns        int
	Reveals      int
	Assassin     bool
}

func resultOf(g *game.Game) Result {
	reveals := lo.Filter(g.Events(), func(e game.Event, _ int) bool {
		return e.Type == game.EventReveal
	})
	return Result{
		GameID:       g.ID(),
		StartingTeam: g.StartingTeam(),
		Winner:       g.Winner(),
		Turns:        g.Turn(),
		Reveals:      len(reveals),
		Assassin: len(reveals) > 0 &&
			reveals[len(reveals)-1].Reason == game.ReasonAssassin,
	}
}

func (r Result) logLine() string {
	return fmt.Sprintf("%s,%v,%v,%d,%d,%v\n", r.GameID, r.StartingTeam, r.Winner,
		r.Turns, r.Reveals, r.Assassin)
}

func parseResult(record []string) (Result, error) {
	if len(record) != 6 {
		return Result{}, fmt.Errorf("want 6 fields, have %d", len(record))
	}
	var (
		res Result
		err error
	)
	res.GameID = record[0]
	if res.StartingTeam, err = board.ParseTeam(record[1]); err != nil {
		return res, err
	}
	if res.Winner, err = board.ParseTeam(record[2]); err != nil {
		return res, err
	}
	if res.Turns, err = strconv.Atoi(record[3]); err != nil {
		return res, err
	}
	if res.Reveals, err = strconv.Atoi(record[4]); err != nil {
		return res, err
	}
	if res.Assassin, err = strconv.ParseBool(record[5]); err != nil {
		return res, err
	}
	return res, nil
}

// Report sums up a batch of self-play games.
type Report struct {
	Games          int
	Wins           map[board.Color]int
	AssassinLosses int
	// FirstTeam counts wins of the team that moved first.
	FirstTeam stats.WinRate
	Turns     stats.Statistic
	Reveals   stats.Statistic

	turns []float64
}

func NewReport() *Report {
	return &Report{Wins: make(map[board.Color]int)}
}

func (r *Report) Add(res Result) {
	r.Games++
	r.Wins[res.Winner]++
	if res.Assassin {
		r.AssassinLosses++
	}
	r.FirstTeam.Games++
	if res.Winner == res.StartingTeam {
		r.FirstTeam.Wins++
	}
	r.Turns.Push(float64(res.Turns))
	r.Reveals.Push(float64(res.Reveals))
	r.turns = append(r.turns, float64(res.Turns))
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", r.Games)
	fmt.Fprintf(&sb, "Red wins: %d\n", r.Wins[board.Red])
	fmt.Fprintf(&sb, "Blue wins: %d\n", r.Wins[board.Blue])
	fmt.Fprintf(&sb, "Lost to the assassin: %d\n", r.AssassinLosses)
	fmt.Fprintf(&sb, "First team wins: %v\n", r.FirstTeam)
	fmt.Fprintf(&sb, "Clues per game: %v\n", &r.Turns)
	fmt.Fprintf(&sb, "Reveals per game: %v\n", &r.Reveals)
	if len(r.turns) > 1 && r.Turns.Min() < r.Turns.Max() {
		sb.WriteString("Clues per game histogram:\n")
		bins := min(15, len(r.turns))
		if err := histogram.Fprint(&sb, histogram.Hist(bins, r.turns), histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(no histogram: %v)\n", err)
		}
	}
	return sb.String()
}
