package game

import (
	"fmt"
	"strings"

	"github.com/domino14/spymaster/board"
)

// ToDisplayText renders the board followed by the turn status. The
// spymaster view shows every card's color.
func (g *Game) ToDisplayText(spymasterView, useColor bool) string {
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText(spymasterView, useColor))
	sb.WriteString("\n")
	counts := g.board.UnrevealedCounts()
	fmt.Fprintf(&sb, "Game %s  (red %d left, blue %d left)\n", g.id,
		counts[board.Red], counts[board.Blue])
	switch g.phase {
	case Waiting:
		fmt.Fprintf(&sb, "%v spymaster to give a clue\n", g.activeTeam)
	case Guessing:
		fmt.Fprintf(&sb, "%v operative guessing on %v, %d guess(es) left\n",
			g.activeTeam, *g.activeClue, *g.guessesRemaining)
	case Finished:
		fmt.Fprintf(&sb, "Game over: %v wins\n", g.winner)
		if c, gs, ok := g.Ratings(); ok {
			fmt.Fprintf(&sb, "Rated clues %d/5, guesses %d/5\n", c, gs)
		}
	}
	return sb.String()
}

// HistoryText lists the clues given so far with the words they were meant
// for.
func (g *Game) HistoryText() string {
	var sb strings.Builder
	for i, e := range g.clueHistory {
		fmt.Fprintf(&sb, "%2d. %s", i+1, e.ClueWord)
		if len(e.IntendedWords) > 0 {
			fmt.Fprintf(&sb, " -> %s", strings.Join(e.IntendedWords, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
