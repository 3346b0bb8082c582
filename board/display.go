package board

import (
	"fmt"
	"strings"
)

const (
	Rows    = 5
	Columns = 5

	cellWidth = 16
)

var colorCodes = map[Color]string{
	Red:      "\033[31m",
	Blue:     "\033[34m",
	Neutral:  "\033[33m",
	Assassin: "\033[35m",
}

const resetCode = "\033[0m"

// ToDisplayText renders the board as a 5x5 grid. Operatives see only
// revealed colors; the spymaster view shows every color, with revealed
// cards marked by a '*'.
func (b *Board) ToDisplayText(spymasterView, useColor bool) string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			idx := r*Columns + c
			card := b.cards[idx]
			label := fmt.Sprintf("%2d %s", idx, card.Word)
			show := card.Revealed || spymasterView
			if card.Revealed {
				label += "*"
			}
			if show && !useColor {
				label += " " + string(strings.ToUpper(card.Color.String())[0])
			}
			cell := fmt.Sprintf("%-*s", cellWidth, label)
			if show && useColor {
				cell = colorCodes[card.Color] + cell + resetCode
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
