// Package board holds the 25-card layout of a game and its reveal flags.
// The layout never changes after construction; only the Revealed flag of a
// card can move, and only from false to true.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

const (
	// Size is the number of cards on a board.
	Size = 25

	MajorityCount = 9
	MinorityCount = 8
	NeutralCount  = 7
	AssassinCount = 1
)

var (
	ErrInvalidLayout   = errors.New("invalid board layout")
	ErrAlreadyRevealed = errors.New("card already revealed")
	ErrIndexOutOfRange = errors.New("card index out of range")
)

// Card is a single word on the board and its hidden color.
type Card struct {
	Word     string `json:"word"`
	Color    Color  `json:"color"`
	Revealed bool   `json:"revealed"`
}

// IndexedCard is a card together with its position on the board.
type IndexedCard struct {
	Card
	Index int `json:"index"`
}

// Distribution returns the color counts a board must have when the given
// team starts. The starting team always holds the majority.
func Distribution(startingTeam Color) map[Color]int {
	return map[Color]int{
		startingTeam:            MajorityCount,
		startingTeam.Opponent(): MinorityCount,
		Neutral:                 NeutralCount,
		Assassin:                AssassinCount,
	}
}

// FoldWord case-folds a word for comparisons.
func FoldWord(w string) string {
	return cases.Fold().String(strings.TrimSpace(w))
}

type Board struct {
	cards        []Card
	startingTeam Color
}

// NewBoard validates a layout and returns a board that owns a copy of it.
func NewBoard(cards []Card, startingTeam Color) (*Board, error) {
	if !startingTeam.IsTeam() {
		return nil, fmt.Errorf("%w: starting team %v is not a team", ErrInvalidLayout, startingTeam)
	}
	if len(cards) != Size {
		return nil, fmt.Errorf("%w: have %d cards, need %d", ErrInvalidLayout, len(cards), Size)
	}
	seen := make(map[string]bool, Size)
	counts := make(map[Color]int)
	for i, c := range cards {
		if strings.TrimSpace(c.Word) == "" {
			return nil, fmt.Errorf("%w: card %d has no word", ErrInvalidLayout, i)
		}
		if c.Revealed {
			return nil, fmt.Errorf("%w: card %d is already revealed", ErrInvalidLayout, i)
		}
		fw := FoldWord(c.Word)
		if seen[fw] {
			return nil, fmt.Errorf("%w: duplicate word %q", ErrInvalidLayout, c.Word)
		}
		seen[fw] = true
		if _, ok := colorNames[c.Color]; !ok || c.Color == NoColor {
			return nil, fmt.Errorf("%w: card %d has color %v", ErrInvalidLayout, i, c.Color)
		}
		counts[c.Color]++
	}
	for color, want := range Distribution(startingTeam) {
		if counts[color] != want {
			return nil, fmt.Errorf("%w: %d %v cards, need %d", ErrInvalidLayout,
				counts[color], color, want)
		}
	}
	b := &Board{cards: make([]Card, Size), startingTeam: startingTeam}
	copy(b.cards, cards)
	return b, nil
}

// StartingTeam is the team holding the majority of cards.
func (b *Board) StartingTeam() Color {
	return b.startingTeam
}

func (b *Board) CardAt(idx int) (Card, error) {
	if idx < 0 || idx >= len(b.cards) {
		return Card{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
	}
	return b.cards[idx], nil
}

// Cards returns a copy of all cards in board order.
func (b *Board) Cards() []Card {
	cp := make([]Card, len(b.cards))
	copy(cp, b.cards)
	return cp
}

// Reveal flips the card at idx. Revealing a card twice is an error and
// changes nothing.
func (b *Board) Reveal(idx int) (Card, error) {
	c, err := b.CardAt(idx)
	if err != nil {
		return c, err
	}
	if c.Revealed {
		return c, fmt.Errorf("%w: %q", ErrAlreadyRevealed, c.Word)
	}
	b.cards[idx].Revealed = true
	return b.cards[idx], nil
}

func (b *Board) AllOfColorRevealed(color Color) bool {
	return b.CountUnrevealed(color) == 0
}

func (b *Board) CountUnrevealed(color Color) int {
	return lo.CountBy(b.cards, func(c Card) bool {
		return c.Color == color && !c.Revealed
	})
}

// UnrevealedCounts returns the number of hidden cards per color.
func (b *Board) UnrevealedCounts() map[Color]int {
	return map[Color]int{
		Red:      b.CountUnrevealed(Red),
		Blue:     b.CountUnrevealed(Blue),
		Neutral:  b.CountUnrevealed(Neutral),
		Assassin: b.CountUnrevealed(Assassin),
	}
}

// Unrevealed returns the hidden cards along with their board positions.
func (b *Board) Unrevealed() []IndexedCard {
	indexed := lo.Map(b.cards, func(c Card, i int) IndexedCard {
		return IndexedCard{Card: c, Index: i}
	})
	return lo.Filter(indexed, func(c IndexedCard, _ int) bool {
		return !c.Revealed
	})
}

func (b *Board) Words() []string {
	return lo.Map(b.cards, func(c Card, _ int) string { return c.Word })
}

// HasWord reports whether w is on the board, ignoring case.
func (b *Board) HasWord(w string) bool {
	return b.IndexOf(w) >= 0
}

// IndexOf returns the position of w on the board, ignoring case, or -1.
func (b *Board) IndexOf(w string) int {
	fw := FoldWord(w)
	_, idx, ok := lo.FindIndexOf(b.cards, func(c Card) bool {
		return FoldWord(c.Word) == fw
	})
	if !ok {
		return -1
	}
	return idx
}

// Fingerprint hashes the layout (words and colors, not reveal flags).
func (b *Board) Fingerprint() uint64 {
	h := xxhash.New()
	for _, c := range b.cards {
		h.Write([]byte(c.Word))
		h.Write([]byte{0, byte(c.Color)})
	}
	return h.Sum64()
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	return &Board{cards: b.Cards(), startingTeam: b.startingTeam}
}

// Restore builds a board from a saved card list, keeping reveal flags. The
// layout itself is validated exactly like a fresh one.
func Restore(cards []Card, startingTeam Color) (*Board, error) {
	fresh := lo.Map(cards, func(c Card, _ int) Card {
		c.Revealed = false
		return c
	})
	b, err := NewBoard(fresh, startingTeam)
	if err != nil {
		return nil, err
	}
	for i, c := range cards {
		b.cards[i].Revealed = c.Revealed
	}
	return b, nil
}
