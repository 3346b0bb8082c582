// Package boardgen creates fresh board layouts.
package boardgen

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"lukechampine.com/frand"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/cache"
	"github.com/domino14/spymaster/config"
)

//go:embed words.txt
var builtinWords []byte

var ErrNotEnoughWords = errors.New("not enough distinct words for a board")

// Generator produces the 25 cards of a new board. The starting team must
// get the majority. Output is always validated by board.NewBoard; a
// generator is never trusted blindly.
type Generator interface {
	Generate(ctx context.Context, startingTeam board.Color) ([]board.Card, error)
}

// CoinFlip picks the starting team.
func CoinFlip() board.Color {
	if frand.Intn(2) == 0 {
		return board.Red
	}
	return board.Blue
}

// NewBoard flips for the starting team, asks gen for cards and validates
// them.
func NewBoard(ctx context.Context, gen Generator) (*board.Board, error) {
	start := CoinFlip()
	cards, err := gen.Generate(ctx, start)
	if err != nil {
		return nil, err
	}
	return board.NewBoard(cards, start)
}

// ParseWords reads one word per line, skipping blanks, comments and case
// insensitive duplicates.
func ParseWords(data []byte) []string {
	var words []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		fw := board.FoldWord(w)
		if seen[fw] {
			continue
		}
		seen[fw] = true
		words = append(words, w)
	}
	return words
}

// DefaultWords returns the built-in word list.
func DefaultWords() []string {
	return ParseWords(builtinWords)
}

func loadWordFile(cfg *config.Config, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWords(data), nil
}

// Words returns the word list named by the config, or the built-in one.
// Lists are loaded once per process.
func Words(cfg *config.Config) ([]string, error) {
	name := cfg.GetString(config.ConfigWordList)
	if name == "" {
		return cache.LoadTyped(cfg, "wordlist:builtin", func(*config.Config, string) ([]string, error) {
			return DefaultWords(), nil
		})
	}
	path := cfg.DataFile(name)
	return cache.LoadTyped(cfg, path, loadWordFile)
}

// WordListGenerator deals random words from a list and colors them per
// board.Distribution.
type WordListGenerator struct {
	words []string
}

func NewWordListGenerator(words []string) (*WordListGenerator, error) {
	if len(words) < board.Size {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughWords, len(words), board.Size)
	}
	return &WordListGenerator{words: words}, nil
}

// NewWordListGeneratorFromConfig uses the word list named by the config.
func NewWordListGeneratorFromConfig(cfg *config.Config) (*WordListGenerator, error) {
	words, err := Words(cfg)
	if err != nil {
		return nil, err
	}
	return NewWordListGenerator(words)
}

// Words returns the list the generator deals from.
func (g *WordListGenerator) Words() []string {
	return g.words
}

func (g *WordListGenerator) Generate(ctx context.Context, startingTeam board.Color) ([]board.Card, error) {
	if !startingTeam.IsTeam() {
		return nil, fmt.Errorf("%w: starting team %v", board.ErrInvalidLayout, startingTeam)
	}
	perm := frand.Perm(len(g.words))
	picked := make([]string, 0, board.Size)
	seen := make(map[string]bool, board.Size)
	for _, i := range perm {
		fw := board.FoldWord(g.words[i])
		if seen[fw] {
			continue
		}
		seen[fw] = true
		picked = append(picked, g.words[i])
		if len(picked) == board.Size {
			break
		}
	}
	if len(picked) < board.Size {
		return nil, fmt.Errorf("%w: have %d distinct", ErrNotEnoughWords, len(picked))
	}
	return Deal(picked, startingTeam), nil
}

// Deal colors 25 words per board.Distribution in random positions.
func Deal(words []string, startingTeam board.Color) []board.Card {
	colors := make([]board.Color, 0, board.Size)
	for _, c := range []board.Color{board.Red, board.Blue, board.Neutral, board.Assassin} {
		for range board.Distribution(startingTeam)[c] {
			colors = append(colors, c)
		}
	}
	frand.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })
	cards := make([]board.Card, len(words))
	for i, w := range words {
		cards[i] = board.Card{Word: w, Color: colors[i]}
	}
	return cards
}
