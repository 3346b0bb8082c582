package boardgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/cache"
	"github.com/domino14/spymaster/config"
)

func TestDefaultWords(t *testing.T) {
	is := is.New(t)
	words := DefaultWords()
	is.True(len(words) > 300)
	is.Equal(words[0], "Africa")
}

func TestParseWords(t *testing.T) {
	is := is.New(t)
	words := ParseWords([]byte("# comment\nApple\n\n  pear \nAPPLE\nfig\n"))
	is.Equal(words, []string{"Apple", "pear", "fig"})
}

func TestGenerateValidBoards(t *testing.T) {
	is := is.New(t)
	gen, err := NewWordListGenerator(DefaultWords())
	is.NoErr(err)
	for i := 0; i < 50; i++ {
		start := CoinFlip()
		cards, err := gen.Generate(context.Background(), start)
		is.NoErr(err)
		b, err := board.NewBoard(cards, start)
		is.NoErr(err)
		counts := b.UnrevealedCounts()
		is.Equal(counts[start], 9)
		is.Equal(counts[start.Opponent()], 8)
		is.Equal(counts[board.Neutral], 7)
		is.Equal(counts[board.Assassin], 1)
	}
}

func TestCoinFlipIsFairEnough(t *testing.T) {
	is := is.New(t)
	reds := 0
	for i := 0; i < 2000; i++ {
		c := CoinFlip()
		is.True(c.IsTeam())
		if c == board.Red {
			reds++
		}
	}
	is.True(reds > 850 && reds < 1150)
}

func TestNotEnoughWords(t *testing.T) {
	is := is.New(t)
	_, err := NewWordListGenerator([]string{"a", "b"})
	is.True(errors.Is(err, ErrNotEnoughWords))

	words := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		words = append(words, "same")
	}
	gen, err := NewWordListGenerator(words)
	is.NoErr(err)
	_, err = gen.Generate(context.Background(), board.Red)
	is.True(errors.Is(err, ErrNotEnoughWords))
}

func TestNewBoard(t *testing.T) {
	is := is.New(t)
	gen, err := NewWordListGenerator(DefaultWords())
	is.NoErr(err)
	b, err := NewBoard(context.Background(), gen)
	is.NoErr(err)
	is.Equal(b.UnrevealedCounts()[b.StartingTeam()], 9)
}

func TestWordsFromConfig(t *testing.T) {
	is := is.New(t)
	cache.Reset()
	dir := t.TempDir()
	var content []byte
	for _, w := range DefaultWords()[:30] {
		content = append(content, []byte(w+"\n")...)
	}
	is.NoErr(os.WriteFile(filepath.Join(dir, "mine.txt"), content, 0o644))

	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, dir)
	cfg.Set(config.ConfigWordList, "mine.txt")
	words, err := Words(cfg)
	is.NoErr(err)
	is.Equal(len(words), 30)

	cfg.Set(config.ConfigWordList, "missing.txt")
	_, err = Words(cfg)
	is.True(err != nil)
}
