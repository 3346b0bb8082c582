package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spymaster/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	Reset()
	cfg := config.DefaultConfig()
	calls := 0
	load := func(cfg *config.Config, key string) ([]string, error) {
		calls++
		return []string{key, "b"}, nil
	}
	v, err := LoadTyped(cfg, "words", load)
	is.NoErr(err)
	is.Equal(v, []string{"words", "b"})
	_, err = LoadTyped(cfg, "words", load)
	is.NoErr(err)
	is.Equal(calls, 1)

	Reset()
	_, err = LoadTyped(cfg, "words", load)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestFailedLoadNotCached(t *testing.T) {
	is := is.New(t)
	Reset()
	cfg := config.DefaultConfig()
	boom := errors.New("boom")
	_, err := Load(cfg, "k", func(*config.Config, string) (any, error) { return nil, boom })
	is.True(errors.Is(err, boom))
	v, err := Load(cfg, "k", func(*config.Config, string) (any, error) { return 7, nil })
	is.NoErr(err)
	is.Equal(v, 7)
}

func TestLoadTypedMismatch(t *testing.T) {
	is := is.New(t)
	Reset()
	cfg := config.DefaultConfig()
	_, err := Load(cfg, "n", func(*config.Config, string) (any, error) { return 7, nil })
	is.NoErr(err)
	_, err = LoadTyped(cfg, "n", func(*config.Config, string) (string, error) { return "x", nil })
	is.True(err != nil)
}
