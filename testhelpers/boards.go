package testhelpers

import (
	"time"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/roster"
)

// DefaultConfig is a config with no pacing delay, suitable for tests.
var DefaultConfig = func() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigGuessDelay, time.Duration(0))
	return cfg
}()

var words = []string{
	"Quasar", "Zephyr", "Lantern", "Orchid", "Anvil",
	"Glacier", "Harbor", "Violin", "Comet", "Saddle",
	"Marble", "Falcon", "Pepper", "Tunnel", "Basket",
	"Cactus", "Ribbon", "Walrus", "Thimble", "Canyon",
	"Pirate", "Kettle", "Meadow", "Oyster", "Velvet",
}

// Cards returns a fixed layout for the given starting team: cards 0-8 are
// the starting team's, 9-16 the other team's, 17-23 neutral and 24 the
// assassin.
func Cards(startingTeam board.Color) []board.Card {
	cards := make([]board.Card, board.Size)
	for i, w := range words {
		var c board.Color
		switch {
		case i < 9:
			c = startingTeam
		case i < 17:
			c = startingTeam.Opponent()
		case i < 24:
			c = board.Neutral
		default:
			c = board.Assassin
		}
		cards[i] = board.Card{Word: w, Color: c}
	}
	return cards
}

const (
	FirstStartingIdx = 0
	FirstOtherIdx    = 9
	FirstNeutralIdx  = 17
	AssassinIdx      = 24
)

func Board(startingTeam board.Color) *board.Board {
	b, err := board.NewBoard(Cards(startingTeam), startingTeam)
	if err != nil {
		panic(err)
	}
	return b
}

// HumanRoster seats humans everywhere.
func HumanRoster() *roster.Roster {
	return Roster(roster.Human, roster.Human)
}

// Roster seats the given occupant kinds as spymasters and operatives on
// both teams.
func Roster(spymasters, operatives roster.OccupantKind) *roster.Roster {
	r, err := roster.NewRoster(
		roster.NewTeam(board.Red, "Red", spymasters, operatives),
		roster.NewTeam(board.Blue, "Blue", spymasters, operatives),
	)
	if err != nil {
		panic(err)
	}
	return r
}
