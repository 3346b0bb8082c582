// Package store persists game snapshots. Games are kept as whole
// snapshots; a store never interprets game rules beyond what it needs for
// listings and summaries.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/roster"
	"github.com/domino14/spymaster/stats"
)

var ErrNotFound = errors.New("game not found")

// Store is the persistence boundary. Save keeps the snapshot with the
// highest version; saving an older version of a game is a no-op.
type Store interface {
	Save(ctx context.Context, s *game.Snapshot) error
	Get(ctx context.Context, id string) (*game.Snapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Entry, error)
	Summary(ctx context.Context) (*Summary, error)
}

// Entry is one line of a game listing.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Version   int
	Phase     game.Phase
	Winner    board.Color
	Turns     int
}

func entryFor(s *game.Snapshot) Entry {
	return Entry{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Version:   s.Version,
		Phase:     s.Phase,
		Winner:    s.Winner,
		Turns:     len(s.ClueHistory),
	}
}

// Summary aggregates every stored game.
type Summary struct {
	TotalGames    int
	FinishedGames int
	// Games with at least one automated spymaster or operative.
	AutomatedSpymasterGames int
	AutomatedOperativeGames int
	ClueRatings             stats.Statistic
	GuessRatings            stats.Statistic
	Wins                    map[board.Color]int
}

func newSummary() *Summary {
	return &Summary{Wins: map[board.Color]int{board.Red: 0, board.Blue: 0}}
}

// gameFacts is what a summary needs from one game.
type gameFacts struct {
	phase              game.Phase
	winner             board.Color
	automatedSpymaster bool
	automatedOperative bool
	clueRating         int
	guessRating        int
}

func factsFor(s *game.Snapshot) gameFacts {
	f := gameFacts{
		phase:       s.Phase,
		winner:      s.Winner,
		clueRating:  s.ClueRating,
		guessRating: s.GuessRating,
	}
	for _, t := range s.Teams {
		for _, seat := range t.Seats {
			if !seat.Automated() {
				continue
			}
			switch seat.Role {
			case roster.Spymaster:
				f.automatedSpymaster = true
			case roster.Operative:
				f.automatedOperative = true
			}
		}
	}
	return f
}

func (s *Summary) add(f gameFacts) {
	s.TotalGames++
	if f.phase == game.Finished {
		s.FinishedGames++
		if f.winner.IsTeam() {
			s.Wins[f.winner]++
		}
	}
	if f.automatedSpymaster {
		s.AutomatedSpymasterGames++
	}
	if f.automatedOperative {
		s.AutomatedOperativeGames++
	}
	if f.clueRating > 0 {
		s.ClueRatings.Push(float64(f.clueRating))
	}
	if f.guessRating > 0 {
		s.GuessRatings.Push(float64(f.guessRating))
	}
}

// Summarize builds a summary from snapshots.
func Summarize(snaps []*game.Snapshot) *Summary {
	sum := newSummary()
	for _, s := range snaps {
		sum.add(factsFor(s))
	}
	return sum
}
