package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/roster"
)

// Snapshot is the persisted and transmitted form of a game. It is a plain
// value; restoring it with FromSnapshot validates it as thoroughly as a
// freshly built game.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`

	Cards        []board.Card   `json:"cards"`
	StartingTeam board.Color    `json:"starting_team"`
	Fingerprint  string         `json:"fingerprint"`
	Teams        [2]roster.Team `json:"teams"`

	ActiveTeam       board.Color `json:"active_team"`
	Phase            Phase       `json:"phase"`
	ActiveClue       *Clue       `json:"active_clue,omitempty"`
	GuessesRemaining *int        `json:"guesses_remaining,omitempty"`
	Winner           board.Color `json:"winner,omitempty"`

	ClueHistory []ClueHistoryEntry `json:"clue_history"`
	ClueRating  int                `json:"clue_rating,omitempty"`
	GuessRating int                `json:"guess_rating,omitempty"`
	Events      []Event            `json:"events"`
}

func fingerprint(b *board.Board) string {
	return strconv.FormatUint(b.Fingerprint(), 16)
}

// Snapshot captures the full state of the game. The result shares nothing
// with the game.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:           g.id,
		CreatedAt:    g.createdAt,
		Version:      g.version,
		Cards:        g.board.Cards(),
		StartingTeam: g.board.StartingTeam(),
		Fingerprint:  fingerprint(g.board),
		Teams:        g.roster.Teams(),
		ActiveTeam:   g.activeTeam,
		Phase:        g.phase,
		Winner:       g.winner,
		ClueHistory:  g.ClueHistory(),
		ClueRating:   g.clueRating,
		GuessRating:  g.guessRating,
		Events:       g.Events(),
	}
	if g.activeClue != nil {
		c := g.activeClue.copy()
		s.ActiveClue = &c
	}
	if g.guessesRemaining != nil {
		n := *g.guessesRemaining
		s.GuessesRemaining = &n
	}
	return s
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// FromSnapshot rebuilds a game. Any inconsistency is reported as
// ErrCorruptSnapshot, wrapping the underlying layout or roster error when
// there is one.
func FromSnapshot(s *Snapshot) (*Game, error) {
	if s == nil {
		return nil, corrupt("nil snapshot")
	}
	if s.ID == "" {
		return nil, corrupt("missing id")
	}
	b, err := board.Restore(s.Cards, s.StartingTeam)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if s.Fingerprint != "" && s.Fingerprint != fingerprint(b) {
		return nil, corrupt("fingerprint %s does not match layout", s.Fingerprint)
	}
	r, err := roster.NewRoster(s.Teams[0], s.Teams[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if !s.ActiveTeam.IsTeam() {
		return nil, corrupt("active team %v", s.ActiveTeam)
	}
	if s.Version < 0 {
		return nil, corrupt("negative version")
	}

	switch s.Phase {
	case Waiting:
		if s.ActiveClue != nil || s.GuessesRemaining != nil {
			return nil, corrupt("waiting with an active clue")
		}
	case Guessing:
		if s.ActiveClue == nil || s.GuessesRemaining == nil {
			return nil, corrupt("guessing without an active clue")
		}
		if *s.GuessesRemaining < 1 || *s.GuessesRemaining > s.ActiveClue.Count+1 {
			return nil, corrupt("guess budget %d for a clue of %d", *s.GuessesRemaining, s.ActiveClue.Count)
		}
	case Finished:
		if !s.Winner.IsTeam() {
			return nil, corrupt("finished without a winner")
		}
	default:
		return nil, corrupt("unknown phase %q", s.Phase)
	}
	if s.Phase != Finished {
		if s.Winner != board.NoColor {
			return nil, corrupt("winner set while %v", s.Phase)
		}
		if s.ClueRating != 0 || s.GuessRating != 0 {
			return nil, corrupt("rated while %v", s.Phase)
		}
		if b.AllOfColorRevealed(board.Assassin) || b.AllOfColorRevealed(board.Red) ||
			b.AllOfColorRevealed(board.Blue) {
			return nil, corrupt("game should be over")
		}
	}
	for _, r := range []int{s.ClueRating, s.GuessRating} {
		if r != 0 && (r < MinRating || r > MaxRating) {
			return nil, corrupt("rating %d", r)
		}
	}
	if (s.ClueRating == 0) != (s.GuessRating == 0) {
		return nil, corrupt("partial rating")
	}

	g := &Game{
		id:          s.ID,
		createdAt:   s.CreatedAt,
		board:       b,
		roster:      r,
		activeTeam:  s.ActiveTeam,
		phase:       s.Phase,
		winner:      s.Winner,
		clueRating:  s.ClueRating,
		guessRating: s.GuessRating,
		version:     s.Version,
	}
	if s.ActiveClue != nil {
		c := s.ActiveClue.copy()
		g.activeClue = &c
	}
	if s.GuessesRemaining != nil {
		n := *s.GuessesRemaining
		g.guessesRemaining = &n
	}
	g.clueHistory = make([]ClueHistoryEntry, len(s.ClueHistory))
	for i, e := range s.ClueHistory {
		e.IntendedWords = append([]string{}, e.IntendedWords...)
		g.clueHistory[i] = e
	}
	g.events = make([]Event, len(s.Events))
	for i, e := range s.Events {
		g.events[i] = e.copy()
	}
	return g, nil
}

// MarshalBinary encodes the snapshot as a protobuf Struct, the form it
// travels in on the message bus.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	bts, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(bts, &m); err != nil {
		return nil, err
	}
	pb, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

func (s *Snapshot) UnmarshalBinary(data []byte) error {
	pb := &structpb.Struct{}
	if err := proto.Unmarshal(data, pb); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	bts, err := json.Marshal(pb.AsMap())
	if err != nil {
		return err
	}
	*s = Snapshot{}
	if err := json.Unmarshal(bts, s); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return nil
}
