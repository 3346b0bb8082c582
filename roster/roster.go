// Package roster seats the four players of a game: a spymaster and an
// operative on each of the two teams. Each seat is held by a human or by
// an automated agent. A roster never changes once the game is created.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domino14/spymaster/board"
)

var ErrInvalidRoster = errors.New("invalid roster")

// Role is the job a seat performs.
type Role int

const (
	NoRole Role = iota
	// Spymaster gives the clues.
	Spymaster
	// Operative reveals cards based on the clue.
	Operative
)

func (r Role) String() string {
	switch r {
	case Spymaster:
		return "spymaster"
	case Operative:
		return "operative"
	}
	return "none"
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spymaster":
		return Spymaster, nil
	case "operative":
		return Operative, nil
	}
	return NoRole, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// OccupantKind says who sits in a seat.
type OccupantKind int

const (
	Human OccupantKind = iota
	Automated
)

func (k OccupantKind) String() string {
	if k == Automated {
		return "automated"
	}
	return "human"
}

func ParseOccupantKind(s string) (OccupantKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return Human, nil
	case "automated", "ai", "bot":
		return Automated, nil
	}
	return Human, fmt.Errorf("unknown occupant kind %q", s)
}

func (k OccupantKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *OccupantKind) UnmarshalText(b []byte) error {
	parsed, err := ParseOccupantKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type Seat struct {
	Kind OccupantKind `json:"kind" yaml:"kind"`
	Name string       `json:"name" yaml:"name"`
	Role Role         `json:"role" yaml:"role"`
}

func (s Seat) Automated() bool {
	return s.Kind == Automated
}

type Team struct {
	Color board.Color `json:"color" yaml:"color"`
	Seats [2]Seat     `json:"seats" yaml:"seats"`
}

// NewTeam is a convenience constructor; seat names are derived from the
// team name and the occupant kind.
func NewTeam(color board.Color, name string, spymaster, operative OccupantKind) Team {
	return Team{
		Color: color,
		Seats: [2]Seat{
			{Kind: spymaster, Name: seatName(name, spymaster), Role: Spymaster},
			{Kind: operative, Name: seatName(name, operative), Role: Operative},
		},
	}
}

func seatName(team string, kind OccupantKind) string {
	if kind == Automated {
		return team + " Bot"
	}
	return team + " Human"
}

func (t Team) validate() error {
	var spymasters, operatives int
	for _, s := range t.Seats {
		switch s.Role {
		case Spymaster:
			spymasters++
		case Operative:
			operatives++
		}
	}
	if spymasters != 1 || operatives != 1 {
		return fmt.Errorf("%w: %v team has %d spymaster(s) and %d operative(s)",
			ErrInvalidRoster, t.Color, spymasters, operatives)
	}
	return nil
}

func (t Team) seat(role Role) Seat {
	for _, s := range t.Seats {
		if s.Role == role {
			return s
		}
	}
	return Seat{}
}

type Roster struct {
	red  Team
	blue Team
}

// NewRoster validates both teams. The first argument must be the red team
// and the second the blue team.
func NewRoster(red, blue Team) (*Roster, error) {
	if red.Color != board.Red || blue.Color != board.Blue {
		return nil, fmt.Errorf("%w: teams must be red and blue, got %v and %v",
			ErrInvalidRoster, red.Color, blue.Color)
	}
	if err := red.validate(); err != nil {
		return nil, err
	}
	if err := blue.validate(); err != nil {
		return nil, err
	}
	return &Roster{red: red, blue: blue}, nil
}

// DefaultRoster seats humans in one role on both teams and bots in the
// other.
func DefaultRoster(humansAreSpymasters bool) *Roster {
	sp, op := Automated, Human
	if humansAreSpymasters {
		sp, op = Human, Automated
	}
	r, _ := NewRoster(NewTeam(board.Red, "Red", sp, op), NewTeam(board.Blue, "Blue", sp, op))
	return r
}

func (r *Roster) Team(c board.Color) Team {
	if c == board.Blue {
		return r.blue
	}
	return r.red
}

func (r *Roster) Teams() [2]Team {
	return [2]Team{r.red, r.blue}
}

func (r *Roster) Seat(c board.Color, role Role) Seat {
	return r.Team(c).seat(role)
}

func (r *Roster) Spymaster(c board.Color) Seat {
	return r.Seat(c, Spymaster)
}

func (r *Roster) Operative(c board.Color) Seat {
	return r.Seat(c, Operative)
}

// HasAutomated reports whether any seat with the given role is automated.
func (r *Roster) HasAutomated(role Role) bool {
	return r.Seat(board.Red, role).Automated() || r.Seat(board.Blue, role).Automated()
}

type rosterFile struct {
	Red  Team `yaml:"red"`
	Blue Team `yaml:"blue"`
}

// ParseRoster reads a roster preset in YAML:
//
//	red:
//	  color: red
//	  seats:
//	    - {kind: human, name: Ana, role: spymaster}
//	    - {kind: automated, name: Red Bot, role: operative}
//	blue: ...
func ParseRoster(data []byte) (*Roster, error) {
	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	if rf.Red.Color == board.NoColor {
		rf.Red.Color = board.Red
	}
	if rf.Blue.Color == board.NoColor {
		rf.Blue.Color = board.Blue
	}
	return NewRoster(rf.Red, rf.Blue)
}

func LoadRosterFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}
