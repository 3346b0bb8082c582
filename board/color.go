package board

import (
	"fmt"
	"strings"
)

// Color is the hidden affiliation of a card. Red and Blue double as the
// identities of the two teams.
type Color int

const (
	NoColor Color = iota
	Red
	Blue
	Neutral
	Assassin
)

var colorNames = map[Color]string{
	NoColor:  "none",
	Red:      "red",
	Blue:     "blue",
	Neutral:  "neutral",
	Assassin: "assassin",
}

func (c Color) String() string {
	if n, ok := colorNames[c]; ok {
		return n
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// IsTeam is true for the two team colors.
func (c Color) IsTeam() bool {
	return c == Red || c == Blue
}

// Opponent returns the other team. It returns NoColor for non-team colors.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	}
	return NoColor
}

// ParseColor parses a color name, case-insensitively.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range colorNames {
		if n == s && c != NoColor {
			return c, nil
		}
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

// ParseTeam parses a color name and requires it to be a team color.
func ParseTeam(s string) (Color, error) {
	c, err := ParseColor(s)
	if err != nil {
		return NoColor, err
	}
	if !c.IsTeam() {
		return NoColor, fmt.Errorf("%v is not a team", c)
	}
	return c, nil
}

func (c Color) MarshalText() ([]byte, error) {
	if c == NoColor {
		return []byte(""), nil
	}
	if _, ok := colorNames[c]; !ok {
		return nil, fmt.Errorf("cannot marshal %v", c)
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = NoColor
		return nil
	}
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
