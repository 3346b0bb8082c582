package game

import (
	"fmt"
	"strings"
)

// Clue is a spymaster's hint. IntendedWords is advisory only: it records
// which board words the clue-giver had in mind, for display after the game.
type Clue struct {
	Word          string   `json:"word"`
	Count         int      `json:"count"`
	IntendedWords []string `json:"intended_words,omitempty"`
}

func (c Clue) String() string {
	return fmt.Sprintf("%s (%d)", c.Word, c.Count)
}

func (c Clue) copy() Clue {
	if c.IntendedWords != nil {
		c.IntendedWords = append([]string(nil), c.IntendedWords...)
	}
	return c
}

func (c Clue) validate() error {
	if strings.TrimSpace(c.Word) == "" {
		return fmt.Errorf("%w: empty word", ErrInvalidClue)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidClue, c.Count)
	}
	return nil
}

// ClueHistoryEntry is one line of the append-only clue log.
type ClueHistoryEntry struct {
	ClueWord      string   `json:"clue"`
	IntendedWords []string `json:"words"`
}
