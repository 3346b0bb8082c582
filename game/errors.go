package game

import (
	"errors"
	"fmt"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/roster"
)

var (
	// ErrIllegalTransition is returned for any operation attempted in a
	// phase that does not allow it. The game is left untouched.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrNotYourTurn is an illegal transition attempted by a seat that is
	// not on turn.
	ErrNotYourTurn = fmt.Errorf("%w: not your turn", ErrIllegalTransition)

	ErrInvalidClue     = errors.New("invalid clue")
	ErrInvalidRating   = errors.New("invalid rating")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	ErrAlreadyRevealed = board.ErrAlreadyRevealed
	ErrIndexOutOfRange = board.ErrIndexOutOfRange
	ErrInvalidLayout   = board.ErrInvalidLayout
	ErrInvalidRoster   = roster.ErrInvalidRoster
)

func illegal(op string, p Phase) error {
	return fmt.Errorf("%w: cannot %s while %v", ErrIllegalTransition, op, p)
}
