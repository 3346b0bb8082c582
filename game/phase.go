package game

import "fmt"

// Phase is the stage of the current turn.
type Phase string

const (
	// Waiting means the active team's spymaster owes a clue.
	Waiting Phase = "waiting"
	// Guessing means a clue is active and the operative may reveal or pass.
	Guessing Phase = "guessing"
	// Finished is terminal.
	Finished Phase = "finished"
)

func (p Phase) valid() bool {
	return p == Waiting || p == Guessing || p == Finished
}

func (p Phase) String() string {
	return string(p)
}

func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.valid() {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}
