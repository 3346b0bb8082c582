package agent

import (
	"context"
	"errors"
	"sync"
)

var errScriptExhausted = errors.New("script has no more replies")

// ScriptedBot answers with canned replies, in order. It records every
// request it receives.
type ScriptedBot struct {
	mu           sync.Mutex
	clueReplies  []string
	guessReplies []string

	ClueRequests  []ClueRequest
	GuessRequests []GuessRequest
}

func NewScriptedBot() *ScriptedBot {
	return &ScriptedBot{}
}

// AddClueReplies queues raw clue replies.
func (b *ScriptedBot) AddClueReplies(raw ...string) *ScriptedBot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clueReplies = append(b.clueReplies, raw...)
	return b
}

// AddGuessReplies queues raw guess replies.
func (b *ScriptedBot) AddGuessReplies(raw ...string) *ScriptedBot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.guessReplies = append(b.guessReplies, raw...)
	return b
}

func (b *ScriptedBot) GiveClue(ctx context.Context, req *ClueRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := *req
	cp.Rejected = append([]string(nil), req.Rejected...)
	b.ClueRequests = append(b.ClueRequests, cp)
	if len(b.clueReplies) == 0 {
		return "", errScriptExhausted
	}
	raw := b.clueReplies[0]
	b.clueReplies = b.clueReplies[1:]
	return raw, nil
}

func (b *ScriptedBot) Guess(ctx context.Context, req *GuessRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.GuessRequests = append(b.GuessRequests, *req)
	if len(b.guessReplies) == 0 {
		return "", errScriptExhausted
	}
	raw := b.guessReplies[0]
	b.guessReplies = b.guessReplies[1:]
	return raw, nil
}

// Calls returns how many clue and guess requests were made.
func (b *ScriptedBot) Calls() (clues, guesses int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ClueRequests), len(b.GuessRequests)
}
