package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/spymaster/board"
)

// RandomBot is an offline occupant that plays legal but random moves. Its
// clues come from a word list and never repeat a board word or an earlier
// clue while unused words remain.
type RandomBot struct {
	words []string
}

func NewRandomBot(words []string) *RandomBot {
	return &RandomBot{words: words}
}

func (b *RandomBot) GiveClue(ctx context.Context, req *ClueRequest) (string, error) {
	if len(b.words) == 0 {
		return "", fmt.Errorf("random bot has no words")
	}
	used := make(map[string]bool)
	for _, c := range req.Board {
		used[board.FoldWord(c.Word)] = true
	}
	for _, w := range append(append([]string{}, req.History...), req.Rejected...) {
		used[board.FoldWord(w)] = true
	}
	candidates := lo.Filter(b.words, func(w string, _ int) bool {
		return !used[board.FoldWord(w)]
	})
	if len(candidates) == 0 {
		candidates = b.words
	}
	word := candidates[frand.Intn(len(candidates))]

	own := lo.Filter(req.Board, func(c CardView, _ int) bool {
		return c.Color == req.Team && !c.Revealed
	})
	frand.Shuffle(len(own), func(i, j int) { own[i], own[j] = own[j], own[i] })
	count := 0
	if len(own) > 0 {
		count = 1 + frand.Intn(min(len(own), 3))
	}
	resp := ClueResponse{
		Word:          word,
		Count:         count,
		IntendedWords: lo.Map(own[:count], func(c CardView, _ int) string { return c.Word }),
	}
	bts, err := json.Marshal(resp)
	return string(bts), err
}

func (b *RandomBot) Guess(ctx context.Context, req *GuessRequest) (string, error) {
	picks := lo.Map(req.Unrevealed, func(c IndexedWord, _ int) int { return c.Index })
	frand.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
	n := min(len(picks), req.Clue.Count+1)
	bts, err := json.Marshal(GuessResponse{Guesses: picks[:n]})
	return string(bts), err
}
