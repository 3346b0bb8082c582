package llm

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Ingenimax/agent-sdk-go/pkg/interfaces"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/board"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(n int) int { return n + 1 },
}).ParseFS(promptFS, "prompts/*.tmpl"))

// BoardAttempts is how many times Generate asks for a board before giving up.
const BoardAttempts = 3

// completer is the part of an LLM client the oracle uses.
type completer interface {
	Generate(ctx context.Context, prompt string, options ...interfaces.GenerateOption) (string, error)
}

// Oracle answers agent requests and deals boards with a language model.
type Oracle struct {
	client   completer
	provider string
}

// NewOracle connects to the configured provider.
func NewOracle(ctx context.Context, c *Config) (*Oracle, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	client, err := newClient(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", c.Provider, err)
	}
	return &Oracle{client: client, provider: c.Provider}, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (o *Oracle) ask(ctx context.Context, name string, data any) (string, error) {
	prompt, err := render(name, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	log.Debug().Str("provider", o.provider).Str("prompt", name).Msg("llm-request")
	reply, err := o.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", o.provider, err)
	}
	log.Debug().Str("provider", o.provider).Str("reply", reply).Msg("llm-reply")
	return reply, nil
}

func (o *Oracle) GiveClue(ctx context.Context, req *agent.ClueRequest) (string, error) {
	return o.ask(ctx, "clue.tmpl", req)
}

func (o *Oracle) Guess(ctx context.Context, req *agent.GuessRequest) (string, error) {
	return o.ask(ctx, "guess.tmpl", req)
}

type boardPrompt struct {
	Red, Blue, Neutral, Assassin, Max int
}

// Generate asks the model for a board. Replies that cannot be made into a
// valid layout are asked for again, up to BoardAttempts times.
func (o *Oracle) Generate(ctx context.Context, startingTeam board.Color) ([]board.Card, error) {
	if !startingTeam.IsTeam() {
		return nil, fmt.Errorf("%w: starting team %v", board.ErrInvalidLayout, startingTeam)
	}
	dist := board.Distribution(startingTeam)
	data := boardPrompt{
		Red:      dist[board.Red],
		Blue:     dist[board.Blue],
		Neutral:  dist[board.Neutral],
		Assassin: dist[board.Assassin],
		Max:      board.MajorityCount,
	}
	return retry.DoWithData(
		func() ([]board.Card, error) {
			reply, err := o.ask(ctx, "board.tmpl", data)
			if err != nil {
				return nil, err
			}
			cards, err := ParseBoard(reply, startingTeam)
			if err != nil {
				return nil, err
			}
			if _, err := board.NewBoard(cards, startingTeam); err != nil {
				return nil, err
			}
			return cards, nil
		},
		retry.Context(ctx),
		retry.Attempts(BoardAttempts),
		retry.LastErrorOnly(true),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, board.ErrInvalidLayout)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("llm-board-rejected")
		}),
	)
}

type wireCard struct {
	Word string `json:"word"`
	Type string `json:"type"`
}

// ParseBoard reads a model's board reply. Excess team cards and repeated
// words are dropped; anything else wrong with the layout is left for
// board.NewBoard to report.
func ParseBoard(raw string, startingTeam board.Color) ([]board.Card, error) {
	var wire []wireCard
	if err := agent.DecodeStrict(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", board.ErrInvalidLayout, err)
	}
	dist := board.Distribution(startingTeam)
	seenColor := make(map[board.Color]int)
	seenWord := make(map[string]bool)
	cards := make([]board.Card, 0, board.Size)
	for _, w := range wire {
		color, err := board.ParseColor(w.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: card %q: %w", board.ErrInvalidLayout, w.Word, err)
		}
		word := strings.TrimSpace(w.Word)
		fw := board.FoldWord(word)
		if seenWord[fw] {
			continue
		}
		if color.IsTeam() && seenColor[color] >= dist[color] {
			continue
		}
		seenWord[fw] = true
		seenColor[color]++
		cards = append(cards, board.Card{Word: word, Color: color})
	}
	return cards, nil
}
