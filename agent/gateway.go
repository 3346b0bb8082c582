package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/game"
)

var (
	errRepeatsHistory = errors.New("clue was already given")
	errOnBoard        = errors.New("clue is a word on the board")
)

// Policy decides which automated clues are sent back. Each rule has its own
// retry cap; once a cap is used up the offending clue is accepted so the
// game keeps moving.
type Policy struct {
	RejectHistory  bool
	RejectBoard    bool
	HistoryRetries int
	BoardRetries   int
}

func DefaultPolicy() Policy {
	return Policy{
		RejectHistory:  true,
		RejectBoard:    true,
		HistoryRetries: 3,
		BoardRetries:   5,
	}
}

func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		RejectHistory:  cfg.GetBool(config.ConfigRejectHistoryClues),
		RejectBoard:    cfg.GetBool(config.ConfigRejectBoardClues),
		HistoryRetries: max(cfg.GetInt(config.ConfigClueHistoryRetries), 0),
		BoardRetries:   max(cfg.GetInt(config.ConfigClueBoardRetries), 0),
	}
}

func (p Policy) check(word string, req *ClueRequest) error {
	fw := board.FoldWord(word)
	if p.RejectHistory && lo.ContainsBy(req.History, func(h string) bool {
		return board.FoldWord(h) == fw
	}) {
		return fmt.Errorf("%w: %q", errRepeatsHistory, word)
	}
	if p.RejectBoard && lo.ContainsBy(req.Board, func(c CardView) bool {
		return board.FoldWord(c.Word) == fw
	}) {
		return fmt.Errorf("%w: %q", errOnBoard, word)
	}
	return nil
}

// Gateway asks automated occupants for clues and guesses.
type Gateway struct {
	clueGiver ClueGiver
	guesser   Guesser
	policy    Policy
}

func NewGateway(cg ClueGiver, gs Guesser, p Policy) *Gateway {
	return &Gateway{clueGiver: cg, guesser: gs, policy: p}
}

func (gw *Gateway) Policy() Policy {
	return gw.policy
}

func noDelay(uint, error, *retry.Config) time.Duration { return 0 }

// RequestClue asks the clue giver for a clue for the active team of g,
// which must be waiting on one. Clues breaking the policy are sent back with
// the rejected words listed in the request. The returned clue has not been
// submitted; g is only read.
func (gw *Gateway) RequestClue(ctx context.Context, g *game.Game) (game.Clue, error) {
	if g.Phase() != game.Waiting {
		return game.Clue{}, fmt.Errorf("%w: no clue is due while %v", game.ErrIllegalTransition, g.Phase())
	}
	if gw.clueGiver == nil {
		return game.Clue{}, fmt.Errorf("%w: no clue giver", ErrAgentResponse)
	}
	req := NewClueRequest(g)
	logger := log.With().Str("game-id", g.ID()).Str("team", req.Team.String()).Logger()

	var (
		last                         ClueResponse
		historyRejects, boardRejects int
	)
	err := retry.Do(
		func() error {
			raw, err := gw.clueGiver.GiveClue(ctx, req)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrAgentResponse, err)
			}
			resp, err := ParseClueResponse(raw)
			if err != nil {
				return err
			}
			last = resp
			if err := gw.policy.check(resp.Word, req); err != nil {
				req.Rejected = append(req.Rejected, resp.Word)
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(gw.policy.HistoryRetries+gw.policy.BoardRetries+1)),
		retry.LastErrorOnly(true),
		retry.DelayType(noDelay),
		retry.RetryIf(func(err error) bool {
			switch {
			case errors.Is(err, errRepeatsHistory):
				historyRejects++
				return historyRejects <= gw.policy.HistoryRetries
			case errors.Is(err, errOnBoard):
				boardRejects++
				return boardRejects <= gw.policy.BoardRetries
			}
			return false
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug().Err(err).Uint("attempt", n+1).Msg("clue-rejected")
		}),
	)
	switch {
	case err == nil:
	case errors.Is(err, errRepeatsHistory), errors.Is(err, errOnBoard):
		logger.Warn().Err(err).Int("history-rejects", historyRejects).
			Int("board-rejects", boardRejects).Msg("clue-retries-exhausted-accepting")
	default:
		logger.Err(err).Msg("clue-request-failed")
		return game.Clue{}, err
	}
	logger.Info().Str("clue", last.Word).Int("count", last.Count).Msg("clue-accepted")
	return last.Clue(), nil
}

// RequestGuesses asks the guesser for the board indices to reveal for the
// active clue of g. Indices are returned in order and may include cards
// that are already revealed; the caller skips those.
func (gw *Gateway) RequestGuesses(ctx context.Context, g *game.Game) ([]int, error) {
	if g.Phase() != game.Guessing {
		return nil, fmt.Errorf("%w: no guesses are due while %v", game.ErrIllegalTransition, g.Phase())
	}
	if gw.guesser == nil {
		return nil, fmt.Errorf("%w: no guesser", ErrAgentResponse)
	}
	req, err := NewGuessRequest(g)
	if err != nil {
		return nil, err
	}
	raw, err := gw.guesser.Guess(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAgentResponse, err)
	}
	resp, err := ParseGuessResponse(raw)
	if err != nil {
		log.Err(err).Str("game-id", g.ID()).Str("raw", raw).Msg("guess-parse-failed")
		return nil, err
	}
	log.Debug().Str("game-id", g.ID()).Ints("guesses", resp.Guesses).Msg("guesses-received")
	return resp.Guesses, nil
}
