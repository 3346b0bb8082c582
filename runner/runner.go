// Package runner drives games. A GameRunner owns one game, serializes every
// mutation on it, persists after each one, and plays the automated seats
// through the agent gateway.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/board"
	"github.com/domino14/spymaster/config"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/roster"
	"github.com/domino14/spymaster/store"
)

// Publisher fans snapshots out to observers. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, s *game.Snapshot) error
}

type Option func(*GameRunner)

func WithPublisher(p Publisher) Option {
	return func(r *GameRunner) { r.pub = p }
}

// WithGuessDelay sets the pause between automated reveals.
func WithGuessDelay(d time.Duration) Option {
	return func(r *GameRunner) { r.guessDelay = d }
}

// OptionsFromConfig returns the options the config asks for.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{WithGuessDelay(cfg.GetDuration(config.ConfigGuessDelay))}
}

type GameRunner struct {
	id   string
	mu   sync.Mutex
	game *game.Game

	gateway    *agent.Gateway
	store      store.Store
	pub        Publisher
	guessDelay time.Duration
	logger     zerolog.Logger

	// advancing counts Advance calls in flight.
	advancing atomic.Int32
}

func NewGameRunner(g *game.Game, gw *agent.Gateway, st store.Store, opts ...Option) *GameRunner {
	r := &GameRunner{
		id:      g.ID(),
		game:    g,
		gateway: gw,
		store:   st,
		logger:  log.With().Str("game-id", g.ID()).Logger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *GameRunner) ID() string {
	return r.id
}

// View returns a private copy of the game for reading.
func (r *GameRunner) View() *game.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Clone()
}

func (r *GameRunner) Snapshot() *game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// persist saves the current state. The lock must be held.
func (r *GameRunner) persist(ctx context.Context) error {
	snap := r.game.Snapshot()
	if r.store != nil {
		if err := r.store.Save(ctx, snap); err != nil {
			r.logger.Err(err).Int("version", snap.Version).Msg("save-failed")
			return fmt.Errorf("saving game: %w", err)
		}
	}
	if r.pub != nil {
		if err := r.pub.Publish(ctx, snap); err != nil {
			r.logger.Warn().Err(err).Msg("publish-failed")
		}
	}
	return nil
}

// commit applies change to the game and saves the result. If either step
// fails the game is put back as it was. The lock must be held.
func (r *GameRunner) commit(ctx context.Context, change func(g *game.Game) error) error {
	prev := r.game.Clone()
	if err := change(r.game); err != nil {
		r.game = prev
		return err
	}
	if err := r.persist(ctx); err != nil {
		r.game = prev
		return err
	}
	return nil
}

func (r *GameRunner) checkSeat(team board.Color, role roster.Role) error {
	if !r.game.IsSeatTurn(team, role) {
		return fmt.Errorf("%w: %v %v cannot act while %v is %v", game.ErrNotYourTurn,
			team, role, r.game.ActiveTeam(), r.game.Phase())
	}
	return nil
}

// SubmitClue submits a clue for team's spymaster.
func (r *GameRunner) SubmitClue(ctx context.Context, team board.Color, c game.Clue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkSeat(team, roster.Spymaster); err != nil {
		return err
	}
	return r.commit(ctx, func(g *game.Game) error { return g.SubmitClue(c) })
}

// RevealCard reveals a card for team's operative.
func (r *GameRunner) RevealCard(ctx context.Context, team board.Color, idx int) (game.RevealOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkSeat(team, roster.Operative); err != nil {
		return game.RevealOutcome{}, err
	}
	var out game.RevealOutcome
	err := r.commit(ctx, func(g *game.Game) (err error) {
		out, err = g.RevealCard(idx)
		return err
	})
	if err != nil {
		return game.RevealOutcome{}, err
	}
	return out, nil
}

// PassTurn ends team's guessing.
func (r *GameRunner) PassTurn(ctx context.Context, team board.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkSeat(team, roster.Operative); err != nil {
		return err
	}
	return r.commit(ctx, (*game.Game).PassTurn)
}

func (r *GameRunner) Rate(ctx context.Context, clueRating, guessRating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commit(ctx, func(g *game.Game) error { return g.Rate(clueRating, guessRating) })
}

// Advance plays automated seats until a human has to act or the game is
// over. Agent requests run without the lock; their results are applied
// only if the game has not moved in the meantime.
func (r *GameRunner) Advance(ctx context.Context) error {
	r.advancing.Add(1)
	defer r.advancing.Add(-1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := r.View()
		if view.Finished() {
			return nil
		}
		seat, _ := view.ActiveSeat()
		if !seat.Automated() {
			return nil
		}
		if r.gateway == nil {
			return fmt.Errorf("%w: no gateway for automated seat %s", agent.ErrAgentResponse, seat.Name)
		}
		switch view.Phase() {
		case game.Waiting:
			clue, err := r.gateway.RequestClue(ctx, view)
			if err != nil {
				return err
			}
			if err := r.foldClue(ctx, view.Version(), clue); err != nil {
				return err
			}
		case game.Guessing:
			guesses, err := r.gateway.RequestGuesses(ctx, view)
			if err != nil {
				return err
			}
			if err := r.applyGuesses(ctx, view, guesses); err != nil {
				return err
			}
		}
	}
}

func (r *GameRunner) foldClue(ctx context.Context, version int, c game.Clue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.game.Version() != version {
		r.logger.Info().Int("asked-at", version).Int("now", r.game.Version()).
			Str("clue", c.Word).Msg("stale-clue-discarded")
		return nil
	}
	return r.commit(ctx, func(g *game.Game) error { return g.SubmitClue(c) })
}

func (r *GameRunner) sameTurn(team board.Color, turn int) bool {
	return r.game.Phase() == game.Guessing && r.game.ActiveTeam() == team && r.game.Turn() == turn
}

// applyGuesses reveals the guesses one at a time, each its own mutation,
// and stops as soon as the turn is over. If the batch runs out while the
// turn is still live the operative passes.
func (r *GameRunner) applyGuesses(ctx context.Context, view *game.Game, guesses []int) error {
	team, turn := view.ActiveTeam(), view.Turn()
	revealed := 0
	for _, idx := range guesses {
		if revealed > 0 {
			if err := r.pause(ctx); err != nil {
				return err
			}
		}
		done, err := r.applyGuess(ctx, team, turn, idx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		revealed++
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sameTurn(team, turn) {
		return nil
	}
	r.logger.Debug().Int("guesses", len(guesses)).Msg("batch-exhausted-passing")
	return r.commit(ctx, (*game.Game).PassTurn)
}

// applyGuess reveals one card. done is true once the batch must stop.
func (r *GameRunner) applyGuess(ctx context.Context, team board.Color, turn, idx int) (done bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sameTurn(team, turn) {
		return true, nil
	}
	var out game.RevealOutcome
	err = r.commit(ctx, func(g *game.Game) (err error) {
		out, err = g.RevealCard(idx)
		return err
	})
	if errors.Is(err, game.ErrAlreadyRevealed) {
		r.logger.Debug().Int("index", idx).Msg("guess-already-revealed-skipped")
		return false, nil
	}
	if err != nil {
		return true, err
	}
	r.logger.Info().Str("team", team.String()).Int("index", idx).Str("word", out.Card.Word).
		Str("outcome", string(out.Outcome)).Msg("automated-reveal")
	return out.Outcome != game.Continued, nil
}

// Busy reports whether an Advance call is in flight.
func (r *GameRunner) Busy() bool {
	return r.advancing.Load() > 0
}

func (r *GameRunner) pause(ctx context.Context) error {
	if r.guessDelay <= 0 {
		return nil
	}
	t := time.NewTimer(r.guessDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
