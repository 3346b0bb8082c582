package runner

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/agent"
	"github.com/domino14/spymaster/boardgen"
	"github.com/domino14/spymaster/game"
	"github.com/domino14/spymaster/roster"
	"github.com/domino14/spymaster/store"
)

// Registry hands out the runner for a game id. Games not in memory are
// resumed from the store.
type Registry struct {
	mu      sync.Mutex
	runners map[string]*GameRunner

	store   store.Store
	gateway *agent.Gateway
	opts    []Option
}

func NewRegistry(st store.Store, gw *agent.Gateway, opts ...Option) *Registry {
	return &Registry{
		runners: make(map[string]*GameRunner),
		store:   st,
		gateway: gw,
		opts:    opts,
	}
}

// Create deals a new board, seats the roster and saves the new game.
func (reg *Registry) Create(ctx context.Context, gen boardgen.Generator, r *roster.Roster) (*GameRunner, error) {
	b, err := boardgen.NewBoard(ctx, gen)
	if err != nil {
		return nil, err
	}
	g, err := game.NewGame("", b, r, b.StartingTeam())
	if err != nil {
		return nil, err
	}
	gr := NewGameRunner(g, reg.gateway, reg.store, reg.opts...)
	gr.mu.Lock()
	err = gr.persist(ctx)
	gr.mu.Unlock()
	if err != nil {
		return nil, err
	}
	reg.mu.Lock()
	reg.runners[g.ID()] = gr
	reg.mu.Unlock()
	log.Info().Str("game-id", g.ID()).Str("starting-team", b.StartingTeam().String()).Msg("game-created")
	return gr, nil
}

func (reg *Registry) lookup(id string) (*GameRunner, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	gr, ok := reg.runners[id]
	return gr, ok
}

// Get returns the runner for id. The store is read without holding the
// registry lock; if two callers resume the same game at once, the first
// runner registered wins and both get it.
func (reg *Registry) Get(ctx context.Context, id string) (*GameRunner, error) {
	if gr, ok := reg.lookup(id); ok {
		return gr, nil
	}
	snap, err := reg.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := game.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if gr, ok := reg.runners[id]; ok {
		return gr, nil
	}
	gr := NewGameRunner(g, reg.gateway, reg.store, reg.opts...)
	reg.runners[id] = gr
	log.Info().Str("game-id", id).Int("version", g.Version()).Msg("game-resumed")
	return gr, nil
}

// Delete forgets the game and removes it from the store.
func (reg *Registry) Delete(ctx context.Context, id string) error {
	reg.mu.Lock()
	delete(reg.runners, id)
	reg.mu.Unlock()
	return reg.store.Delete(ctx, id)
}

// Evict drops the in-memory runner; the game stays in the store. A runner
// that is advancing is kept and Evict returns false. Callers must stop
// using an evicted runner; the next Get resumes a fresh one.
func (reg *Registry) Evict(id string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if gr, ok := reg.runners[id]; ok && gr.Busy() {
		log.Debug().Str("game-id", id).Msg("evict-refused-busy")
		return false
	}
	delete(reg.runners, id)
	return true
}

func (reg *Registry) Store() store.Store {
	return reg.store
}
