package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/domino14/spymaster/game"
)

// MemoryStore keeps snapshots in a map. Snapshots are stored and returned
// as deep copies.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]byte
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]byte)}
}

func decode(data []byte) (*game.Snapshot, error) {
	s := &game.Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %w", game.ErrCorruptSnapshot, err)
	}
	return s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *game.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.games[s.ID]; ok {
		prev, err := decode(old)
		if err == nil && prev.Version > s.Version {
			return nil
		}
	} else {
		m.order = append(m.order, s.ID)
	}
	m.games[s.ID] = data
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*game.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return decode(data)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.games, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) snapshots() ([]*game.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*game.Snapshot, 0, len(m.order))
	for _, id := range m.order {
		s, err := decode(m.games[id])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// List returns the games newest first.
func (m *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	snaps, err := m.snapshots()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(snaps))
	for i, s := range snaps {
		entries[i] = entryFor(s)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (m *MemoryStore) Summary(ctx context.Context) (*Summary, error) {
	snaps, err := m.snapshots()
	if err != nil {
		return nil, err
	}
	return Summarize(snaps), nil
}
