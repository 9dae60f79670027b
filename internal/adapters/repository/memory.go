package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

type componentRow struct {
	c       model.Component
	removed bool
}

type gameRow struct {
	g       model.Game
	removed bool
}

// MemoryStore implements Store in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	opts       options
	components map[catalog.ComponentKey]componentRow
	games      map[string]gameRow
	checks     map[string]model.CheckRecord
	counts     map[string]int
	closed     bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		opts:       defaultOptions(),
		components: make(map[catalog.ComponentKey]componentRow),
		games:      make(map[string]gameRow),
		checks:     make(map[string]model.CheckRecord),
		counts:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Overrides returns every recorded admin edit.
func (s *MemoryStore) Overrides(_ context.Context) (catalog.Overrides, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o catalog.Overrides
	if s.closed {
		return o, ErrClosed
	}
	for k, row := range s.components {
		if row.removed {
			o.RemovedComponents = append(o.RemovedComponents, k)
			continue
		}
		o.Components = append(o.Components, row.c)
	}
	for title, row := range s.games {
		if row.removed {
			o.RemovedGames = append(o.RemovedGames, title)
			continue
		}
		o.Games = append(o.Games, row.g.Clone())
	}
	sort.Slice(o.Components, func(i, j int) bool {
		if o.Components[i].Type != o.Components[j].Type {
			return o.Components[i].Type < o.Components[j].Type
		}
		return o.Components[i].Name < o.Components[j].Name
	})
	sort.Slice(o.RemovedComponents, func(i, j int) bool {
		if o.RemovedComponents[i].Type != o.RemovedComponents[j].Type {
			return o.RemovedComponents[i].Type < o.RemovedComponents[j].Type
		}
		return o.RemovedComponents[i].Name < o.RemovedComponents[j].Name
	})
	sort.Slice(o.Games, func(i, j int) bool { return o.Games[i].Title < o.Games[j].Title })
	sort.Strings(o.RemovedGames)
	return o, nil
}

// SaveComponent upserts c and tombstones oldName on rename.
func (s *MemoryStore) SaveComponent(_ context.Context, oldName string, c model.Component) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if oldName != "" && oldName != c.Name {
		s.components[catalog.ComponentKey{Type: c.Type, Name: oldName}] = componentRow{removed: true}
	}
	s.components[catalog.ComponentKey{Type: c.Type, Name: c.Name}] = componentRow{c: c}
	return nil
}

// DeleteComponent records a component as removed.
func (s *MemoryStore) DeleteComponent(_ context.Context, t model.ComponentType, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.components[catalog.ComponentKey{Type: t, Name: name}] = componentRow{removed: true}
	return nil
}

// SaveGame upserts g and tombstones oldTitle on rename.
func (s *MemoryStore) SaveGame(_ context.Context, oldTitle string, g model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if oldTitle != "" && oldTitle != g.Title {
		s.games[oldTitle] = gameRow{removed: true}
	}
	s.games[g.Title] = gameRow{g: g.Clone()}
	return nil
}

// DeleteGame records a game as removed.
func (s *MemoryStore) DeleteGame(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.games[title] = gameRow{removed: true}
	return nil
}

// RecordCheck appends one check. Records with an id already stored are ignored.
func (s *MemoryStore) RecordCheck(_ context.Context, rec model.CheckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = s.opts.now()
	}
	if _, ok := s.checks[rec.ID]; ok {
		return nil
	}
	s.checks[rec.ID] = rec
	s.counts[rec.Game]++
	return nil
}

// CheckCount returns the number of recorded checks.
func (s *MemoryStore) CheckCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return len(s.checks), nil
}

// PopularGames returns the n most checked games.
func (s *MemoryStore) PopularGames(_ context.Context, n int) ([]GameCount, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]GameCount, 0, len(s.counts))
	for g, c := range s.counts {
		out = append(out, GameCount{Game: g, Checks: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Checks != out[j].Checks {
			return out[i].Checks > out[j].Checks
		}
		return out[i].Game < out[j].Game
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
