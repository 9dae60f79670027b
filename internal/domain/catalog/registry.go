package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

// Registry maps game title -> requirement profile.
type Registry struct {
	games map[string]model.Game
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]model.Game)}
}

// Get returns the profile registered under title.
func (r *Registry) Get(title string) (model.Game, bool) {
	if r == nil {
		return model.Game{}, false
	}
	g, ok := r.games[title]
	if !ok {
		return model.Game{}, false
	}
	return g.Clone(), true
}

// Titles returns all titles sorted.
func (r *Registry) Titles() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.games))
	for t := range r.games {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// List returns every profile sorted by title.
func (r *Registry) List() []model.Game {
	titles := r.Titles()
	out := make([]model.Game, 0, len(titles))
	for _, t := range titles {
		out = append(out, r.games[t].Clone())
	}
	return out
}

// Len returns the number of registered games.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.games)
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	if r == nil {
		return out
	}
	for t, g := range r.games {
		out.games[t] = g.Clone()
	}
	return out
}

// Put inserts or replaces a profile.
func (r *Registry) Put(g model.Game) error {
	return r.Rename("", g)
}

// Rename replaces oldTitle (if present and different) with g.
func (r *Registry) Rename(oldTitle string, g model.Game) error {
	g, err := NormalizeGame(g)
	if err != nil {
		return err
	}
	if oldTitle != "" && oldTitle != g.Title {
		delete(r.games, oldTitle)
	}
	r.games[g.Title] = g
	return nil
}

// Remove deletes a profile and reports whether it existed.
func (r *Registry) Remove(title string) bool {
	if _, ok := r.games[title]; !ok {
		return false
	}
	delete(r.games, title)
	return true
}

// NormalizeGame validates an admin-entered profile and trims its names.
func NormalizeGame(g model.Game) (model.Game, error) {
	g = g.Clone()
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return g, fmt.Errorf("%w: missing title", ErrInvalidGame)
	}
	for _, tier := range []*model.Tier{&g.Minimum, &g.Recommended, &g.High} {
		tier.CPU = trimNames(tier.CPU)
		tier.GPU = trimNames(tier.GPU)
		tier.RAM = strings.TrimSpace(tier.RAM)
	}
	return g, nil
}

func trimNames(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
