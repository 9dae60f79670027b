// Package catalog holds the component price/performance tables and the game
// requirement registry.
//
// Values in this package are plain in-memory maps. A *Catalog or *Registry
// reachable from a published Snapshot must be treated as read-only; writers
// Clone, mutate the copy, then publish a new Snapshot.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/rigcheck/internal/domain/model"
)

// Defaults applied to admin-entered components.
const (
	DefaultPerformance = 100
	DefaultBudget      = model.BudgetMedium
)

// Catalog maps component type -> name -> entry.
type Catalog struct {
	entries map[model.ComponentType]map[string]model.Component
	// folded maps a lower-cased name to its catalog key.
	folded map[model.ComponentType]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{
		entries: make(map[model.ComponentType]map[string]model.Component, len(model.ComponentTypes)),
		folded:  make(map[model.ComponentType]map[string]string, len(model.ComponentTypes)),
	}
	for _, t := range model.ComponentTypes {
		c.entries[t] = make(map[string]model.Component)
		c.folded[t] = make(map[string]string)
	}
	return c
}

// Lookup finds an entry by exact name, then by case-insensitive name.
func (c *Catalog) Lookup(t model.ComponentType, name string) (model.Component, bool) {
	if c == nil || name == "" {
		return model.Component{}, false
	}
	byName := c.entries[t]
	if e, ok := byName[name]; ok {
		return e, true
	}
	if key, ok := c.folded[t][strings.ToLower(name)]; ok {
		return byName[key], true
	}
	return model.Component{}, false
}

// Exact finds an entry by its exact catalog key only.
func (c *Catalog) Exact(t model.ComponentType, name string) (model.Component, bool) {
	if c == nil {
		return model.Component{}, false
	}
	e, ok := c.entries[t][name]
	return e, ok
}

// List returns the entries of one type sorted by name.
func (c *Catalog) List(t model.ComponentType) []model.Component {
	if c == nil {
		return nil
	}
	out := make([]model.Component, 0, len(c.entries[t]))
	for _, e := range c.entries[t] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of entries of one type.
func (c *Catalog) Count(t model.ComponentType) int {
	if c == nil {
		return 0
	}
	return len(c.entries[t])
}

// Len returns the number of entries across all types.
func (c *Catalog) Len() int {
	n := 0
	for _, t := range model.ComponentTypes {
		n += c.Count(t)
	}
	return n
}

// Clone returns an independent copy.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	if c == nil {
		return out
	}
	for t, byName := range c.entries {
		for name, e := range byName {
			out.entries[t][name] = e
		}
	}
	for t, idx := range c.folded {
		for k, v := range idx {
			out.folded[t][k] = v
		}
	}
	return out
}

// Put inserts or replaces an entry after applying admin defaults.
func (c *Catalog) Put(e model.Component) error {
	e, err := Normalize(e)
	if err != nil {
		return err
	}
	c.entries[e.Type][e.Name] = e
	c.reindex(e.Type)
	return nil
}

// Rename replaces oldName (if present) with e. An empty oldName behaves like Put.
func (c *Catalog) Rename(oldName string, e model.Component) error {
	e, err := Normalize(e)
	if err != nil {
		return err
	}
	if oldName != "" && oldName != e.Name {
		delete(c.entries[e.Type], oldName)
	}
	c.entries[e.Type][e.Name] = e
	c.reindex(e.Type)
	return nil
}

// Remove deletes an entry by exact name and reports whether it existed.
func (c *Catalog) Remove(t model.ComponentType, name string) bool {
	if _, ok := c.entries[t][name]; !ok {
		return false
	}
	delete(c.entries[t], name)
	c.reindex(t)
	return true
}

// reindex rebuilds the case-folded index of one type. On a collision the
// lexicographically smallest key wins so lookups stay deterministic.
func (c *Catalog) reindex(t model.ComponentType) {
	idx := make(map[string]string, len(c.entries[t]))
	for name := range c.entries[t] {
		k := strings.ToLower(name)
		if prev, ok := idx[k]; ok && prev < name {
			continue
		}
		idx[k] = name
	}
	c.folded[t] = idx
}

// Normalize validates an admin-entered component and fills defaults.
func Normalize(e model.Component) (model.Component, error) {
	e.Name = strings.TrimSpace(e.Name)
	switch {
	case !e.Type.Valid():
		return e, fmt.Errorf("%w: unknown type %q", ErrInvalidComponent, e.Type)
	case e.Name == "":
		return e, fmt.Errorf("%w: missing name", ErrInvalidComponent)
	case e.Price <= 0:
		return e, fmt.Errorf("%w: price must be positive", ErrInvalidComponent)
	}
	if e.Performance <= 0 {
		e.Performance = DefaultPerformance
	}
	if e.Budget == "" {
		e.Budget = DefaultBudget
	}
	if !e.Budget.Valid() {
		return e, fmt.Errorf("%w: unknown budget %q", ErrInvalidComponent, e.Budget)
	}
	return e, nil
}
