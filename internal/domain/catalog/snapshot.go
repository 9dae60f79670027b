package catalog

import "github.com/okian/rigcheck/internal/domain/model"

// Snapshot pairs a catalog and a registry that are read together.
// A published Snapshot is immutable.
type Snapshot struct {
	Components *Catalog
	Games      *Registry
	// Version increases with every published change.
	Version uint64
}

// ComponentKey identifies a catalog entry.
type ComponentKey struct {
	Type model.ComponentType `json:"type"`
	Name string              `json:"name"`
}

// Overrides are administrator edits layered over the built-in tables.
type Overrides struct {
	Components        []model.Component
	Games             []model.Game
	RemovedComponents []ComponentKey
	RemovedGames      []string
}

// Len returns the number of edits.
func (o Overrides) Len() int {
	return len(o.Components) + len(o.Games) + len(o.RemovedComponents) + len(o.RemovedGames)
}

// Defaults returns a snapshot of the built-in tables.
func Defaults() *Snapshot {
	return &Snapshot{
		Components: DefaultCatalog(),
		Games:      DefaultRegistry(),
	}
}

// Clone returns a writable copy with the next version number.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{Components: NewCatalog(), Games: NewRegistry()}
	}
	return &Snapshot{
		Components: s.Components.Clone(),
		Games:      s.Games.Clone(),
		Version:    s.Version + 1,
	}
}

// Overlay applies o on top of s in place, removals first.
// Entries that fail validation are returned, the rest are applied.
func (s *Snapshot) Overlay(o Overrides) []error {
	for _, k := range o.RemovedComponents {
		s.Components.Remove(k.Type, k.Name)
	}
	for _, t := range o.RemovedGames {
		s.Games.Remove(t)
	}
	var errs []error
	for _, c := range o.Components {
		if err := s.Components.Put(c); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range o.Games {
		if err := s.Games.Put(g); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
