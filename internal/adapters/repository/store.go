// Package repository persists administrator overrides and compatibility
// check history.
package repository

import (
	"context"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// GameCount is a game and how many times it was checked.
type GameCount struct {
	Game   string `json:"game"`
	Checks int    `json:"checks"`
}

// Store provides read/write access to overrides and history.
type Store interface {
	// Overrides returns every persisted admin edit.
	Overrides(ctx context.Context) (catalog.Overrides, error)

	// SaveComponent upserts c. A non-empty oldName different from c.Name is
	// recorded as removed so a rename survives a reload.
	SaveComponent(ctx context.Context, oldName string, c model.Component) error
	// DeleteComponent records a component as removed.
	DeleteComponent(ctx context.Context, t model.ComponentType, name string) error

	// SaveGame upserts g, recording oldTitle as removed on rename.
	SaveGame(ctx context.Context, oldTitle string, g model.Game) error
	// DeleteGame records a game as removed.
	DeleteGame(ctx context.Context, title string) error

	// RecordCheck appends one check to the history.
	RecordCheck(ctx context.Context, rec model.CheckRecord) error
	// CheckCount returns the number of recorded checks.
	CheckCount(ctx context.Context) (int, error)
	// PopularGames returns the n most checked games, most checked first.
	// Ties are ordered by title. Returns ErrInvalidLimit when n < 1.
	PopularGames(ctx context.Context, n int) ([]GameCount, error)

	Close() error
}
