// Package scoring estimates game frame rates for a PC and selects upgrades.
//
// Every function here is pure: it reads a catalog snapshot and returns a
// value. Snapshots are never modified.
package scoring

import (
	"fmt"
	"sort"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithUnknownGameFallback lets FPS estimates for unregistered titles use
// FallbackMultiplier instead of failing with ErrUnknownGame.
func WithUnknownGameFallback(enabled bool) Option {
	return func(e *Engine) {
		e.unknownGameFallback = enabled
	}
}

// Assessment is the detailed result of one compatibility check.
type Assessment struct {
	Game string `json:"game"`
	FPS  int    `json:"fps"`
	Compatibility
	Scores Scores `json:"scores"`
}

// GraphPoint is one bar of the performance graph.
type GraphPoint struct {
	Game   string `json:"game"`
	FPS    int    `json:"fps"`
	Status Status `json:"status"`
	Tier   Level  `json:"tier"`
}

// Engine evaluates PCs against the games of a snapshot.
type Engine struct {
	unknownGameFallback bool
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UnknownGameFallback reports whether unregistered titles are estimated.
func (e *Engine) UnknownGameFallback() bool {
	return e.unknownGameFallback
}

func (e *Engine) game(snap *catalog.Snapshot, title string) (*model.Game, error) {
	if g, ok := snap.Games.Get(title); ok {
		return &g, nil
	}
	if e.unknownGameFallback {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, title)
}

// EstimateFPS estimates the frame rate of pc in the titled game.
func (e *Engine) EstimateFPS(snap *catalog.Snapshot, pc model.PC, title string) (int, error) {
	g, err := e.game(snap, title)
	if err != nil {
		return 0, err
	}
	return EstimateFPS(snap.Components, g, pc), nil
}

// Assess estimates and classifies pc in the titled game, including the part
// scores the estimate was built from.
func (e *Engine) Assess(snap *catalog.Snapshot, pc model.PC, title string) (Assessment, error) {
	g, err := e.game(snap, title)
	if err != nil {
		return Assessment{}, err
	}
	s := ScorePC(snap.Components, pc)
	fps := estimate(snap.Components, g, s)
	return Assessment{
		Game:          title,
		FPS:           fps,
		Compatibility: Classify(fps),
		Scores:        s,
	}, nil
}

// Graph estimates pc against every registered game, fastest first.
// Ties are ordered by title.
func (e *Engine) Graph(snap *catalog.Snapshot, pc model.PC) []GraphPoint {
	s := ScorePC(snap.Components, pc)
	games := snap.Games.List()
	out := make([]GraphPoint, 0, len(games))
	for i := range games {
		fps := estimate(snap.Components, &games[i], s)
		c := Classify(fps)
		out = append(out, GraphPoint{Game: games[i].Title, FPS: fps, Status: c.Status, Tier: c.Tier})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FPS != out[j].FPS {
			return out[i].FPS > out[j].FPS
		}
		return out[i].Game < out[j].Game
	})
	return out
}

// Upgrades selects upgrades for pc in the titled game. The game must be
// registered since candidates come from its high tier.
func (e *Engine) Upgrades(snap *catalog.Snapshot, pc model.PC, title string, budget model.Budget) (Plan, error) {
	if !budget.Valid() {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidBudget, budget)
	}
	g, ok := snap.Games.Get(title)
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownGame, title)
	}
	return SelectUpgrades(snap.Components, pc, g, budget), nil
}
