package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/rigcheck/internal/adapters/repository"
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/pkg/logger"
	"github.com/okian/rigcheck/pkg/metrics"
)

// Stats summarizes the catalog and the check history.
type Stats struct {
	Games        int                         `json:"games"`
	Components   int                         `json:"components"`
	ByType       map[model.ComponentType]int `json:"components_by_type"`
	TotalChecks  int                         `json:"total_checks"`
	PopularGames []repository.GameCount      `json:"popular_games"`
	QueueLength  int                         `json:"queue_length"`
	Version      uint64                      `json:"version"`
}

// AddComponent stores c, replacing an entry of the same type and name.
func (s *Service) AddComponent(ctx context.Context, c model.Component) (model.Component, error) {
	return s.saveComponent(ctx, "", c, "create")
}

// UpdateComponent replaces the entry oldName of c's type with c. A different
// c.Name renames the entry.
func (s *Service) UpdateComponent(ctx context.Context, oldName string, c model.Component) (model.Component, error) {
	if oldName == "" {
		oldName = c.Name
	}
	return s.saveComponent(ctx, oldName, c, "update")
}

func (s *Service) saveComponent(ctx context.Context, oldName string, c model.Component, op string) (model.Component, error) {
	n, err := catalog.Normalize(c)
	if err != nil {
		return model.Component{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if oldName != "" {
		if _, ok := cur.Components.Exact(n.Type, oldName); !ok {
			return model.Component{}, fmt.Errorf("%w: %s %q", catalog.ErrNotFound, n.Type, oldName)
		}
	}
	if err := s.store.SaveComponent(ctx, oldName, n); err != nil {
		metrics.RecordErrorByComponent("service", "store_write")
		return model.Component{}, fmt.Errorf("persist component: %w", err)
	}

	next := cur.Clone()
	if err := next.Components.Rename(oldName, n); err != nil {
		return model.Component{}, err
	}
	s.publish(next)
	metrics.RecordAdminMutation("component", op)
	s.logger.Info(ctx, "component saved",
		logger.String("op", op),
		logger.String("type", string(n.Type)),
		logger.String("name", n.Name),
	)
	return n, nil
}

// DeleteComponents removes the named entries of type t and returns how many
// existed. Missing names are ignored unless none of them exist.
func (s *Service) DeleteComponents(ctx context.Context, t model.ComponentType, names ...string) (int, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown type %q", catalog.ErrInvalidComponent, t)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	next := cur.Clone()
	removed := 0
	for _, name := range names {
		if _, ok := next.Components.Exact(t, name); !ok {
			continue
		}
		if err := s.store.DeleteComponent(ctx, t, name); err != nil {
			metrics.RecordErrorByComponent("service", "store_write")
			return removed, fmt.Errorf("persist component removal: %w", err)
		}
		next.Components.Remove(t, name)
		removed++
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: no %s named %q", catalog.ErrNotFound, t, names)
	}

	s.publish(next)
	metrics.RecordAdminMutation("component", "delete")
	s.logger.Info(ctx, "components deleted", logger.String("type", string(t)), logger.Int("count", removed))
	return removed, nil
}

// AddGame stores g, replacing a game with the same title.
func (s *Service) AddGame(ctx context.Context, g model.Game) (model.Game, error) {
	return s.saveGame(ctx, "", g, "create")
}

// UpdateGame replaces the game oldTitle with g. A different g.Title renames it.
func (s *Service) UpdateGame(ctx context.Context, oldTitle string, g model.Game) (model.Game, error) {
	if oldTitle == "" {
		oldTitle = g.Title
	}
	return s.saveGame(ctx, oldTitle, g, "update")
}

func (s *Service) saveGame(ctx context.Context, oldTitle string, g model.Game, op string) (model.Game, error) {
	n, err := catalog.NormalizeGame(g)
	if err != nil {
		return model.Game{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.Snapshot()
	if oldTitle != "" {
		if _, ok := cur.Games.Get(oldTitle); !ok {
			return model.Game{}, fmt.Errorf("%w: game %q", catalog.ErrNotFound, oldTitle)
		}
	}
	if err := s.store.SaveGame(ctx, oldTitle, n); err != nil {
		metrics.RecordErrorByComponent("service", "store_write")
		return model.Game{}, fmt.Errorf("persist game: %w", err)
	}

	next := cur.Clone()
	if err := next.Games.Rename(oldTitle, n); err != nil {
		return model.Game{}, err
	}
	s.publish(next)
	metrics.RecordAdminMutation("game", op)
	s.logger.Info(ctx, "game saved", logger.String("op", op), logger.String("title", n.Title))
	return n, nil
}

// DeleteGames removes the titled games and returns how many existed.
func (s *Service) DeleteGames(ctx context.Context, titles ...string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot().Clone()
	removed := 0
	for _, title := range titles {
		if _, ok := next.Games.Get(title); !ok {
			continue
		}
		if err := s.store.DeleteGame(ctx, title); err != nil {
			metrics.RecordErrorByComponent("service", "store_write")
			return removed, fmt.Errorf("persist game removal: %w", err)
		}
		next.Games.Remove(title)
		removed++
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: no game named %q", catalog.ErrNotFound, titles)
	}

	s.publish(next)
	metrics.RecordAdminMutation("game", "delete")
	s.logger.Info(ctx, "games deleted", logger.Int("count", removed))
	return removed, nil
}

// Stats returns catalog sizes, the number of recorded checks and the most
// checked games.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	snap := s.Snapshot()
	st := Stats{
		Games:      snap.Games.Len(),
		Components: snap.Components.Len(),
		ByType:     make(map[model.ComponentType]int, len(model.ComponentTypes)),
		Version:    snap.Version,
	}
	for _, t := range model.ComponentTypes {
		st.ByType[t] = snap.Components.Count(t)
	}

	s.lifecycle.Lock()
	if s.started {
		st.QueueLength = s.queue.Len(ctx)
	}
	s.lifecycle.Unlock()

	n, err := s.store.CheckCount(ctx)
	if err != nil {
		return st, fmt.Errorf("count checks: %w", err)
	}
	st.TotalChecks = n

	top, err := s.store.PopularGames(ctx, s.popularLimit)
	if err != nil && !errors.Is(err, repository.ErrInvalidLimit) {
		return st, fmt.Errorf("popular games: %w", err)
	}
	st.PopularGames = top
	if st.PopularGames == nil {
		st.PopularGames = []repository.GameCount{}
	}
	return st, nil
}
