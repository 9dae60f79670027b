package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/pkg/metrics"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	opts   options
	closed atomic.Bool
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// History writers and admin edits share one connection; SQLite serializes
	// writers anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&s.opts)
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS components (
		type        TEXT NOT NULL,
		name        TEXT NOT NULL,
		id          TEXT NOT NULL,
		price       REAL NOT NULL DEFAULT 0,
		performance REAL NOT NULL DEFAULT 0,
		budget      TEXT NOT NULL DEFAULT '',
		link        TEXT NOT NULL DEFAULT '',
		removed     INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (type, name)
	);

	CREATE TABLE IF NOT EXISTS games (
		title       TEXT PRIMARY KEY,
		id          TEXT NOT NULL,
		image       TEXT NOT NULL DEFAULT '',
		subtitle    TEXT NOT NULL DEFAULT '',
		minimum     TEXT NOT NULL DEFAULT '{}',
		recommended TEXT NOT NULL DEFAULT '{}',
		high        TEXT NOT NULL DEFAULT '{}',
		removed     INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS checks (
		id         TEXT PRIMARY KEY,
		game       TEXT NOT NULL,
		fps        INTEGER NOT NULL,
		status     TEXT NOT NULL,
		checked_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checks_game ON checks(game);
	CREATE INDEX IF NOT EXISTS idx_checks_checked ON checks(checked_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	}
}

func (s *SQLiteStore) open() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (s *SQLiteStore) stamp() string {
	return s.opts.now().UTC().Format(time.RFC3339Nano)
}

// Overrides returns every persisted admin edit.
func (s *SQLiteStore) Overrides(ctx context.Context) (catalog.Overrides, error) {
	if err := s.open(); err != nil {
		return catalog.Overrides{}, err
	}
	defer observe("overrides")()

	var o catalog.Overrides
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, name, price, performance, budget, link, removed
		 FROM components ORDER BY type, name`)
	if err != nil {
		return o, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			c       model.Component
			removed bool
		)
		if err := rows.Scan(&c.Type, &c.Name, &c.Price, &c.Performance, &c.Budget, &c.Link, &removed); err != nil {
			return o, fmt.Errorf("scan component: %w", err)
		}
		if removed {
			o.RemovedComponents = append(o.RemovedComponents, catalog.ComponentKey{Type: c.Type, Name: c.Name})
			continue
		}
		o.Components = append(o.Components, c)
	}
	if err := rows.Err(); err != nil {
		return o, err
	}

	grows, err := s.db.QueryContext(ctx,
		`SELECT title, image, subtitle, minimum, recommended, high, removed
		 FROM games ORDER BY title`)
	if err != nil {
		return o, fmt.Errorf("query games: %w", err)
	}
	defer grows.Close()
	for grows.Next() {
		var (
			g                      model.Game
			minimum, rec, highTier string
			removed                bool
		)
		if err := grows.Scan(&g.Title, &g.Image, &g.Subtitle, &minimum, &rec, &highTier, &removed); err != nil {
			return o, fmt.Errorf("scan game: %w", err)
		}
		if removed {
			o.RemovedGames = append(o.RemovedGames, g.Title)
			continue
		}
		for _, t := range []struct {
			raw string
			dst *model.Tier
		}{{minimum, &g.Minimum}, {rec, &g.Recommended}, {highTier, &g.High}} {
			if err := json.Unmarshal([]byte(t.raw), t.dst); err != nil {
				return o, fmt.Errorf("decode tier of %q: %w", g.Title, err)
			}
		}
		o.Games = append(o.Games, g)
	}
	return o, grows.Err()
}

// SaveComponent upserts c and tombstones oldName on rename.
func (s *SQLiteStore) SaveComponent(ctx context.Context, oldName string, c model.Component) error {
	if err := s.open(); err != nil {
		return err
	}
	defer observe("save_component")()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := s.stamp()
	if oldName != "" && oldName != c.Name {
		if err := tombstoneComponent(ctx, tx, c.Type, oldName, now); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO components (type, name, id, price, performance, budget, link, removed, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT(type, name) DO UPDATE SET
		   price = excluded.price,
		   performance = excluded.performance,
		   budget = excluded.budget,
		   link = excluded.link,
		   removed = 0,
		   updated_at = excluded.updated_at`,
		c.Type, c.Name, ulid.Make().String(), c.Price, c.Performance, c.Budget, c.Link, now)
	if err != nil {
		return fmt.Errorf("upsert component: %w", err)
	}
	return tx.Commit()
}

// DeleteComponent records a component as removed.
func (s *SQLiteStore) DeleteComponent(ctx context.Context, t model.ComponentType, name string) error {
	if err := s.open(); err != nil {
		return err
	}
	defer observe("delete_component")()
	return tombstoneComponent(ctx, s.db, t, name, s.stamp())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func tombstoneComponent(ctx context.Context, db execer, t model.ComponentType, name, now string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO components (type, name, id, removed, updated_at)
		 VALUES (?, ?, ?, 1, ?)
		 ON CONFLICT(type, name) DO UPDATE SET removed = 1, updated_at = excluded.updated_at`,
		t, name, ulid.Make().String(), now)
	if err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	return nil
}

func tombstoneGame(ctx context.Context, db execer, title, now string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO games (title, id, removed, updated_at)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(title) DO UPDATE SET removed = 1, updated_at = excluded.updated_at`,
		title, ulid.Make().String(), now)
	if err != nil {
		return fmt.Errorf("remove game: %w", err)
	}
	return nil
}

// SaveGame upserts g and tombstones oldTitle on rename.
func (s *SQLiteStore) SaveGame(ctx context.Context, oldTitle string, g model.Game) error {
	if err := s.open(); err != nil {
		return err
	}
	defer observe("save_game")()

	tiers := make([]string, 0, 3)
	for _, t := range []model.Tier{g.Minimum, g.Recommended, g.High} {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode tier: %w", err)
		}
		tiers = append(tiers, string(b))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := s.stamp()
	if oldTitle != "" && oldTitle != g.Title {
		if err := tombstoneGame(ctx, tx, oldTitle, now); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (title, id, image, subtitle, minimum, recommended, high, removed, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT(title) DO UPDATE SET
		   image = excluded.image,
		   subtitle = excluded.subtitle,
		   minimum = excluded.minimum,
		   recommended = excluded.recommended,
		   high = excluded.high,
		   removed = 0,
		   updated_at = excluded.updated_at`,
		g.Title, ulid.Make().String(), g.Image, g.Subtitle, tiers[0], tiers[1], tiers[2], now)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return tx.Commit()
}

// DeleteGame records a game as removed.
func (s *SQLiteStore) DeleteGame(ctx context.Context, title string) error {
	if err := s.open(); err != nil {
		return err
	}
	defer observe("delete_game")()
	return tombstoneGame(ctx, s.db, title, s.stamp())
}

// RecordCheck appends one check. Missing ids and timestamps are filled in.
func (s *SQLiteStore) RecordCheck(ctx context.Context, rec model.CheckRecord) error {
	if err := s.open(); err != nil {
		return err
	}
	defer observe("record_check")()

	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = s.opts.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checks (id, game, fps, status, checked_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.Game, rec.FPS, rec.Status, rec.CheckedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

// CheckCount returns the number of recorded checks.
func (s *SQLiteStore) CheckCount(ctx context.Context) (int, error) {
	if err := s.open(); err != nil {
		return 0, err
	}
	defer observe("check_count")()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count checks: %w", err)
	}
	return n, nil
}

// PopularGames returns the n most checked games.
func (s *SQLiteStore) PopularGames(ctx context.Context, n int) ([]GameCount, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	defer observe("popular_games")()

	rows, err := s.db.QueryContext(ctx,
		`SELECT game, COUNT(*) AS c FROM checks
		 GROUP BY game ORDER BY c DESC, game ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query popular games: %w", err)
	}
	defer rows.Close()

	out := make([]GameCount, 0, n)
	for rows.Next() {
		var gc GameCount
		if err := rows.Scan(&gc.Game, &gc.Checks); err != nil {
			return nil, fmt.Errorf("scan popular game: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}

// Close closes the database. Later calls return ErrClosed.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
