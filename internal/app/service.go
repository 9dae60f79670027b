// Package service owns the shared catalog snapshot and wires the scoring
// engine, the history pipeline and the store behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/okian/rigcheck/internal/adapters/mq/queue"
	"github.com/okian/rigcheck/internal/adapters/mq/worker"
	"github.com/okian/rigcheck/internal/adapters/repository"
	"github.com/okian/rigcheck/internal/domain/catalog"
	"github.com/okian/rigcheck/internal/domain/dedupe"
	"github.com/okian/rigcheck/internal/domain/model"
	"github.com/okian/rigcheck/internal/domain/scoring"
	"github.com/okian/rigcheck/pkg/logger"
	"github.com/okian/rigcheck/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize     = 10_000
	defaultWorkerCount   = 2
	defaultGraphCacheTTL = time.Minute
	defaultPopularLimit  = 5
)

// Service implements the API dependencies for rigcheck.
type Service struct {
	// writeMu serializes snapshot writers. Readers only load snap.
	writeMu sync.Mutex
	snap    atomic.Pointer[catalog.Snapshot]

	// Core components
	store   repository.Store
	engine  *scoring.Engine
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	graphs  *gocache.Cache

	// Configuration
	seed          catalog.Overrides
	queueSize     int
	workerCount   int
	graphCacheTTL time.Duration
	dedupeTTL     time.Duration
	popularLimit  int
	now           func() time.Time

	// State
	lifecycle sync.Mutex
	started   bool
	cancel    context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence backend. The in-memory store is used when unset.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithSeed layers o between the built-in tables and the stored overrides.
func WithSeed(o catalog.Overrides) Option {
	return func(s *Service) {
		s.seed = o
	}
}

// WithQueueSize sets the capacity of the history queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of history writers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithGraphCacheTTL sets how long a performance graph is cached.
func WithGraphCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.graphCacheTTL = ttl
		}
	}
}

// WithDedupeTTL sets how long a request id suppresses a second history record.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.dedupeTTL = ttl
		}
	}
}

// WithPopularLimit sets how many games Stats reports as most checked.
func WithPopularLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.popularLimit = n
		}
	}
}

// WithClock sets the time source for history records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service serving the built-in tables until Start loads
// the stored overrides.
func New(opts ...Option) *Service {
	s := &Service{
		engine:        scoring.NewEngine(),
		queueSize:     defaultQueueSize,
		workerCount:   defaultWorkerCount,
		graphCacheTTL: defaultGraphCacheTTL,
		dedupeTTL:     dedupe.DefaultTTL,
		popularLimit:  defaultPopularLimit,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.deduper = dedupe.New(dedupe.WithTTL(s.dedupeTTL))
	s.graphs = gocache.New(s.graphCacheTTL, 2*s.graphCacheTTL)

	base := catalog.Defaults()
	if errs := base.Overlay(s.seed); len(errs) > 0 {
		s.logger.Warn(context.Background(), "seed entries skipped", logger.Error(errors.Join(errs...)))
	}
	s.publish(base)
	return s
}

// Start loads the stored overrides and starts the history writers.
func (s *Service) Start(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting rigcheck service...")

	if _, err := s.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(runCtx)

	s.started = true
	snap := s.Snapshot()
	s.logger.Info(ctx, "rigcheck service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("games", snap.Games.Len()),
		logger.Int("components", snap.Components.Len()),
	)
	return nil
}

// Stop drains the history queue and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping rigcheck service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "rigcheck service stopped",
		logger.Int("written", int(s.pool.Written())),
		logger.Int("failed", int(s.pool.Failed())),
	)
	return errors.Join(errs...)
}

// Started reports whether Start has completed and Stop has not been called.
func (s *Service) Started() bool {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	return s.started
}

// Snapshot returns the currently published catalog and registry.
func (s *Service) Snapshot() *catalog.Snapshot {
	return s.snap.Load()
}

// Engine returns the scoring engine.
func (s *Service) Engine() *scoring.Engine {
	return s.engine
}

// Reload rebuilds the snapshot from the built-in tables, the seed overlay and
// the stored overrides, then publishes it and returns the new version.
func (s *Service) Reload(ctx context.Context) (uint64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	o, err := s.store.Overrides(ctx)
	if err != nil {
		metrics.RecordReload(false)
		metrics.RecordErrorByComponent("service", "reload")
		return 0, fmt.Errorf("load overrides: %w", err)
	}

	next := catalog.Defaults()
	next.Version = s.Snapshot().Version + 1
	skipped := next.Overlay(s.seed)
	skipped = append(skipped, next.Overlay(o)...)
	if len(skipped) > 0 {
		s.logger.Warn(ctx, "invalid overrides skipped",
			logger.Int("count", len(skipped)),
			logger.Error(errors.Join(skipped...)),
		)
	}

	s.publish(next)
	metrics.RecordReload(true)
	s.logger.Info(ctx, "catalog reloaded",
		logger.Int("overrides", o.Len()),
		logger.Any("version", next.Version),
	)
	return next.Version, nil
}

// publish makes next visible to readers.
func (s *Service) publish(next *catalog.Snapshot) {
	s.snap.Store(next)
	s.graphs.Flush()

	for _, t := range model.ComponentTypes {
		metrics.UpdateCatalogComponents(string(t), next.Components.Count(t))
	}
	metrics.UpdateCatalogGames(next.Games.Len())
	metrics.UpdateSnapshotVersion(next.Version)
}

// Assess estimates and classifies pc in the titled game and records the
// check in the history. requestID makes retries of one request count once;
// an empty id always records.
func (s *Service) Assess(ctx context.Context, requestID string, pc model.PC, title string) (scoring.Assessment, error) {
	a, err := s.engine.Assess(s.Snapshot(), pc, title)
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownGame) {
			metrics.RecordUnknownGame()
		}
		return scoring.Assessment{}, err
	}
	metrics.RecordEstimation(string(a.Status), a.FPS)
	s.recordCheck(ctx, requestID, a)
	return a, nil
}

// EstimateFPS estimates pc in the titled game without recording history.
func (s *Service) EstimateFPS(_ context.Context, pc model.PC, title string) (int, error) {
	fps, err := s.engine.EstimateFPS(s.Snapshot(), pc, title)
	if errors.Is(err, scoring.ErrUnknownGame) {
		metrics.RecordUnknownGame()
	}
	return fps, err
}

// Upgrades selects upgrades for pc in the titled game within budget.
func (s *Service) Upgrades(_ context.Context, pc model.PC, title string, budget model.Budget) (scoring.Plan, error) {
	plan, err := s.engine.Upgrades(s.Snapshot(), pc, title, budget)
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownGame) {
			metrics.RecordUnknownGame()
		}
		return scoring.Plan{}, err
	}
	categories := make([]string, 0, len(plan.Recommendations))
	for _, u := range plan.Recommendations {
		categories = append(categories, string(u.Category))
	}
	metrics.RecordUpgradePlan(string(budget), categories)
	return plan, nil
}

// Graph estimates pc against every registered game. Results are cached per
// snapshot version and PC; the returned slice is a copy.
func (s *Service) Graph(_ context.Context, pc model.PC) []scoring.GraphPoint {
	snap := s.Snapshot()
	key := fmt.Sprintf("%d\x00%s\x00%s\x00%s", snap.Version, pc.CPU, pc.GPU, pc.RAM)
	if v, ok := s.graphs.Get(key); ok {
		metrics.RecordGraphRequest(true)
		return slices.Clone(v.([]scoring.GraphPoint))
	}
	points := s.engine.Graph(snap, pc)
	s.graphs.SetDefault(key, points)
	metrics.RecordGraphRequest(false)
	return slices.Clone(points)
}

// Games returns every registered game sorted by title.
func (s *Service) Games(_ context.Context) []model.Game {
	return s.Snapshot().Games.List()
}

// Game returns one registered game.
func (s *Service) Game(_ context.Context, title string) (model.Game, error) {
	g, ok := s.Snapshot().Games.Get(title)
	if !ok {
		return model.Game{}, fmt.Errorf("%w: game %q", catalog.ErrNotFound, title)
	}
	return g, nil
}

// Components returns the catalog entries of t, or of every type when t is empty.
func (s *Service) Components(_ context.Context, t model.ComponentType) []model.Component {
	snap := s.Snapshot()
	if t != "" {
		return snap.Components.List(t)
	}
	out := make([]model.Component, 0, snap.Components.Len())
	for _, ct := range model.ComponentTypes {
		out = append(out, snap.Components.List(ct)...)
	}
	return out
}

// recordCheck queues a history record unless requestID was already recorded.
func (s *Service) recordCheck(ctx context.Context, requestID string, a scoring.Assessment) {
	s.lifecycle.Lock()
	q := s.queue
	started := s.started
	s.lifecycle.Unlock()
	if !started {
		return
	}

	if requestID == "" {
		requestID = ulid.Make().String()
	}
	if s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordHistoryDuplicate()
		s.logger.Debug(ctx, "duplicate check request, not recorded", logger.String("requestID", requestID))
		return
	}

	rec := model.CheckRecord{
		ID:        requestID,
		Game:      a.Game,
		FPS:       a.FPS,
		Status:    string(a.Status),
		CheckedAt: s.now().UTC(),
	}
	if !q.Enqueue(ctx, rec) {
		s.deduper.Unrecord(ctx, requestID)
		s.logger.Warn(ctx, "history queue rejected check record",
			logger.String("requestID", requestID),
			logger.String("game", a.Game),
		)
	}
}
