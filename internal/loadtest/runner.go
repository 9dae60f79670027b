package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/rigcheck/pkg/logger"
)

// Run checks service health, sends the generated checks and verifies that
// every distinct request was recorded exactly once.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Stats, error) {
	cfg = cfg.withDefaults()
	if cfg.AdminToken == "" {
		return Stats{}, ErrAdminToken
	}
	if log == nil {
		log = logger.Named("loadtest")
	}
	c := newClient(cfg)
	start := time.Now()

	log.Info(ctx, "starting rigcheck load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("checks", cfg.Checks),
		logger.Int("workers", cfg.Workers),
		logger.Float64("retryRatio", cfg.RetryRatio),
	)

	if err := c.health(ctx); err != nil {
		return Stats{}, err
	}
	view, err := c.catalog(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load catalog: %w", err)
	}
	before, err := c.stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1))
	checks := generate(rng, view, cfg.Checks, cfg.RetryRatio)
	log.Info(ctx, "generated checks", logger.Int("count", len(checks)))

	res := c.send(ctx, checks, cfg.Workers)
	log.Info(ctx, "checks sent",
		logger.Int("succeeded", res.succeeded),
		logger.Int("failed", res.failed),
		logger.Int("distinct", len(res.recorded)),
	)

	after, err := c.waitRecorded(ctx, before.TotalChecks+len(res.recorded), cfg.Settle)
	if err != nil {
		return Stats{}, fmt.Errorf("wait for history: %w", err)
	}

	st := Stats{
		Generated:      len(checks),
		Sent:           res.sent,
		Succeeded:      res.succeeded,
		Failed:         res.failed,
		Unique:         len(res.recorded),
		Recorded:       after.TotalChecks - before.TotalChecks,
		PopularGames:   after.PopularGames,
		Duration:       time.Since(start),
		GamesExercised: len(expectedPopular(res.recorded)),
	}
	if st.Duration > 0 {
		st.ChecksPerSec = float64(st.Sent) / st.Duration.Seconds()
	}

	if err := verify(before, after, res.recorded); err != nil {
		log.Error(ctx, "verification failed", logger.Error(err))
		return st, err
	}
	log.Info(ctx, "load test passed",
		logger.Int("recorded", st.Recorded),
		logger.Duration("duration", st.Duration),
		logger.Float64("checksPerSecond", st.ChecksPerSec),
	)
	return st, nil
}
