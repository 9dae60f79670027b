// Package dedupe tracks request ids so a retried request is recorded once.
package dedupe

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default window configuration.
const (
	DefaultTTL      = 10 * time.Minute
	cleanupInterval = time.Minute
)

// Deduper records seen request ids for a bounded time window.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing it to be recorded again. Used when the
	// work behind a newly recorded id could not be queued.
	Unrecord(ctx context.Context, id string)

	Size() int
}

// Option applies a configuration option to the deduper.
type Option func(*cacheDeduper)

// WithTTL sets how long an id is remembered. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(d *cacheDeduper) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

type cacheDeduper struct {
	ttl  time.Duration
	seen *gocache.Cache
}

// New creates a TTL-bounded deduper backed by go-cache.
func New(opts ...Option) Deduper {
	d := &cacheDeduper{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = gocache.New(d.ttl, cleanupInterval)
	return d
}

// SeenAndRecord relies on Add failing when the key is present and unexpired.
func (d *cacheDeduper) SeenAndRecord(_ context.Context, id string) bool {
	return d.seen.Add(id, struct{}{}, gocache.DefaultExpiration) != nil
}

func (d *cacheDeduper) Unrecord(_ context.Context, id string) {
	d.seen.Delete(id)
}

func (d *cacheDeduper) Size() int {
	return d.seen.ItemCount()
}
