package content

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cached[T any] struct {
	value     []T
	fetchedAt time.Time
	ok        bool
}

// CachedSource keeps upstream results for a TTL. When a refresh fails and an
// earlier result exists, the stale result is served instead of the error.
// Concurrent refreshes of the same kind share one upstream call.
type CachedSource struct {
	upstream Source
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
	refresh  singleflight.Group

	mu           sync.Mutex
	projects     cached[Project]
	testimonials cached[Testimonial]
}

// NewCachedSource wraps upstream.
func NewCachedSource(upstream Source, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{upstream: upstream, ttl: ttl, logger: logger, now: time.Now}
}

// Projects returns cached or freshly fetched projects.
func (c *CachedSource) Projects(ctx context.Context) ([]Project, error) {
	return load(ctx, c, &c.projects, "projects", c.upstream.Projects)
}

// Testimonials returns cached or freshly fetched testimonials.
func (c *CachedSource) Testimonials(ctx context.Context) ([]Testimonial, error) {
	return load(ctx, c, &c.testimonials, "testimonials", c.upstream.Testimonials)
}

// load never holds mu across the upstream call, and callers always get their
// own copy of the slice.
func load[T any](ctx context.Context, c *CachedSource, entry *cached[T], kind string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if entry.ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		v := slices.Clone(entry.value)
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.refresh.Do(kind, func() (any, error) {
		fresh, err := fetch(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			if entry.ok {
				c.logger.Warn("content refresh failed, serving stale copy", "kind", kind, "error", err)
				return entry.value, nil
			}
			return nil, err
		}
		*entry = cached[T]{value: fresh, fetchedAt: c.now(), ok: true}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]T)), nil
}
