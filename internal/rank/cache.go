package rank

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// Source delivers one page of candidate posts. more is false when the page
// was short, signalling the caller to stop paginating.
type Source interface {
	FetchPage(ctx context.Context, page int) (posts []Post, more bool, err error)
}

// Cache owns the single current Snapshot. Refresh builds a replacement off to
// the side and publishes it with one atomic swap, so readers never block on a
// refresh and never observe a half-built list.
type Cache struct {
	source   Source
	maxPosts int
	maxPages int
	window   WindowFunc

	snap atomic.Pointer[Snapshot]
	now  func() time.Time
}

// CacheConfig carries the knobs for a Cache. Zero values fall back to
// defaults suitable for the hosted deployment.
type CacheConfig struct {
	MaxPosts int
	MaxPages int
	// Window bounds the publication window of ranked posts. Nil means the
	// previous UTC day.
	Window WindowFunc
	// Now is the clock used for fetched_at stamps. Nil means time.Now.
	Now func() time.Time
}

const (
	defaultMaxPosts = 27
	defaultMaxPages = 10

	// minRefreshInterval bounds how often Run may hit the upstream, whatever
	// the configuration says.
	minRefreshInterval = time.Minute
)

func NewCache(source Source, cfg CacheConfig) *Cache {
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = defaultMaxPosts
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.Window == nil {
		cfg.Window = PreviousUTCDay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		source:   source,
		maxPosts: cfg.MaxPosts,
		maxPages: cfg.MaxPages,
		window:   cfg.Window,
		now:      cfg.Now,
	}
}

// Current returns the latest complete snapshot. ok is false until the first
// successful refresh. Never blocks on an in-flight refresh.
func (c *Cache) Current() (*Snapshot, bool) {
	snap := c.snap.Load()
	return snap, snap != nil
}

// Refresh paginates the source, merges and ranks the result, and installs it
// as the new snapshot. On error the previous snapshot stays in place and
// fetched_at is not advanced.
func (c *Cache) Refresh(ctx context.Context) error {
	var pages [][]Post
	for page := 1; page <= c.maxPages; page++ {
		posts, more, err := c.source.FetchPage(ctx, page)
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", page, err)
		}
		if len(posts) > 0 {
			pages = append(pages, posts)
		}
		if !more {
			break
		}
	}

	from, to := c.window()
	ranked := Rank(FilterWindow(Merge(pages), from, to), c.maxPosts)

	c.snap.Store(&Snapshot{
		FetchedAt: c.now(),
		Posts:     ranked,
	})
	return nil
}

// Run refreshes once immediately and then on every interval tick until ctx is
// cancelled. Failed refreshes are retried with exponential backoff capped at
// the refresh interval; three consecutive failures escalate to a warning.
// Errors never stop the loop.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval < minRefreshInterval {
		interval = minRefreshInterval
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Second
	bo.MaxInterval = interval
	bo.MaxElapsedTime = 0

	failures := 0
	wait := time.Duration(0)

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		start := time.Now()
		if err := c.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			wait = bo.NextBackOff()
			log.WithFields(log.Fields{
				"error":       err,
				"failures":    failures,
				"retry_after": wait,
			}).Error("Refresh failed, keeping previous snapshot")
			if failures >= 3 {
				log.WithFields(log.Fields{
					"failures": failures,
				}).Warn("Feed is going stale, upstream has failed repeatedly")
			}
			continue
		}

		snap, _ := c.Current()
		log.WithFields(log.Fields{
			"posts":   len(snap.Posts),
			"latency": time.Since(start),
		}).Info("Refreshed snapshot")

		failures = 0
		bo.Reset()
		wait = interval
	}
}
