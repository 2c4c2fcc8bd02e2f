package server

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/pders01/devtop/internal/rank"
)

// SnapshotSource is the read side of the ranked cache.
type SnapshotSource interface {
	Current() (*rank.Snapshot, bool)
}

// ContentSource fetches the full body of a single post from the upstream.
type ContentSource interface {
	FetchContent(ctx context.Context, id int64) (string, error)
}

// Config wires the server to its collaborators.
type Config struct {
	Cache   SnapshotSource
	Content ContentSource
	// ContentTTL bounds how long fetched article bodies are reused before
	// hitting the upstream again. Zero means 1 hour.
	ContentTTL time.Duration
}

// New returns the fiber app serving the feed. The server is stateless per
// request: every handler re-reads the cache's current snapshot, so concurrent
// requests never block each other.
func New(cfg *Config) *fiber.App {
	ttl := cfg.ContentTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	contents := newContentCache(ttl)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// Track the latency of each request.
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/posts", func(c *fiber.Ctx) error {
		snap, ok := cfg.Cache.Current()
		if !ok {
			return notReady(c)
		}
		return c.JSON(snap)
	})

	app.Get("/posts/:id", func(c *fiber.Ctx) error {
		snap, ok := cfg.Cache.Current()
		if !ok {
			return notReady(c)
		}

		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_id"})
		}

		post, found := snap.Find(id)
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown_post"})
		}

		content, cached := contents.get(id)
		if !cached {
			content, err = cfg.Content.FetchContent(c.Context(), id)
			if err != nil {
				log.WithFields(log.Fields{
					"id":    id,
					"error": err,
				}).Error("Fetching post content failed")
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream_unavailable"})
			}
			contents.set(id, content)
		}

		return c.JSON(rank.PostDetail{Post: post, Content: content})
	})

	return app
}

// notReady is the pre-first-refresh answer: distinct from a real error, with
// a hint of when to come back.
func notReady(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "30")
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "not_ready"})
}
