package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/pders01/devtop/internal/rank"
)

const (
	defaultUserAgent = "devtop/1.0 (news aggregator; github.com/pders01/devtop)"
	defaultPerPage   = 100
	defaultTimeout   = 30 * time.Second
)

// RetryPolicy bounds how FetchPage retries transient upstream failures.
// Delays are deterministic (no jitter) so tests can assert on them.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultRetryPolicy suits the public content API's documented limits.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2.0,
		MaxDelay:    30 * time.Second,
	}
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.Multiplier = p.Multiplier
	bo.MaxInterval = p.MaxDelay
	bo.MaxElapsedTime = 0
	bo.RandomizationFactor = 0
	bo.Reset()
	return bo
}

// Config configures a Client.
type Config struct {
	BaseURL string
	// APIKey is sent as the api-key header when set. The public endpoints
	// work without one but get a tighter rate limit.
	APIKey    string
	PerPage   int
	UserAgent string
	Timeout   time.Duration
	Retry     RetryPolicy
	// MinRequestGap spaces successive upstream requests. Zero disables the
	// limiter.
	MinRequestGap time.Duration
}

// Client is a typed wrapper around the upstream content API. It implements
// rank.Source. Apart from the outbound HTTP calls it has no side effects.
type Client struct {
	baseURL   string
	apiKey    string
	perPage   int
	userAgent string
	retry     RetryPolicy

	client  *http.Client
	limiter *rate.Limiter

	// sleep is swapped out in tests for a fake clock.
	sleep func(time.Duration)
}

func NewClient(cfg Config) *Client {
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry == (RetryPolicy{}) {
		cfg.Retry = DefaultRetryPolicy()
	}

	var limiter *rate.Limiter
	if cfg.MinRequestGap > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinRequestGap), 1)
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		perPage:   cfg.PerPage,
		userAgent: cfg.UserAgent,
		retry:     cfg.Retry,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		sleep:     time.Sleep,
	}
}

// articleItem mirrors the list endpoint's JSON.
type articleItem struct {
	ID                     int64     `json:"id"`
	Title                  string    `json:"title"`
	URL                    string    `json:"url"`
	PositiveReactionsCount int       `json:"positive_reactions_count"`
	PublishedAt            time.Time `json:"published_at"`
	User                   struct {
		Name string `json:"name"`
	} `json:"user"`
}

// articleDetail mirrors the detail endpoint's JSON.
type articleDetail struct {
	ID           int64  `json:"id"`
	BodyMarkdown string `json:"body_markdown"`
}

// FetchPage fetches one page of the latest articles. more is false when the
// upstream returned fewer than a full page, i.e. pagination is exhausted.
// Transient failures are retried per the client's RetryPolicy; the Retry-After
// header of a 429 stretches the delay when it asks for more than the backoff
// would wait.
func (c *Client) FetchPage(ctx context.Context, page int) ([]rank.Post, bool, error) {
	url := fmt.Sprintf("%s/articles/latest?per_page=%d&page=%d", c.baseURL, c.perPage, page)

	var items []articleItem
	if err := c.getJSON(ctx, page, url, &items); err != nil {
		return nil, false, err
	}

	posts := lo.Map(items, func(it articleItem, _ int) rank.Post {
		return rank.Post{
			ID:          it.ID,
			Title:       it.Title,
			URL:         it.URL,
			Upvotes:     it.PositiveReactionsCount,
			PublishedAt: it.PublishedAt,
			Author:      it.User.Name,
		}
	})

	return posts, len(items) == c.perPage, nil
}

// FetchContent fetches the full markdown body of a single article.
func (c *Client) FetchContent(ctx context.Context, id int64) (string, error) {
	url := fmt.Sprintf("%s/articles/%d", c.baseURL, id)

	var detail articleDetail
	if err := c.getJSON(ctx, 0, url, &detail); err != nil {
		return "", err
	}
	return detail.BodyMarkdown, nil
}

func (c *Client) getJSON(ctx context.Context, page int, url string, out any) error {
	bo := c.retry.newBackOff()

	for attempt := 1; ; attempt++ {
		err := c.doOnce(ctx, page, url, out)
		if err == nil {
			return nil
		}

		var fe *FetchError
		if !errors.As(err, &fe) || !fe.Retryable() || attempt >= c.retry.MaxAttempts {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		delay := bo.NextBackOff()
		if fe.RetryAfter > delay {
			delay = fe.RetryAfter
		}
		c.sleep(delay)
	}
}

func (c *Client) doOnce(ctx context.Context, page int, url string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &FetchError{Kind: KindNetwork, Page: page, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Kind: KindMalformed, Page: page, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Kind: KindNetwork, Page: page, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		fe := &FetchError{Kind: KindRateLimited, Page: page, Err: fmt.Errorf("HTTP 429")}
		if secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && secs > 0 {
			fe.RetryAfter = time.Duration(secs) * time.Second
		}
		return fe
	case resp.StatusCode >= 500:
		return &FetchError{Kind: KindNetwork, Page: page, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return &FetchError{Kind: KindMalformed, Page: page, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Kind: KindMalformed, Page: page, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
