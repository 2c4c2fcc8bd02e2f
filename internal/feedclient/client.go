package feedclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pders01/devtop/internal/rank"
)

// ErrorKind classifies client-side failures for the terminal UI.
type ErrorKind int

const (
	// KindUnreachable means the server could not be contacted.
	KindUnreachable ErrorKind = iota
	// KindTimeout means the request exceeded the client's deadline.
	KindTimeout
	// KindMalformed means the server answered with something unexpected.
	KindMalformed
	// KindNotReady means the server is up but has no snapshot yet. Treated
	// like a retryable failure, not a hard error.
	KindNotReady
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed"
	case KindNotReady:
		return "not_ready"
	default:
		return "unknown"
	}
}

// ClientError is the typed error returned by Client.
type ClientError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }

const (
	defaultTimeout = 5 * time.Second
	userAgent      = "devtop/1.0 (terminal client; github.com/pders01/devtop)"
)

// Client fetches the ranked feed from a devtopd instance. Side effect-free
// beyond the requests themselves.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchPosts performs GET /posts and returns the parsed snapshot. Transient
// transport failures are retried exactly once.
func (c *Client) FetchPosts(ctx context.Context) (*rank.Snapshot, error) {
	var snap rank.Snapshot
	if err := c.getJSON(ctx, c.baseURL+"/posts", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// FetchPost performs GET /posts/{id} and returns the post with its full body.
func (c *Client) FetchPost(ctx context.Context, id int64) (*rank.PostDetail, error) {
	var detail rank.PostDetail
	if err := c.getJSON(ctx, fmt.Sprintf("%s/posts/%d", c.baseURL, id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	err := c.doOnce(ctx, url, out)
	if err == nil {
		return nil
	}

	var ce *ClientError
	if errors.As(err, &ce) && ce.Kind == KindUnreachable && ctx.Err() == nil {
		// One retry on transient transport failure.
		err = c.doOnce(ctx, url, out)
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ClientError{Kind: KindMalformed, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ClientError{Kind: transportKind(err), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		// A proxy between us and the server answers 503 too; only the
		// server's own not_ready payload means "come back later".
		if isNotReady(resp.Body) {
			return &ClientError{Kind: KindNotReady, Err: fmt.Errorf("server has no snapshot yet")}
		}
		return &ClientError{Kind: KindMalformed, Err: fmt.Errorf("HTTP 503")}
	case resp.StatusCode != http.StatusOK:
		return &ClientError{Kind: KindMalformed, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Kind: KindMalformed, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func isNotReady(body io.Reader) bool {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return false
	}
	return payload.Error == "not_ready"
}

func transportKind(err error) ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnreachable
}
