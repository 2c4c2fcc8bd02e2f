package upstream

import (
	"fmt"
	"time"
)

// ErrorKind classifies upstream failures so callers can decide whether to
// retry, back off, or give up.
type ErrorKind int

const (
	// KindNetwork covers connection failures, timeouts and 5xx responses.
	// Retryable.
	KindNetwork ErrorKind = iota
	// KindRateLimited is a 429 from the upstream. Retryable after backing
	// off.
	KindRateLimited
	// KindMalformed means the upstream answered with something we could not
	// parse, or a client error other than 429. Not retryable.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRateLimited:
		return "rate_limited"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError is the typed error returned by Client. It wraps the underlying
// cause and records which page was being fetched.
type FetchError struct {
	Kind ErrorKind
	Page int
	Err  error
	// RetryAfter carries the upstream's Retry-After hint on a 429, when it
	// sent a parseable one.
	RetryAfter time.Duration
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream %s error on page %d: %v", e.Kind, e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether a later attempt could succeed.
func (e *FetchError) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindRateLimited
}
