package importer

import (
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries bounds publish attempts per file after the first.
const MaxRetries = 3

// temporary is implemented by errors worth retrying, such as a 5xx from the
// server.
type temporary interface {
	Temporary() bool
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
