package rate

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited is matched by every *LimitError.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// LimitError reports a spent renewal budget and when the window reopens.
type LimitError struct {
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v: retry after %s", ErrRateLimited, e.RetryAfter)
}

// Is makes errors.Is(err, ErrRateLimited) hold.
func (e *LimitError) Is(target error) bool {
	return target == ErrRateLimited
}
