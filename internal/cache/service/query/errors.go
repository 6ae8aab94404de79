package query

import (
	"errors"
	"fmt"
)

// ErrStaleCache is matched by StaleCacheError.
var ErrStaleCache = errors.New("cache is stale")

// StaleCacheError reports that the cached head lags the origin tip beyond the allowed deviance.
type StaleCacheError struct {
	Tip         uint64
	Cached      uint64
	MaxDeviance uint64
}

func (e *StaleCacheError) Error() string {
	return fmt.Sprintf("cache is stale: origin tip %d, cached height %d, max deviance %d", e.Tip, e.Cached, e.MaxDeviance)
}

func (e *StaleCacheError) Is(target error) bool {
	return target == ErrStaleCache
}
