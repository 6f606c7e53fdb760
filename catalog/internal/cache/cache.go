package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache key not found")

// ReviewsKey returns the cache key of the review listing of a movie.
func ReviewsKey(movieID int64) string {
	return fmt.Sprintf("reviews_%d", movieID)
}
