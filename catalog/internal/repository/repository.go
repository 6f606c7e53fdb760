package repository

import (
	"context"
	"errors"
	"time"

	"cinevault/catalog/pkg/model"
)

var (
	// ErrNotFound is returned when a requested record is not found.
	ErrNotFound = errors.New("not found")
	// ErrMovieNotFound is returned when a referenced movie does not exist.
	ErrMovieNotFound = errors.New("referenced movie not found")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("referenced user not found")
	// ErrAlreadyExists is returned when a unique column already holds the value.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrClosed is returned when a unit of work is used after it was saved or closed.
	ErrClosed = errors.New("unit of work is closed")
)

// UnitOfWork is a scoped handle to the store. Reads observe the store
// as of the call, writes are staged and applied atomically by SaveChanges.
// Close releases the handle and discards unsaved writes.
type UnitOfWork interface {
	// ListMoviesIncludingDeleted returns all movies, soft-deleted ones included,
	// each with all of its reviews loaded.
	ListMoviesIncludingDeleted(ctx context.Context) ([]*model.Movie, error)
	// ListIrrelevantMovies returns live movies that either have no live reviews
	// and were released before releaseCutoff, or whose latest live review was
	// created before reviewCutoff.
	ListIrrelevantMovies(ctx context.Context, releaseCutoff, reviewCutoff time.Time) ([]*model.Movie, error)
	// ListMovieStats returns the stat rows of the given movies.
	ListMovieStats(ctx context.Context, movieIDs []int64) ([]*model.MovieStat, error)

	InsertMovieStat(stat *model.MovieStat)
	UpdateMovieStat(stat *model.MovieStat)
	MarkMovieDeleted(movie *model.Movie)

	// SaveChanges applies all staged writes as one atomic batch.
	SaveChanges(ctx context.Context) error
	Close() error
}
