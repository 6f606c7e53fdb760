package memory

import (
	"context"
	"testing"
	"time"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var start = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) (*Repository, *clock.Mock, int64, int64) {
	t.Helper()
	clk := clock.NewMock(start)
	r := New(clk, zap.NewNop())
	ctx := context.Background()
	movieID, err := r.PutMovie(ctx, &model.Movie{Title: "Heat"})
	require.NoError(t, err)
	userID, err := r.PutUser(ctx, &model.User{Username: "neil", Email: "neil@example.com"})
	require.NoError(t, err)
	return r, clk, movieID, userID
}

func TestPutReviewReplacesUserReview(t *testing.T) {
	r, clk, movieID, userID := seed(t)
	ctx := context.Background()

	id, created, err := r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: userID, Rating: 6})
	require.NoError(t, err)
	assert.True(t, created)

	clk.Advance(time.Hour)
	id2, created, err := r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: userID, Rating: 9})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, id2)

	views, err := r.ListReviewsByMovieID(ctx, movieID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 9, views[0].Rating)
	assert.Equal(t, "Heat", views[0].MovieTitle)
	assert.Equal(t, "neil", views[0].Username)
	assert.Equal(t, start.Add(time.Hour), views[0].CreatedAt)
}

func TestPutReviewReferences(t *testing.T) {
	r, _, movieID, userID := seed(t)
	ctx := context.Background()

	_, _, err := r.PutReview(ctx, &model.Review{MovieID: 999, UserID: userID, Rating: 5})
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
	_, _, err = r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: 999, Rating: 5})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, r.DeleteMovie(ctx, movieID))
	_, _, err = r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: userID, Rating: 5})
	assert.ErrorIs(t, err, repository.ErrMovieNotFound)
}

func TestDeleteReviewHidesItFromListing(t *testing.T) {
	r, _, movieID, userID := seed(t)
	ctx := context.Background()
	id, _, err := r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: userID, Rating: 5})
	require.NoError(t, err)

	deleted, err := r.DeleteReview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, movieID, deleted.MovieID)

	views, err := r.ListReviewsByMovieID(ctx, movieID)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = r.DeleteReview(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetReview(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUnitOfWorkReadsIncludeDeleted(t *testing.T) {
	r, _, movieID, userID := seed(t)
	ctx := context.Background()
	id, _, err := r.PutReview(ctx, &model.Review{MovieID: movieID, UserID: userID, Rating: 4})
	require.NoError(t, err)
	_, err = r.DeleteReview(ctx, id)
	require.NoError(t, err)
	require.NoError(t, r.DeleteMovie(ctx, movieID))

	uow, err := r.Begin(ctx)
	require.NoError(t, err)
	defer uow.Close()
	movies, err := uow.ListMoviesIncludingDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.True(t, movies[0].IsDeleted)
	assert.Len(t, movies[0].Reviews, 1)
}

func TestSaveChangesIsAtomic(t *testing.T) {
	r, clk, movieID, _ := seed(t)
	ctx := context.Background()

	uow, err := r.Begin(ctx)
	require.NoError(t, err)
	uow.InsertMovieStat(&model.MovieStat{MovieID: movieID, LastChangedAt: clk.Now()})
	uow.InsertMovieStat(&model.MovieStat{MovieID: 404, LastChangedAt: clk.Now()})
	assert.ErrorIs(t, uow.SaveChanges(ctx), repository.ErrMovieNotFound)
	require.NoError(t, uow.Close())

	_, err = r.GetMovieStat(ctx, movieID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, r.Writes())

	uow, err = r.Begin(ctx)
	require.NoError(t, err)
	uow.InsertMovieStat(&model.MovieStat{MovieID: movieID, AverageRating: 3, ReviewCount: 1, LastChangedAt: clk.Now()})
	require.NoError(t, uow.SaveChanges(ctx))
	assert.ErrorIs(t, uow.SaveChanges(ctx), repository.ErrClosed)

	stat, err := r.GetMovieStat(ctx, movieID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stat.AverageRating)
	assert.Equal(t, 1, r.Writes())
	assert.Equal(t, 1, r.Saves())
}

func TestCloseDiscardsStagedWrites(t *testing.T) {
	r, _, movieID, _ := seed(t)
	ctx := context.Background()

	uow, err := r.Begin(ctx)
	require.NoError(t, err)
	uow.MarkMovieDeleted(&model.Movie{ID: movieID})
	require.NoError(t, uow.Close())

	_, err = r.GetMovie(ctx, movieID)
	assert.NoError(t, err)
	assert.Equal(t, 0, r.Writes())
}

func TestPutMovieUniqueTitle(t *testing.T) {
	r, _, _, _ := seed(t)
	_, err := r.PutMovie(context.Background(), &model.Movie{Title: "heat"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}
