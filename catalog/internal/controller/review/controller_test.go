package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinevault/catalog/internal/cache"
	cachememory "cinevault/catalog/internal/cache/memory"
	"cinevault/catalog/internal/repository"
	"cinevault/catalog/internal/repository/memory"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"

	gen "cinevault/gen/mock/catalog/review"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v6"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const ttl = time.Minute

func newController(t *testing.T) (*Controller, *gen.MockreviewRepository, *gen.MockreviewCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockreviewRepository(ctrl)
	cacheMock := gen.NewMockreviewCache(ctrl)
	return New(repoMock, cacheMock, ttl, zap.NewNop(), tally.NoopScope), repoMock, cacheMock
}

func testViews() []model.ReviewView {
	comment := "great"
	return []model.ReviewView{
		{
			ID:         2,
			MovieID:    7,
			MovieTitle: "Heat",
			UserID:     3,
			Username:   "neil",
			Rating:     9,
			Comment:    &comment,
			CreatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:         1,
			MovieID:    7,
			MovieTitle: "Heat",
			UserID:     4,
			Username:   "vincent",
			Rating:     6,
			CreatedAt:  time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestListByMovie(t *testing.T) {
	views := testViews()
	payload, err := json.Marshal(views)
	require.NoError(t, err)
	key := cache.ReviewsKey(7)

	tests := []struct {
		name     string
		cacheRes string
		cacheErr error
		repoCall bool
		repoRes  []model.ReviewView
		repoErr  error
		setCall  bool
		setErr   error
		wantRes  []model.ReviewView
		wantErr  error
	}{
		{
			name:     "cache hit",
			cacheRes: string(payload),
			wantRes:  views,
		},
		{
			name:     "cache miss",
			cacheErr: cache.ErrNotFound,
			repoCall: true,
			repoRes:  views,
			setCall:  true,
			wantRes:  views,
		},
		{
			name:     "cache read failure falls through",
			cacheErr: errors.New("connection refused"),
			repoCall: true,
			repoRes:  views,
			setCall:  true,
			wantRes:  views,
		},
		{
			name:     "cache write failure is ignored",
			cacheErr: cache.ErrNotFound,
			repoCall: true,
			repoRes:  views,
			setCall:  true,
			setErr:   errors.New("connection refused"),
			wantRes:  views,
		},
		{
			name:     "corrupt payload is refetched",
			cacheRes: "{not json",
			repoCall: true,
			repoRes:  views,
			setCall:  true,
			wantRes:  views,
		},
		{
			name:     "store failure is not cached",
			cacheErr: cache.ErrNotFound,
			repoCall: true,
			repoErr:  errors.New("unexpected error"),
			wantErr:  errors.New("unexpected error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, repoMock, cacheMock := newController(t)
			cacheMock.EXPECT().Get(gomock.Any(), key).Return(tt.cacheRes, tt.cacheErr)
			if tt.repoCall {
				repoMock.EXPECT().ListReviewsByMovieID(gomock.Any(), int64(7)).Return(tt.repoRes, tt.repoErr)
			}
			if tt.setCall {
				cacheMock.EXPECT().Set(gomock.Any(), key, string(payload), ttl).Return(tt.setErr)
			}
			res, err := c.ListByMovie(context.Background(), 7)
			assert.Equal(t, tt.wantRes, res)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestListByMovieLogsDecodeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockreviewRepository(ctrl)
	cacheMock := gen.NewMockreviewCache(ctrl)
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(repoMock, cacheMock, ttl, zap.New(core), tally.NoopScope)

	cacheMock.EXPECT().Get(gomock.Any(), "reviews_7").Return("{not json", nil)
	repoMock.EXPECT().ListReviewsByMovieID(gomock.Any(), int64(7)).Return(testViews(), nil)
	cacheMock.EXPECT().Set(gomock.Any(), "reviews_7", gomock.Any(), ttl).Return(nil)

	_, err := c.ListByMovie(context.Background(), 7)
	require.NoError(t, err)

	entries := logs.FilterMessage("Cached reviews are unreadable, refetching").All()
	require.Len(t, entries, 1)
	logged, ok := entries[0].ContextMap()["error"].(string)
	require.True(t, ok, "decode error must be logged")
	assert.NotEmpty(t, logged)
}

func TestListByMovieEmpty(t *testing.T) {
	c, repoMock, cacheMock := newController(t)
	key := cache.ReviewsKey(8)
	cacheMock.EXPECT().Get(gomock.Any(), key).Return("", cache.ErrNotFound)
	repoMock.EXPECT().ListReviewsByMovieID(gomock.Any(), int64(8)).Return([]model.ReviewView{}, nil)
	cacheMock.EXPECT().Set(gomock.Any(), key, "[]", ttl).Return(nil)

	res, err := c.ListByMovie(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestPut(t *testing.T) {
	tests := []struct {
		name        string
		review      *model.Review
		repoCall    bool
		repoErr     error
		invalidates bool
		wantErr     error
	}{
		{
			name:        "created",
			review:      &model.Review{MovieID: 7, UserID: 3, Rating: 10},
			repoCall:    true,
			invalidates: true,
		},
		{
			name:    "rating below range",
			review:  &model.Review{MovieID: 7, UserID: 3, Rating: 0},
			wantErr: ErrInvalidReview,
		},
		{
			name:    "rating above range",
			review:  &model.Review{MovieID: 7, UserID: 3, Rating: 11},
			wantErr: ErrInvalidReview,
		},
		{
			name:     "unknown movie",
			review:   &model.Review{MovieID: 7, UserID: 3, Rating: 5},
			repoCall: true,
			repoErr:  repository.ErrMovieNotFound,
			wantErr:  ErrMovieNotFound,
		},
		{
			name:     "unknown user",
			review:   &model.Review{MovieID: 7, UserID: 3, Rating: 5},
			repoCall: true,
			repoErr:  repository.ErrUserNotFound,
			wantErr:  ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, repoMock, cacheMock := newController(t)
			if tt.repoCall {
				repoMock.EXPECT().PutReview(gomock.Any(), tt.review).Return(int64(1), tt.repoErr == nil, tt.repoErr)
			}
			if tt.invalidates {
				cacheMock.EXPECT().Delete(gomock.Any(), "reviews_7").Return(nil)
			}
			_, _, err := c.Put(context.Background(), tt.review)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPutInvalidationFailureIsIgnored(t *testing.T) {
	c, repoMock, cacheMock := newController(t)
	rv := &model.Review{MovieID: 7, UserID: 3, Rating: 4}
	repoMock.EXPECT().PutReview(gomock.Any(), rv).Return(int64(5), false, nil)
	cacheMock.EXPECT().Delete(gomock.Any(), "reviews_7").Return(errors.New("connection refused"))

	id, created, err := c.Put(context.Background(), rv)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.False(t, created)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name        string
		review      *model.Review
		repoCall    bool
		repoRes     *model.Review
		repoErr     error
		invalidated []string
		wantErr     error
	}{
		{
			name:        "same movie",
			review:      &model.Review{MovieID: 7, UserID: 3, Rating: 1},
			repoCall:    true,
			repoRes:     &model.Review{ID: 2, MovieID: 7, UserID: 3, Rating: 8},
			invalidated: []string{"reviews_7"},
		},
		{
			name:        "moved to another movie",
			review:      &model.Review{MovieID: 9, UserID: 3, Rating: 1},
			repoCall:    true,
			repoRes:     &model.Review{ID: 2, MovieID: 7, UserID: 3, Rating: 8},
			invalidated: []string{"reviews_9", "reviews_7"},
		},
		{
			name:    "rating below range",
			review:  &model.Review{MovieID: 7, UserID: 3, Rating: 0},
			wantErr: ErrInvalidReview,
		},
		{
			name:    "rating above range",
			review:  &model.Review{MovieID: 7, UserID: 3, Rating: 11},
			wantErr: ErrInvalidReview,
		},
		{
			name:     "not found",
			review:   &model.Review{MovieID: 7, UserID: 3, Rating: 2},
			repoCall: true,
			repoErr:  repository.ErrNotFound,
			wantErr:  ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, repoMock, cacheMock := newController(t)
			if tt.repoCall {
				repoMock.EXPECT().UpdateReview(gomock.Any(), int64(2), tt.review).Return(tt.repoRes, tt.repoErr)
			}
			for _, key := range tt.invalidated {
				cacheMock.EXPECT().Delete(gomock.Any(), key).Return(nil)
			}
			err := c.Update(context.Background(), 2, tt.review)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDelete(t *testing.T) {
	t.Run("invalidates", func(t *testing.T) {
		c, repoMock, cacheMock := newController(t)
		gomock.InOrder(
			repoMock.EXPECT().DeleteReview(gomock.Any(), int64(2)).Return(&model.Review{ID: 2, MovieID: 7}, nil),
			cacheMock.EXPECT().Delete(gomock.Any(), "reviews_7").Return(nil),
		)
		require.NoError(t, c.Delete(context.Background(), 2))
	})
	t.Run("not found", func(t *testing.T) {
		c, repoMock, _ := newController(t)
		repoMock.EXPECT().DeleteReview(gomock.Any(), int64(2)).Return(nil, repository.ErrNotFound)
		assert.ErrorIs(t, c.Delete(context.Background(), 2), ErrNotFound)
	})
}

func TestWriteThenReadRefetches(t *testing.T) {
	c, repoMock, cacheMock := newController(t)
	views := testViews()
	payload, err := json.Marshal(views)
	require.NoError(t, err)
	rv := &model.Review{MovieID: 7, UserID: 5, Rating: 7}

	gomock.InOrder(
		cacheMock.EXPECT().Get(gomock.Any(), "reviews_7").Return(string(payload), nil),
		repoMock.EXPECT().PutReview(gomock.Any(), rv).Return(int64(3), true, nil),
		cacheMock.EXPECT().Delete(gomock.Any(), "reviews_7").Return(nil),
		cacheMock.EXPECT().Get(gomock.Any(), "reviews_7").Return("", cache.ErrNotFound),
		repoMock.EXPECT().ListReviewsByMovieID(gomock.Any(), int64(7)).Return(views[:1], nil),
		cacheMock.EXPECT().Set(gomock.Any(), "reviews_7", gomock.Any(), ttl).Return(nil),
	)

	res, err := c.ListByMovie(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	_, _, err = c.Put(context.Background(), rv)
	require.NoError(t, err)
	res, err = c.ListByMovie(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

// concurrentWriteRepo commits a review for the listed movie after the
// listing is read but before it is returned.
type concurrentWriteRepo struct {
	*memory.Repository
	write func()
}

func (r *concurrentWriteRepo) ListReviewsByMovieID(ctx context.Context, movieID int64) ([]model.ReviewView, error) {
	views, err := r.Repository.ListReviewsByMovieID(ctx, movieID)
	if r.write != nil {
		write := r.write
		r.write = nil
		write()
	}
	return views, err
}

func TestWriteDuringFetchIsNotCached(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	store := memory.New(clk, zap.NewNop())
	movieID, err := store.PutMovie(ctx, &model.Movie{Title: "Heat"})
	require.NoError(t, err)
	neil, err := store.PutUser(ctx, &model.User{Username: "neil", Email: "neil@example.com"})
	require.NoError(t, err)
	vincent, err := store.PutUser(ctx, &model.User{Username: "vincent", Email: "vincent@example.com"})
	require.NoError(t, err)
	_, _, err = store.PutReview(ctx, &model.Review{MovieID: movieID, UserID: neil, Rating: 8})
	require.NoError(t, err)

	reviewCache, err := cachememory.New(16, time.Hour, clk, zap.NewNop())
	require.NoError(t, err)
	repo := &concurrentWriteRepo{Repository: store}
	c := New(repo, reviewCache, ttl, zap.NewNop(), tally.NoopScope)
	repo.write = func() {
		_, _, err := c.Put(ctx, &model.Review{MovieID: movieID, UserID: vincent, Rating: 3})
		require.NoError(t, err)
	}

	res, err := c.ListByMovie(ctx, movieID)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	_, err = reviewCache.Get(ctx, cache.ReviewsKey(movieID))
	assert.ErrorIs(t, err, cache.ErrNotFound)

	res, err = c.ListByMovie(ctx, movieID)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	// Without a concurrent write the listing is cached again.
	_, err = reviewCache.Get(ctx, cache.ReviewsKey(movieID))
	assert.NoError(t, err)
}

func TestStartIngestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockreviewRepository(ctrl)
	cacheMock := gen.NewMockreviewCache(ctrl)
	ingesterMock := gen.NewMockreviewIngester(ctrl)
	c := New(repoMock, cacheMock, ttl, zap.NewNop(), tally.NoopScope)

	ch := make(chan model.ReviewEvent, 3)
	ch <- model.ReviewEvent{Review: model.Review{MovieID: 7, UserID: 3, Rating: 8}, EventType: model.ReviewEventTypePut}
	ch <- model.ReviewEvent{Review: model.Review{MovieID: 7, UserID: 3, Rating: 42}, EventType: model.ReviewEventTypePut}
	ch <- model.ReviewEvent{Review: model.Review{ID: 4}, EventType: model.ReviewEventTypeDelete}
	close(ch)

	ingesterMock.EXPECT().Ingest(gomock.Any()).Return(ch, nil)
	repoMock.EXPECT().PutReview(gomock.Any(), gomock.Any()).Return(int64(1), true, nil)
	repoMock.EXPECT().DeleteReview(gomock.Any(), int64(4)).Return(&model.Review{ID: 4, MovieID: 8}, nil)
	cacheMock.EXPECT().Delete(gomock.Any(), "reviews_7").Return(nil)
	cacheMock.EXPECT().Delete(gomock.Any(), "reviews_8").Return(nil)

	require.NoError(t, c.StartIngestion(context.Background(), ingesterMock))
}
