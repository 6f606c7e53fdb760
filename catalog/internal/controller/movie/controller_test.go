package movie

import (
	"context"
	"errors"
	"testing"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"

	gen "cinevault/gen/mock/catalog/movie"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestPut(t *testing.T) {
	tests := []struct {
		name     string
		movie    *model.Movie
		repoCall bool
		repoErr  error
		wantID   int64
		wantErr  error
	}{
		{
			name:     "success",
			movie:    &model.Movie{Title: "Heat"},
			repoCall: true,
			wantID:   1,
		},
		{
			name:    "missing title",
			movie:   &model.Movie{},
			wantErr: ErrInvalid,
		},
		{
			name:     "duplicate title",
			movie:    &model.Movie{Title: "Heat"},
			repoCall: true,
			repoErr:  repository.ErrAlreadyExists,
			wantErr:  ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repoMock := gen.NewMockmovieRepository(ctrl)
			c := New(repoMock, gen.NewMockreviewInvalidator(ctrl), zap.NewNop())
			ctx := context.Background()
			if tt.repoCall {
				repoMock.EXPECT().PutMovie(ctx, tt.movie).Return(tt.wantID, tt.repoErr)
			}
			id, err := c.Put(ctx, tt.movie)
			assert.Equal(t, tt.wantID, id)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		repoRes *model.Movie
		repoErr error
		wantRes *model.Movie
		wantErr error
	}{
		{
			name:    "not found",
			repoErr: repository.ErrNotFound,
			wantErr: ErrNotFound,
		},
		{
			name:    "unexpected error",
			repoErr: errors.New("unexpected error"),
			wantErr: errors.New("unexpected error"),
		},
		{
			name:    "success",
			repoRes: &model.Movie{ID: 1, Title: "Heat"},
			wantRes: &model.Movie{ID: 1, Title: "Heat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repoMock := gen.NewMockmovieRepository(ctrl)
			c := New(repoMock, gen.NewMockreviewInvalidator(ctrl), zap.NewNop())
			ctx := context.Background()
			repoMock.EXPECT().GetMovie(ctx, int64(1)).Return(tt.repoRes, tt.repoErr)
			res, err := c.Get(ctx, 1)
			assert.Equal(t, tt.wantRes, res)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestDeleteInvalidatesReviews(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockmovieRepository(ctrl)
	invalidatorMock := gen.NewMockreviewInvalidator(ctrl)
	c := New(repoMock, invalidatorMock, zap.NewNop())
	ctx := context.Background()

	gomock.InOrder(
		repoMock.EXPECT().DeleteMovie(ctx, int64(3)).Return(nil),
		invalidatorMock.EXPECT().InvalidateReviews(ctx, int64(3)),
	)
	assert.NoError(t, c.Delete(ctx, 3))

	repoMock.EXPECT().DeleteMovie(ctx, int64(4)).Return(repository.ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, 4), ErrNotFound)
}

func TestStat(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockmovieRepository(ctrl)
	c := New(repoMock, gen.NewMockreviewInvalidator(ctrl), zap.NewNop())
	ctx := context.Background()

	repoMock.EXPECT().GetMovieStat(ctx, int64(1)).Return(nil, repository.ErrNotFound)
	_, err := c.Stat(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	want := &model.MovieStat{MovieID: 2, AverageRating: 7.5, ReviewCount: 2}
	repoMock.EXPECT().GetMovieStat(ctx, int64(2)).Return(want, nil)
	got, err := c.Stat(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPutUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := gen.NewMockmovieRepository(ctrl)
	c := New(repoMock, gen.NewMockreviewInvalidator(ctrl), zap.NewNop())
	ctx := context.Background()

	_, err := c.PutUser(ctx, &model.User{Username: "neil", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalid)

	u := &model.User{Username: "neil", Email: "neil@example.com"}
	repoMock.EXPECT().PutUser(ctx, u).Return(int64(9), nil)
	id, err := c.PutUser(ctx, u)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), id)
}
