package movie

import (
	"context"
	"errors"
	"fmt"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a requested record is not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when a movie or user fails validation.
	ErrInvalid = errors.New("invalid request")
	// ErrAlreadyExists is returned when a movie title or user name is taken.
	ErrAlreadyExists = errors.New("already exists")
)

//go:generate mockgen -source=controller.go -destination=../../../../gen/mock/catalog/movie/movie.go -package=movie

type movieRepository interface {
	PutMovie(ctx context.Context, m *model.Movie) (int64, error)
	GetMovie(ctx context.Context, id int64) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
	GetMovieStat(ctx context.Context, movieID int64) (*model.MovieStat, error)
	PutUser(ctx context.Context, u *model.User) (int64, error)
}

type reviewInvalidator interface {
	InvalidateReviews(ctx context.Context, movieID int64)
}

// Controller defines a movie service controller.
type Controller struct {
	repo        movieRepository
	invalidator reviewInvalidator
	validate    *validator.Validate
	logger      *zap.Logger
}

// New creates a movie service controller. Deleting a movie drops its
// cached review listing through invalidator.
func New(repo movieRepository, invalidator reviewInvalidator, logger *zap.Logger) *Controller {
	return &Controller{
		repo:        repo,
		invalidator: invalidator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger: logger.With(
			zap.String(logging.FieldComponent, "controller"),
			zap.String(logging.FieldType, "movie"),
		),
	}
}

// Put creates a movie.
func (c *Controller) Put(ctx context.Context, m *model.Movie) (int64, error) {
	if err := c.validate.Struct(m); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	id, err := c.repo.PutMovie(ctx, m)
	if err != nil {
		return 0, mapError(err)
	}
	c.logger.Info("Movie created", zap.Int64(logging.FieldMovieID, id))
	return id, nil
}

// Get returns a live movie.
func (c *Controller) Get(ctx context.Context, id int64) (*model.Movie, error) {
	m, err := c.repo.GetMovie(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

// Delete soft-deletes a movie.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.repo.DeleteMovie(ctx, id); err != nil {
		return mapError(err)
	}
	c.invalidator.InvalidateReviews(ctx, id)
	c.logger.Info("Movie deleted", zap.Int64(logging.FieldMovieID, id))
	return nil
}

// Stat returns the aggregated review statistics of a movie.
func (c *Controller) Stat(ctx context.Context, movieID int64) (*model.MovieStat, error) {
	s, err := c.repo.GetMovieStat(ctx, movieID)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

// PutUser creates a user.
func (c *Controller) PutUser(ctx context.Context, u *model.User) (int64, error) {
	if err := c.validate.Struct(u); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	id, err := c.repo.PutUser(ctx, u)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyExists
	}
	return err
}
