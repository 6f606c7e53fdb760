package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cinevault/catalog/internal/cache"
	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"
	"cinevault/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/uber-go/tally/v6"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "review-controller"

var (
	// ErrNotFound is returned when a review is not found.
	ErrNotFound = errors.New("review not found")
	// ErrInvalidReview is returned when a review fails validation.
	ErrInvalidReview = errors.New("invalid review")
	// ErrMovieNotFound is returned when the reviewed movie does not exist.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrUserNotFound is returned when the reviewing user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

//go:generate mockgen -source=controller.go -destination=../../../../gen/mock/catalog/review/review.go -package=review

type reviewRepository interface {
	ListReviewsByMovieID(ctx context.Context, movieID int64) ([]model.ReviewView, error)
	PutReview(ctx context.Context, review *model.Review) (int64, bool, error)
	GetReview(ctx context.Context, id int64) (*model.Review, error)
	UpdateReview(ctx context.Context, id int64, review *model.Review) (*model.Review, error)
	DeleteReview(ctx context.Context, id int64) (*model.Review, error)
}

type reviewCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type reviewIngester interface {
	Ingest(ctx context.Context) (chan model.ReviewEvent, error)
}

// Controller defines a review service controller. Review listings by
// movie are served through a read-through cache that every review write
// invalidates.
type Controller struct {
	repo     reviewRepository
	cache    reviewCache
	ttl      time.Duration
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *metrics.CacheMetrics

	// generations counts invalidations per movie. A listing fetched while
	// the count moved is returned but never cached.
	mu          sync.Mutex
	generations map[int64]uint64
}

// New creates a review service controller. Cached listings live for ttl.
func New(repo reviewRepository, cache reviewCache, ttl time.Duration, logger *zap.Logger, scope tally.Scope) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
		zap.String(logging.FieldType, "review"),
	)
	return &Controller{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		metrics:  metrics.NewCacheMetrics(scope, "reviews"),

		generations: make(map[int64]uint64),
	}
}

// ListByMovie returns the reviews of a movie. A cached listing is returned
// as is; on a miss the store is queried and the result is cached. Cache
// failures are logged and never fail the call.
func (c *Controller) ListByMovie(ctx context.Context, movieID int64) ([]model.ReviewView, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Controller/ListByMovie")
	defer span.End()
	key := cache.ReviewsKey(movieID)
	payload, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var views []model.ReviewView
		decodeErr := json.Unmarshal([]byte(payload), &views)
		if decodeErr == nil {
			c.metrics.Hits.Inc(1)
			return views, nil
		}
		c.metrics.Errors.Inc(1)
		c.logger.Warn("Cached reviews are unreadable, refetching", zap.String(logging.FieldKey, key), zap.Error(decodeErr))
	case !errors.Is(err, cache.ErrNotFound):
		c.metrics.Errors.Inc(1)
		c.logger.Warn("Failed to read reviews from cache", zap.String(logging.FieldKey, key), zap.Error(err))
	}
	c.metrics.Misses.Inc(1)

	generation := c.generation(movieID)
	views, err := c.repo.ListReviewsByMovieID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.ReviewView{}
	}
	data, err := json.Marshal(views)
	if err != nil {
		c.logger.Warn("Failed to encode reviews for cache", zap.String(logging.FieldKey, key), zap.Error(err))
		return views, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[movieID] != generation {
		c.logger.Debug("Reviews changed during fetch, skipping cache write", zap.String(logging.FieldKey, key))
		return views, nil
	}
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		c.metrics.Errors.Inc(1)
		c.logger.Warn("Failed to write reviews to cache", zap.String(logging.FieldKey, key), zap.Error(err))
	}
	return views, nil
}

// InvalidateReviews drops the cached review listing of a movie. Listings
// already being fetched for the movie will not be cached.
func (c *Controller) InvalidateReviews(ctx context.Context, movieID int64) {
	key := cache.ReviewsKey(movieID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[movieID]++
	if err := c.cache.Delete(ctx, key); err != nil {
		c.metrics.Errors.Inc(1)
		c.logger.Warn("Failed to invalidate cached reviews", zap.String(logging.FieldKey, key), zap.Error(err))
		return
	}
	c.metrics.Invalidations.Inc(1)
}

func (c *Controller) generation(movieID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[movieID]
}

// Get returns a review by id.
func (c *Controller) Get(ctx context.Context, id int64) (*model.Review, error) {
	rv, err := c.repo.GetReview(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return rv, nil
}

// Put creates a review, or replaces the review the same user left on the
// same movie. It reports whether a new review was created.
func (c *Controller) Put(ctx context.Context, rv *model.Review) (int64, bool, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Controller/Put")
	defer span.End()
	if err := c.validateReview(rv); err != nil {
		return 0, false, err
	}
	id, created, err := c.repo.PutReview(ctx, rv)
	if err != nil {
		return 0, false, mapError(err)
	}
	c.InvalidateReviews(ctx, rv.MovieID)
	return id, created, nil
}

// Update overwrites the review with the given id.
func (c *Controller) Update(ctx context.Context, id int64, rv *model.Review) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Controller/Update")
	defer span.End()
	if err := c.validateReview(rv); err != nil {
		return err
	}
	prev, err := c.repo.UpdateReview(ctx, id, rv)
	if err != nil {
		return mapError(err)
	}
	c.InvalidateReviews(ctx, rv.MovieID)
	if prev.MovieID != rv.MovieID {
		c.InvalidateReviews(ctx, prev.MovieID)
	}
	return nil
}

// Delete soft-deletes the review with the given id.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Controller/Delete")
	defer span.End()
	rv, err := c.repo.DeleteReview(ctx, id)
	if err != nil {
		return mapError(err)
	}
	c.InvalidateReviews(ctx, rv.MovieID)
	return nil
}

// StartIngestion applies review events read from the ingester until its
// channel is closed. Events that fail are logged and skipped.
func (c *Controller) StartIngestion(ctx context.Context, ingester reviewIngester) error {
	ch, err := ingester.Ingest(ctx)
	if err != nil {
		return err
	}
	for e := range ch {
		c.logger.Debug("Consumed review event", zap.Stringer("event", &e))
		switch e.EventType {
		case model.ReviewEventTypePut:
			_, _, err = c.Put(ctx, &e.Review)
		case model.ReviewEventTypeDelete:
			err = c.Delete(ctx, e.ID)
		default:
			err = fmt.Errorf("unknown event type %q", e.EventType)
		}
		if err != nil {
			c.logger.Warn("Failed to apply review event", zap.Stringer("event", &e), zap.Error(err))
		}
	}
	return nil
}

func (c *Controller) validateReview(rv *model.Review) error {
	if rv == nil {
		return fmt.Errorf("%w: review is nil", ErrInvalidReview)
	}
	if err := c.validate.Struct(rv); err != nil {
		c.logger.Warn("Review failed validation", zap.Int("rating", rv.Rating), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidReview, err)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrMovieNotFound):
		return ErrMovieNotFound
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	}
	return err
}
