package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"
	"cinevault/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "catalog-repository-memory"

// Repository defines an in-memory catalog store.
type Repository struct {
	sync.RWMutex
	movies  map[int64]*model.Movie
	reviews map[int64]*model.Review
	users   map[int64]*model.User
	stats   map[int64]*model.MovieStat
	lastID  int64
	saves   int
	writes  int
	clock   clock.Clock
	logger  *zap.Logger
}

// New creates a new in-memory catalog store.
func New(clk clock.Clock, logger *zap.Logger) *Repository {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "memory"),
	)
	return &Repository{
		movies:  map[int64]*model.Movie{},
		reviews: map[int64]*model.Review{},
		users:   map[int64]*model.User{},
		stats:   map[int64]*model.MovieStat{},
		clock:   clk,
		logger:  logger,
	}
}

// Writes returns the number of rows written by SaveChanges so far.
func (r *Repository) Writes() int {
	r.RLock()
	defer r.RUnlock()
	return r.writes
}

// Saves returns the number of committed SaveChanges calls so far.
func (r *Repository) Saves() int {
	r.RLock()
	defer r.RUnlock()
	return r.saves
}

func (r *Repository) nextID() int64 {
	r.lastID++
	return r.lastID
}

// PutMovie stores a new movie and returns its id.
func (r *Repository) PutMovie(ctx context.Context, m *model.Movie) (int64, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutMovie")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	for _, existing := range r.movies {
		if strings.EqualFold(existing.Title, m.Title) {
			return 0, repository.ErrAlreadyExists
		}
	}
	stored := *m
	stored.ID = r.nextID()
	stored.Reviews = nil
	r.movies[stored.ID] = &stored
	return stored.ID, nil
}

// GetMovie returns a live movie by id.
func (r *Repository) GetMovie(ctx context.Context, id int64) (*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMovie")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	m, ok := r.movies[id]
	if !ok || m.IsDeleted {
		return nil, repository.ErrNotFound
	}
	res := *m
	return &res, nil
}

// DeleteMovie soft-deletes a live movie.
func (r *Repository) DeleteMovie(ctx context.Context, id int64) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteMovie")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	m, ok := r.movies[id]
	if !ok || m.IsDeleted {
		return repository.ErrNotFound
	}
	m.IsDeleted = true
	return nil
}

// GetMovieStat returns the stat row of a movie.
func (r *Repository) GetMovieStat(ctx context.Context, movieID int64) (*model.MovieStat, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMovieStat")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	s, ok := r.stats[movieID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	res := *s
	return &res, nil
}

// PutUser stores a new user and returns its id.
func (r *Repository) PutUser(ctx context.Context, u *model.User) (int64, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutUser")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, repository.ErrAlreadyExists
		}
	}
	stored := *u
	stored.ID = r.nextID()
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

// ListReviewsByMovieID returns the live reviews of a live movie, newest first.
func (r *Repository) ListReviewsByMovieID(ctx context.Context, movieID int64) ([]model.ReviewView, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListReviewsByMovieID")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	m, ok := r.movies[movieID]
	if !ok || m.IsDeleted {
		return []model.ReviewView{}, nil
	}
	res := []model.ReviewView{}
	for _, rv := range r.reviews {
		if rv.MovieID != movieID || rv.IsDeleted {
			continue
		}
		var username string
		if u, ok := r.users[rv.UserID]; ok {
			username = u.Username
		}
		res = append(res, model.ReviewView{
			ID:         rv.ID,
			MovieID:    rv.MovieID,
			MovieTitle: m.Title,
			UserID:     rv.UserID,
			Username:   username,
			Rating:     rv.Rating,
			Comment:    rv.Comment,
			CreatedAt:  rv.CreatedAt,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// PutReview stores a review. A live review of the same user on the same
// movie is replaced. It reports whether a new review was created.
func (r *Repository) PutReview(ctx context.Context, rv *model.Review) (int64, bool, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutReview")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	if err := r.checkReferences(rv); err != nil {
		return 0, false, err
	}
	now := r.clock.Now()
	for _, existing := range r.reviews {
		if existing.MovieID == rv.MovieID && existing.UserID == rv.UserID && !existing.IsDeleted {
			existing.Rating = rv.Rating
			existing.Comment = rv.Comment
			existing.CreatedAt = now
			return existing.ID, false, nil
		}
	}
	stored := *rv
	stored.ID = r.nextID()
	stored.CreatedAt = now
	stored.IsDeleted = false
	r.reviews[stored.ID] = &stored
	return stored.ID, true, nil
}

// GetReview returns a live review by id.
func (r *Repository) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetReview")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	rv, ok := r.reviews[id]
	if !ok || rv.IsDeleted {
		return nil, repository.ErrNotFound
	}
	res := *rv
	return &res, nil
}

// UpdateReview overwrites a live review and returns its previous state.
func (r *Repository) UpdateReview(ctx context.Context, id int64, rv *model.Review) (*model.Review, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateReview")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	existing, ok := r.reviews[id]
	if !ok || existing.IsDeleted {
		return nil, repository.ErrNotFound
	}
	if err := r.checkReferences(rv); err != nil {
		return nil, err
	}
	prev := *existing
	existing.MovieID = rv.MovieID
	existing.UserID = rv.UserID
	existing.Rating = rv.Rating
	existing.Comment = rv.Comment
	return &prev, nil
}

// DeleteReview soft-deletes a live review and returns it.
func (r *Repository) DeleteReview(ctx context.Context, id int64) (*model.Review, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteReview")
	defer span.End()
	r.Lock()
	defer r.Unlock()
	rv, ok := r.reviews[id]
	if !ok || rv.IsDeleted {
		return nil, repository.ErrNotFound
	}
	rv.IsDeleted = true
	res := *rv
	return &res, nil
}

func (r *Repository) checkReferences(rv *model.Review) error {
	if m, ok := r.movies[rv.MovieID]; !ok || m.IsDeleted {
		return repository.ErrMovieNotFound
	}
	if _, ok := r.users[rv.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	return nil
}
