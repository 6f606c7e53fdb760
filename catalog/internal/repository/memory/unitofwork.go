package memory

import (
	"context"
	"sort"
	"time"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"

	"go.opentelemetry.io/otel"
)

// UnitOfWork defines an in-memory unit of work.
type UnitOfWork struct {
	repo    *Repository
	inserts []model.MovieStat
	updates []model.MovieStat
	deletes []int64
	closed  bool
}

// Begin opens a new unit of work.
func (r *Repository) Begin(_ context.Context) (repository.UnitOfWork, error) {
	return &UnitOfWork{repo: r}, nil
}

// ListMoviesIncludingDeleted returns all movies with all of their reviews.
func (u *UnitOfWork) ListMoviesIncludingDeleted(ctx context.Context) ([]*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListMoviesIncludingDeleted")
	defer span.End()
	if u.closed {
		return nil, repository.ErrClosed
	}
	u.repo.RLock()
	defer u.repo.RUnlock()
	return u.repo.moviesWithReviews(func(m *model.Movie) bool { return true }, true), nil
}

// ListIrrelevantMovies returns live movies matching either staleness rule.
func (u *UnitOfWork) ListIrrelevantMovies(ctx context.Context, releaseCutoff, reviewCutoff time.Time) ([]*model.Movie, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListIrrelevantMovies")
	defer span.End()
	if u.closed {
		return nil, repository.ErrClosed
	}
	u.repo.RLock()
	defer u.repo.RUnlock()
	movies := u.repo.moviesWithReviews(func(m *model.Movie) bool { return !m.IsDeleted }, false)
	var res []*model.Movie
	for _, m := range movies {
		last, ok := m.LastReviewAt()
		switch {
		case !ok && m.ReleaseDate != nil && m.ReleaseDate.Before(releaseCutoff):
			res = append(res, m)
		case ok && last.Before(reviewCutoff):
			res = append(res, m)
		}
	}
	return res, nil
}

// ListMovieStats returns stat rows for the given movie ids.
func (u *UnitOfWork) ListMovieStats(ctx context.Context, movieIDs []int64) ([]*model.MovieStat, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListMovieStats")
	defer span.End()
	if u.closed {
		return nil, repository.ErrClosed
	}
	u.repo.RLock()
	defer u.repo.RUnlock()
	var res []*model.MovieStat
	for _, id := range movieIDs {
		if s, ok := u.repo.stats[id]; ok {
			stat := *s
			res = append(res, &stat)
		}
	}
	return res, nil
}

// InsertMovieStat stages a new stat row.
func (u *UnitOfWork) InsertMovieStat(stat *model.MovieStat) {
	u.inserts = append(u.inserts, *stat)
}

// UpdateMovieStat stages an update of an existing stat row.
func (u *UnitOfWork) UpdateMovieStat(stat *model.MovieStat) {
	u.updates = append(u.updates, *stat)
}

// MarkMovieDeleted stages the soft deletion of a movie.
func (u *UnitOfWork) MarkMovieDeleted(movie *model.Movie) {
	movie.IsDeleted = true
	u.deletes = append(u.deletes, movie.ID)
}

// SaveChanges applies all staged writes atomically.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/SaveChanges")
	defer span.End()
	if u.closed {
		return repository.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r := u.repo
	r.Lock()
	defer r.Unlock()
	for _, s := range u.inserts {
		if _, ok := r.movies[s.MovieID]; !ok {
			return repository.ErrMovieNotFound
		}
		if _, ok := r.stats[s.MovieID]; ok {
			return repository.ErrAlreadyExists
		}
	}
	for _, s := range u.updates {
		if _, ok := r.stats[s.MovieID]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, id := range u.deletes {
		if _, ok := r.movies[id]; !ok {
			return repository.ErrNotFound
		}
	}
	for i := range u.inserts {
		s := u.inserts[i]
		r.stats[s.MovieID] = &s
	}
	for i := range u.updates {
		s := u.updates[i]
		r.stats[s.MovieID] = &s
	}
	for _, id := range u.deletes {
		r.movies[id].IsDeleted = true
	}
	r.saves++
	r.writes += len(u.inserts) + len(u.updates) + len(u.deletes)
	u.closed = true
	return nil
}

// Close discards unsaved writes.
func (u *UnitOfWork) Close() error {
	u.closed = true
	u.inserts, u.updates, u.deletes = nil, nil, nil
	return nil
}

// moviesWithReviews copies the movies accepted by keep with their
// reviews, soft-deleted reviews included only when withDeleted is set.
// Callers hold the read lock.
func (r *Repository) moviesWithReviews(keep func(*model.Movie) bool, withDeleted bool) []*model.Movie {
	byMovie := map[int64][]model.Review{}
	for _, rv := range r.reviews {
		if rv.IsDeleted && !withDeleted {
			continue
		}
		byMovie[rv.MovieID] = append(byMovie[rv.MovieID], *rv)
	}
	var res []*model.Movie
	for _, m := range r.movies {
		if !keep(m) {
			continue
		}
		movie := *m
		movie.Reviews = byMovie[m.ID]
		res = append(res, &movie)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
