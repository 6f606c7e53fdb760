package moviestats

import (
	"context"
	"fmt"

	"cinevault/catalog/internal/processor"
	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"
)

type store interface {
	Begin(ctx context.Context) (repository.UnitOfWork, error)
}

// Reconciler keeps one MovieStat row per movie in line with the
// movie's reviews and deletion flag.
type Reconciler struct {
	store store
	clock clock.Clock
}

// New creates a new movie stats reconciler.
func New(store store, clk clock.Clock) *Reconciler {
	return &Reconciler{store: store, clock: clk}
}

// Name returns the job name.
func (r *Reconciler) Name() string {
	return "movie-stats"
}

// Run reconciles every movie, soft-deleted ones included. Rows are
// inserted when missing and updated only when a value changed; all
// writes are saved together.
func (r *Reconciler) Run(ctx context.Context) (processor.Result, error) {
	var res processor.Result
	uow, err := r.store.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Close()

	movies, err := uow.ListMoviesIncludingDeleted(ctx)
	if err != nil {
		return res, fmt.Errorf("list movies: %w", err)
	}
	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	stats, err := uow.ListMovieStats(ctx, ids)
	if err != nil {
		return res, fmt.Errorf("list movie stats: %w", err)
	}
	byID := make(map[int64]*model.MovieStat, len(stats))
	for _, s := range stats {
		byID[s.MovieID] = s
	}

	now := r.clock.Now()
	for _, m := range movies {
		values := model.ComputeStat(m)
		stat, ok := byID[m.ID]
		switch {
		case !ok:
			stat = &model.MovieStat{MovieID: m.ID}
			stat.Apply(values, now)
			uow.InsertMovieStat(stat)
			res.Inserted++
		case stat.Differs(values):
			stat.Apply(values, now)
			uow.UpdateMovieStat(stat)
			res.Updated++
		}
	}

	if err := uow.SaveChanges(ctx); err != nil {
		return processor.Result{}, fmt.Errorf("save movie stats: %w", err)
	}
	return res, nil
}
