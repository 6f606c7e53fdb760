package sweeper

import (
	"context"
	"fmt"
	"time"

	"cinevault/catalog/internal/processor"
	"cinevault/catalog/internal/repository"
	"cinevault/pkg/clock"
)

const (
	releaseAgeYears = 3
	reviewAgeYears  = 2
)

type store interface {
	Begin(ctx context.Context) (repository.UnitOfWork, error)
}

// Sweeper soft-deletes movies nobody cares about anymore: old releases
// that never got a review, and movies whose latest review is old.
type Sweeper struct {
	store store
	clock clock.Clock
}

// New creates a new stale movie sweeper.
func New(store store, clk clock.Clock) *Sweeper {
	return &Sweeper{store: store, clock: clk}
}

// Name returns the job name.
func (s *Sweeper) Name() string {
	return "stale-movie-sweeper"
}

// Run flags every stale movie as deleted in a single save.
func (s *Sweeper) Run(ctx context.Context) (processor.Result, error) {
	var res processor.Result
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Close()

	releaseCutoff, reviewCutoff := Cutoffs(s.clock.Now())
	movies, err := uow.ListIrrelevantMovies(ctx, releaseCutoff, reviewCutoff)
	if err != nil {
		return res, fmt.Errorf("list irrelevant movies: %w", err)
	}
	for _, m := range movies {
		uow.MarkMovieDeleted(m)
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return processor.Result{}, fmt.Errorf("save flagged movies: %w", err)
	}
	res.Flagged = len(movies)
	return res, nil
}

// Cutoffs returns the staleness cutoffs for now. The release cutoff is
// a calendar date, the review cutoff an instant.
func Cutoffs(now time.Time) (releaseCutoff, reviewCutoff time.Time) {
	now = now.UTC()
	r := now.AddDate(-releaseAgeYears, 0, 0)
	releaseCutoff = time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, time.UTC)
	reviewCutoff = now.AddDate(-reviewAgeYears, 0, 0)
	return releaseCutoff, reviewCutoff
}
