package testutil

import (
	"context"
	"net/http"
	"time"

	cachememory "cinevault/catalog/internal/cache/memory"
	"cinevault/catalog/internal/controller/movie"
	"cinevault/catalog/internal/controller/review"
	httphandler "cinevault/catalog/internal/handler/http"
	"cinevault/catalog/internal/processor/moviestats"
	"cinevault/catalog/internal/processor/sweeper"
	"cinevault/catalog/internal/repository/memory"
	"cinevault/pkg/clock"
	"cinevault/pkg/logging"

	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

// Catalog is an in-memory catalog service for end-to-end tests.
type Catalog struct {
	Handler    http.Handler
	reconciler *moviestats.Reconciler
	sweeper    *sweeper.Sweeper
}

// NewTestCatalog creates a catalog service backed by in-memory storage.
func NewTestCatalog(clk clock.Clock, logger *zap.Logger) (*Catalog, error) {
	logger = logger.With(
		zap.String(logging.FieldService, "catalog"),
	)
	repo := memory.New(clk, logger)
	cache, err := cachememory.New(1000, time.Minute, clk, logger)
	if err != nil {
		return nil, err
	}
	reviews := review.New(repo, cache, time.Minute, logger, tally.NoopScope)
	movies := movie.New(repo, reviews, logger)
	return &Catalog{
		Handler:    httphandler.New(movies, reviews, logger, tally.NoopScope).Routes(),
		reconciler: moviestats.New(repo, clk),
		sweeper:    sweeper.New(repo, clk),
	}, nil
}

// ReconcileStats runs a single movie stats tick.
func (c *Catalog) ReconcileStats(ctx context.Context) error {
	_, err := c.reconciler.Run(ctx)
	return err
}

// SweepStale runs a single stale movie sweep and returns the number of
// flagged movies.
func (c *Catalog) SweepStale(ctx context.Context) (int, error) {
	res, err := c.sweeper.Run(ctx)
	return res.Flagged, err
}
