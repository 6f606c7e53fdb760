package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// UnitOfWork defines a MySQL unit of work bound to a single transaction.
type UnitOfWork struct {
	tx      *sql.Tx
	logger  *zap.Logger
	inserts []model.MovieStat
	updates []model.MovieStat
	deletes []int64
	done    bool
}

// Begin opens a new unit of work backed by a fresh transaction.
func (r *Repository) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{tx: tx, logger: r.logger}, nil
}

// ListMoviesIncludingDeleted returns all movies, soft-deleted ones included,
// with all of their reviews.
func (u *UnitOfWork) ListMoviesIncludingDeleted(ctx context.Context) ([]*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListMoviesIncludingDeleted")
	defer span.End()
	if u.done {
		return nil, repository.ErrClosed
	}
	movies, err := u.queryMovies(ctx, "SELECT "+movieColumns+" FROM movies m ORDER BY m.id")
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	rows, err := u.tx.QueryContext(ctx,
		"SELECT id, movie_id, user_id, rating, comment, created_at, is_deleted FROM reviews")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			rv      model.Review
			comment sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.MovieID, &rv.UserID, &rv.Rating, &comment, &rv.CreatedAt, &rv.IsDeleted); err != nil {
			return nil, err
		}
		rv.Comment = nullString(comment)
		if m, ok := byID[rv.MovieID]; ok {
			m.Reviews = append(m.Reviews, rv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// ListIrrelevantMovies returns live movies matching either staleness rule.
func (u *UnitOfWork) ListIrrelevantMovies(ctx context.Context, releaseCutoff, reviewCutoff time.Time) ([]*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListIrrelevantMovies")
	defer span.End()
	if u.done {
		return nil, repository.ErrClosed
	}
	return u.queryMovies(ctx, `
		SELECT `+movieColumns+`
		FROM movies m
		LEFT JOIN (
			SELECT movie_id, COUNT(*) AS review_count, MAX(created_at) AS last_review_at
			FROM reviews
			WHERE is_deleted = FALSE
			GROUP BY movie_id
		) r ON r.movie_id = m.id
		WHERE m.is_deleted = FALSE AND (
			(r.review_count IS NULL AND m.release_date IS NOT NULL AND m.release_date < ?)
			OR (r.review_count > 0 AND r.last_review_at < ?)
		)
		ORDER BY m.id`,
		releaseCutoff.Format(time.DateOnly), reviewCutoff)
}

// ListMovieStats returns stat rows for the given movie ids in one query.
func (u *UnitOfWork) ListMovieStats(ctx context.Context, movieIDs []int64) ([]*model.MovieStat, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/ListMovieStats")
	defer span.End()
	if u.done {
		return nil, repository.ErrClosed
	}
	if len(movieIDs) == 0 {
		return nil, nil
	}
	rows, err := u.tx.QueryContext(ctx,
		"SELECT movie_id, average_rating, review_count, movie_was_deleted, last_changed_at FROM movie_stats WHERE movie_id IN ("+placeholders(len(movieIDs))+")",
		int64Args(movieIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*model.MovieStat
	for rows.Next() {
		s, err := scanStat(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
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

// SaveChanges applies all staged writes and commits the transaction.
// On failure the transaction is rolled back and nothing is applied.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "UnitOfWork/SaveChanges")
	defer span.End()
	if u.done {
		return repository.ErrClosed
	}
	if err := u.apply(ctx); err != nil {
		u.rollback()
		return err
	}
	u.done = true
	return u.tx.Commit()
}

// Close rolls back the transaction unless it was committed.
func (u *UnitOfWork) Close() error {
	if u.done {
		return nil
	}
	u.rollback()
	return nil
}

func (u *UnitOfWork) apply(ctx context.Context) error {
	for _, s := range u.inserts {
		if _, err := u.tx.ExecContext(ctx,
			"INSERT INTO movie_stats (movie_id, average_rating, review_count, movie_was_deleted, last_changed_at) VALUES (?, ?, ?, ?, ?)",
			s.MovieID, s.AverageRating, s.ReviewCount, s.MovieWasDeleted, s.LastChangedAt); err != nil {
			return fmt.Errorf("insert movie stat %d: %w", s.MovieID, err)
		}
	}
	for _, s := range u.updates {
		res, err := u.tx.ExecContext(ctx,
			"UPDATE movie_stats SET average_rating = ?, review_count = ?, movie_was_deleted = ?, last_changed_at = ? WHERE movie_id = ?",
			s.AverageRating, s.ReviewCount, s.MovieWasDeleted, s.LastChangedAt, s.MovieID)
		if err != nil {
			return fmt.Errorf("update movie stat %d: %w", s.MovieID, err)
		}
		if err := expectAffected(res); err != nil {
			return fmt.Errorf("update movie stat %d: %w", s.MovieID, err)
		}
	}
	if len(u.deletes) > 0 {
		if _, err := u.tx.ExecContext(ctx,
			"UPDATE movies SET is_deleted = TRUE WHERE id IN ("+placeholders(len(u.deletes))+")",
			int64Args(u.deletes)...); err != nil {
			return fmt.Errorf("soft delete movies: %w", err)
		}
	}
	return nil
}

func (u *UnitOfWork) rollback() {
	u.done = true
	rollback(u.tx, u.logger, "unit of work")
}

func (u *UnitOfWork) queryMovies(ctx context.Context, query string, args ...any) ([]*model.Movie, error) {
	rows, err := u.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []*model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
