package mysql

import (
	"context"
	"database/sql"
	"errors"

	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// ListReviewsByMovieID returns the live reviews of a live movie, newest first.
func (r *Repository) ListReviewsByMovieID(ctx context.Context, movieID int64) ([]model.ReviewView, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListReviewsByMovieID")
	defer span.End()
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.movie_id, m.title, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN movies m ON m.id = r.movie_id AND m.is_deleted = FALSE
		JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = ? AND r.is_deleted = FALSE
		ORDER BY r.created_at DESC, r.id DESC`, movieID)
	if err != nil {
		r.logger.Warn("Failed to list reviews from MySQL", zap.Int64(logging.FieldMovieID, movieID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	res := []model.ReviewView{}
	for rows.Next() {
		var (
			v       model.ReviewView
			comment sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.MovieID, &v.MovieTitle, &v.UserID, &v.Username, &v.Rating, &comment, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Comment = nullString(comment)
		v.CreatedAt = v.CreatedAt.UTC()
		res = append(res, v)
	}
	return res, rows.Err()
}

// PutReview stores a review. A live review of the same user on the same
// movie is replaced. It reports whether a new review was created.
func (r *Repository) PutReview(ctx context.Context, rv *model.Review) (id int64, created bool, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutReview")
	defer span.End()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if err != nil {
			rollback(tx, r.logger, "review put")
		}
	}()
	if err = checkReferences(ctx, tx, rv); err != nil {
		return 0, false, err
	}
	now := r.clock.Now()
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM reviews WHERE movie_id = ? AND user_id = ? AND is_deleted = FALSE FOR UPDATE",
		rv.MovieID, rv.UserID).Scan(&id)
	switch {
	case err == nil:
		if _, err = tx.ExecContext(ctx,
			"UPDATE reviews SET rating = ?, comment = ?, created_at = ? WHERE id = ?",
			rv.Rating, rv.Comment, now, id); err != nil {
			return 0, false, err
		}
	case errors.Is(err, sql.ErrNoRows):
		var res sql.Result
		res, err = tx.ExecContext(ctx,
			"INSERT INTO reviews (movie_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)",
			rv.MovieID, rv.UserID, rv.Rating, rv.Comment, now)
		if err != nil {
			return 0, false, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, false, err
		}
		created = true
	default:
		return 0, false, err
	}
	if err = tx.Commit(); err != nil {
		return 0, false, err
	}
	return id, created, nil
}

// GetReview returns a live review by id.
func (r *Repository) GetReview(ctx context.Context, id int64) (*model.Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetReview")
	defer span.End()
	rv, err := getReview(ctx, r.db, id, false)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		r.logger.Warn("Failed to get review from MySQL", zap.Int64(logging.FieldReviewID, id), zap.Error(err))
	}
	return rv, err
}

// UpdateReview overwrites a live review and returns its previous state.
func (r *Repository) UpdateReview(ctx context.Context, id int64, rv *model.Review) (prev *model.Review, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/UpdateReview")
	defer span.End()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			rollback(tx, r.logger, "review update")
		}
	}()
	if prev, err = getReview(ctx, tx, id, true); err != nil {
		return nil, err
	}
	if err = checkReferences(ctx, tx, rv); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE reviews SET movie_id = ?, user_id = ?, rating = ?, comment = ? WHERE id = ?",
		rv.MovieID, rv.UserID, rv.Rating, rv.Comment, id); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return prev, nil
}

// DeleteReview soft-deletes a live review and returns it.
func (r *Repository) DeleteReview(ctx context.Context, id int64) (rv *model.Review, err error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteReview")
	defer span.End()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			rollback(tx, r.logger, "review delete")
		}
	}()
	if rv, err = getReview(ctx, tx, id, true); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, "UPDATE reviews SET is_deleted = TRUE WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	rv.IsDeleted = true
	return rv, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getReview(ctx context.Context, q querier, id int64, forUpdate bool) (*model.Review, error) {
	query := "SELECT id, movie_id, user_id, rating, comment, created_at, is_deleted FROM reviews WHERE id = ? AND is_deleted = FALSE"
	if forUpdate {
		query += " FOR UPDATE"
	}
	var (
		rv      model.Review
		comment sql.NullString
	)
	err := q.QueryRowContext(ctx, query, id).
		Scan(&rv.ID, &rv.MovieID, &rv.UserID, &rv.Rating, &comment, &rv.CreatedAt, &rv.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	rv.Comment = nullString(comment)
	rv.CreatedAt = rv.CreatedAt.UTC()
	return &rv, nil
}

func checkReferences(ctx context.Context, q querier, rv *model.Review) error {
	var movieExists, userExists bool
	err := q.QueryRowContext(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM movies WHERE id = ? AND is_deleted = FALSE),
			EXISTS (SELECT 1 FROM users WHERE id = ?)`,
		rv.MovieID, rv.UserID).Scan(&movieExists, &userExists)
	if err != nil {
		return err
	}
	if !movieExists {
		return repository.ErrMovieNotFound
	}
	if !userExists {
		return repository.ErrUserNotFound
	}
	return nil
}

type rollbacker interface {
	Rollback() error
}

// rollback aborts tx. A transaction that already committed or failed to
// commit is left alone.
func rollback(tx rollbacker, logger *zap.Logger, op string) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Warn("Failed to rollback "+op, zap.Error(err))
	}
}
