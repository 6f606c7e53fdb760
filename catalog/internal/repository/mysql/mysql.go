package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinevault/catalog/configs"
	"cinevault/catalog/internal/repository"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"
	"cinevault/pkg/logging"

	driver "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "catalog-repository-mysql"

// errDuplicateEntry is the MySQL error number of a unique key violation.
const errDuplicateEntry = 1062

const movieColumns = "m.id, m.title, m.description, m.genre, m.director, m.release_date, m.is_deleted"

// Repository defines a MySQL-based catalog store.
type Repository struct {
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a new MySQL-based catalog store.
func New(config configs.MysqlConfig, clk clock.Clock, logger *zap.Logger) (*Repository, error) {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "mysql"),
	)
	dsn := driver.NewConfig()
	dsn.User = config.User
	dsn.Passwd = config.Pass
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", config.Host, config.Port)
	dsn.DBName = config.Name
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	// Affected rows count matched rows, so rewriting a row with its
	// current values is not mistaken for a missing row.
	dsn.ClientFoundRows = true
	logger.Info("Connecting to mysql", zap.String("addr", dsn.Addr), zap.String("db", dsn.DBName))
	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(time.Hour)
	return &Repository{db: db, clock: clk, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// PutMovie stores a new movie and returns its id.
func (r *Repository) PutMovie(ctx context.Context, m *model.Movie) (int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutMovie")
	defer span.End()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO movies (title, description, genre, director, release_date) VALUES (?, ?, ?, ?, ?)",
		m.Title, m.Description, m.Genre, m.Director, m.ReleaseDate)
	if err != nil {
		if isDuplicate(err) {
			return 0, repository.ErrAlreadyExists
		}
		r.logger.Warn("Failed to put movie to MySQL", zap.String("title", m.Title), zap.Error(err))
		return 0, err
	}
	return res.LastInsertId()
}

// GetMovie returns a live movie by id.
func (r *Repository) GetMovie(ctx context.Context, id int64) (*model.Movie, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMovie")
	defer span.End()
	row := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies m WHERE m.id = ? AND m.is_deleted = FALSE", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		r.logger.Warn("Failed to get movie from MySQL", zap.Int64(logging.FieldMovieID, id), zap.Error(err))
		return nil, err
	}
	return m, nil
}

// DeleteMovie soft-deletes a live movie.
func (r *Repository) DeleteMovie(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/DeleteMovie")
	defer span.End()
	res, err := r.db.ExecContext(ctx, "UPDATE movies SET is_deleted = TRUE WHERE id = ? AND is_deleted = FALSE", id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// GetMovieStat returns the stat row of a movie.
func (r *Repository) GetMovieStat(ctx context.Context, movieID int64) (*model.MovieStat, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/GetMovieStat")
	defer span.End()
	row := r.db.QueryRowContext(ctx,
		"SELECT movie_id, average_rating, review_count, movie_was_deleted, last_changed_at FROM movie_stats WHERE movie_id = ?",
		movieID)
	s, err := scanStat(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// PutUser stores a new user and returns its id.
func (r *Repository) PutUser(ctx context.Context, u *model.User) (int64, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Repository/PutUser")
	defer span.End()
	res, err := r.db.ExecContext(ctx, "INSERT INTO users (username, email) VALUES (?, ?)", u.Username, u.Email)
	if err != nil {
		if isDuplicate(err) {
			return 0, repository.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner) (*model.Movie, error) {
	var (
		m                            model.Movie
		description, genre, director sql.NullString
		releaseDate                  sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.Title, &description, &genre, &director, &releaseDate, &m.IsDeleted); err != nil {
		return nil, err
	}
	m.Description = nullString(description)
	m.Genre = nullString(genre)
	m.Director = nullString(director)
	if releaseDate.Valid {
		d := model.NewDate(releaseDate.Time)
		m.ReleaseDate = &d
	}
	return &m, nil
}

func scanStat(row scanner) (*model.MovieStat, error) {
	var s model.MovieStat
	if err := row.Scan(&s.MovieID, &s.AverageRating, &s.ReviewCount, &s.MovieWasDeleted, &s.LastChangedAt); err != nil {
		return nil, err
	}
	s.LastChangedAt = s.LastChangedAt.UTC()
	return &s, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func isDuplicate(err error) bool {
	var mysqlErr *driver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// placeholders returns n comma separated bind placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
