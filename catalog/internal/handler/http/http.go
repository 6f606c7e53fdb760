package http

import (
	"errors"
	"net/http"
	"strconv"

	"cinevault/catalog/internal/controller/movie"
	"cinevault/catalog/internal/controller/review"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/logging"
	"cinevault/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

// Handler defines a catalog HTTP handler.
type Handler struct {
	movies  *movie.Controller
	reviews *review.Controller
	logger  *zap.Logger
	scope   tally.Scope
}

// New creates a new catalog HTTP handler.
func New(movies *movie.Controller, reviews *review.Controller, logger *zap.Logger, scope tally.Scope) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	return &Handler{
		movies:  movies,
		reviews: reviews,
		logger:  logger,
		scope:   scope,
	}
}

// Routes returns the catalog API router. Every route passes through the
// given middlewares.
func (h *Handler) Routes(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/movies", func(r chi.Router) {
		r.Post("/", h.instrument("PutMovie", h.PutMovie))
		r.Get("/{id}", h.instrument("GetMovie", h.GetMovie))
		r.Delete("/{id}", h.instrument("DeleteMovie", h.DeleteMovie))
		r.Get("/{id}/stats", h.instrument("GetMovieStat", h.GetMovieStat))
		r.Get("/{id}/reviews", h.instrument("ListReviews", h.ListReviews))
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", h.instrument("PutReview", h.PutReview))
		r.Get("/{id}", h.instrument("GetReview", h.GetReview))
		r.Put("/{id}", h.instrument("UpdateReview", h.UpdateReview))
		r.Delete("/{id}", h.instrument("DeleteReview", h.DeleteReview))
	})
	r.Post("/users", h.instrument("PutUser", h.PutUser))
	return r
}

type handlerFunc func(w http.ResponseWriter, req *http.Request) error

// instrument converts handler errors to status codes and records the
// endpoint metrics.
func (h *Handler) instrument(endpoint string, fn handlerFunc) http.HandlerFunc {
	m := metrics.NewEndpointMetrics(h.scope, endpoint)
	logger := h.logger.With(zap.String("endpoint", endpoint))
	return func(w http.ResponseWriter, req *http.Request) {
		m.Calls.Inc(1)
		err := fn(w, req)
		switch {
		case err == nil:
			m.Successes.Inc(1)
		case errors.Is(err, errBadRequest),
			errors.Is(err, review.ErrInvalidReview),
			errors.Is(err, review.ErrMovieNotFound),
			errors.Is(err, review.ErrUserNotFound),
			errors.Is(err, movie.ErrInvalid):
			m.InvalidArgumentErrors.Inc(1)
			logger.Debug("Invalid request", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, movie.ErrAlreadyExists):
			m.InvalidArgumentErrors.Inc(1)
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, movie.ErrNotFound), errors.Is(err, review.ErrNotFound):
			m.NotFoundErrors.Inc(1)
			w.WriteHeader(http.StatusNotFound)
		default:
			m.InternalErrors.Inc(1)
			logger.Error("Request failed", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

var errBadRequest = errors.New("bad request")

type idResponse struct {
	ID int64 `json:"id"`
}

// PutMovie handles POST /movies requests.
func (h *Handler) PutMovie(w http.ResponseWriter, req *http.Request) error {
	var m model.Movie
	if err := decode(req, &m); err != nil {
		return err
	}
	id, err := h.movies.Put(req.Context(), &m)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusCreated, idResponse{ID: id})
}

// GetMovie handles GET /movies/{id} requests.
func (h *Handler) GetMovie(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	m, err := h.movies.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusOK, m)
}

// DeleteMovie handles DELETE /movies/{id} requests.
func (h *Handler) DeleteMovie(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := h.movies.Delete(req.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GetMovieStat handles GET /movies/{id}/stats requests.
func (h *Handler) GetMovieStat(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	s, err := h.movies.Stat(req.Context(), id)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusOK, s)
}

// ListReviews handles GET /movies/{id}/reviews requests.
func (h *Handler) ListReviews(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	views, err := h.reviews.ListByMovie(req.Context(), id)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusOK, views)
}

// PutReview handles POST /reviews requests. An existing review of the
// same user on the same movie is replaced.
func (h *Handler) PutReview(w http.ResponseWriter, req *http.Request) error {
	var rv model.Review
	if err := decode(req, &rv); err != nil {
		return err
	}
	id, created, err := h.reviews.Put(req.Context(), &rv)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return h.encode(w, status, idResponse{ID: id})
}

// GetReview handles GET /reviews/{id} requests.
func (h *Handler) GetReview(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	rv, err := h.reviews.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusOK, rv)
}

// UpdateReview handles PUT /reviews/{id} requests.
func (h *Handler) UpdateReview(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var rv model.Review
	if err := decode(req, &rv); err != nil {
		return err
	}
	if err := h.reviews.Update(req.Context(), id, &rv); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DeleteReview handles DELETE /reviews/{id} requests.
func (h *Handler) DeleteReview(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(req.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// PutUser handles POST /users requests.
func (h *Handler) PutUser(w http.ResponseWriter, req *http.Request) error {
	var u model.User
	if err := decode(req, &u); err != nil {
		return err
	}
	id, err := h.movies.PutUser(req.Context(), &u)
	if err != nil {
		return err
	}
	return h.encode(w, http.StatusCreated, idResponse{ID: id})
}

func pathID(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return id, nil
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func (h *Handler) encode(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Response encode error", zap.Error(err))
	}
	return nil
}
