package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinevault/catalog/configs"
	cachememory "cinevault/catalog/internal/cache/memory"
	"cinevault/catalog/internal/controller/movie"
	"cinevault/catalog/internal/controller/review"
	httphandler "cinevault/catalog/internal/handler/http"
	"cinevault/catalog/internal/ingester/kafka"
	"cinevault/catalog/internal/processor"
	"cinevault/catalog/internal/processor/moviestats"
	"cinevault/catalog/internal/processor/sweeper"
	"cinevault/catalog/internal/repository"
	"cinevault/catalog/internal/repository/memory"
	"cinevault/catalog/internal/repository/mysql"
	"cinevault/catalog/pkg/model"
	"cinevault/pkg/clock"
	"cinevault/pkg/discovery"
	"cinevault/pkg/discovery/consul"
	"cinevault/pkg/limiter"
	"cinevault/pkg/logging"
	"cinevault/pkg/metrics"
	"cinevault/pkg/tracing"

	"github.com/thejerf/suture/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	serviceName     = "catalog"
	shutdownTimeout = 10 * time.Second
)

type store interface {
	Begin(ctx context.Context) (repository.UnitOfWork, error)
	PutMovie(ctx context.Context, m *model.Movie) (int64, error)
	GetMovie(ctx context.Context, id int64) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
	GetMovieStat(ctx context.Context, movieID int64) (*model.MovieStat, error)
	PutUser(ctx context.Context, u *model.User) (int64, error)
	ListReviewsByMovieID(ctx context.Context, movieID int64) ([]model.ReviewView, error)
	PutReview(ctx context.Context, rv *model.Review) (int64, bool, error)
	GetReview(ctx context.Context, id int64) (*model.Review, error)
	UpdateReview(ctx context.Context, id int64, rv *model.Review) (*model.Review, error)
	DeleteReview(ctx context.Context, id int64) (*model.Review, error)
}

func main() {
	configPath := flag.String("config", "defaults.yaml", "path to the service configuration")
	storeKind := flag.String("store", "mysql", "review store: mysql or memory")
	flag.Parse()

	logConfig := zap.NewProductionConfig()
	log, err := logConfig.Build()
	if err != nil {
		panic(err)
	}
	log = log.With(zap.String(logging.FieldService, serviceName))

	cfg, err := configs.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.String("path", *configPath), zap.Error(err))
	}
	log.Info("Starting the service", zap.Int(logging.FieldPort, cfg.API.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := tracing.NewJaegerProvider(cfg.Jaeger.URL, serviceName)
	if err != nil {
		log.Fatal("Failed to initialize jaeger provider", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("Failed to shutdown jaeger provider", zap.Error(err))
		}
	}()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	scope, closer := metrics.NewMetricsReporter(log, serviceName, cfg.Prometheus.MetricsPort)
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close Prometheus reporter scope", zap.Error(err))
		}
	}()

	registry, err := consul.NewRegistry(cfg.ServiceDiscovery.Consul.Address, log)
	if err != nil {
		log.Fatal("Failed to create consul registry", zap.Error(err))
	}
	instanceID := discovery.GenerateInstanceID(serviceName)
	if err := registry.Register(ctx, instanceID, serviceName, fmt.Sprintf("%s:%d", serviceName, cfg.API.Port)); err != nil {
		log.Fatal("Failed to register service", zap.Error(err))
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
				if err := registry.ReportHealthyState(instanceID, serviceName); err != nil {
					log.Warn("Failed to report healthy state", zap.Error(err))
				}
			}
		}
	}()
	defer func() {
		if err := registry.Deregister(context.Background(), instanceID, serviceName); err != nil {
			log.Warn("Failed to deregister service", zap.Error(err))
		}
	}()

	clk := clock.System{}
	var repo store
	switch *storeKind {
	case "memory":
		repo = memory.New(clk, log)
	case "mysql":
		r, err := mysql.New(cfg.DatabaseConfig.Mysql, clk, log)
		if err != nil {
			log.Fatal("Failed to connect to mysql", zap.Error(err))
		}
		defer func() {
			if err := r.Close(); err != nil {
				log.Warn("Failed to close mysql", zap.Error(err))
			}
		}()
		repo = r
	default:
		log.Fatal("Unknown store", zap.String("store", *storeKind))
	}

	cache, err := cachememory.New(cfg.Cache.Capacity, cfg.Cache.TTL, clk, log)
	if err != nil {
		log.Fatal("Failed to create review cache", zap.Error(err))
	}
	if cfg.Jobs.UseLock {
		log.Warn("Review cache is per process, other replicas may serve a listing for up to one TTL after a write",
			zap.Duration("ttl", cfg.Cache.TTL))
	}
	reviews := review.New(repo, cache, cfg.Cache.TTL, log, scope)
	movies := movie.New(repo, reviews, log)

	l := limiter.New(log, cfg.API.RateLimit, cfg.API.RateBurst)
	h := httphandler.New(movies, reviews, log, scope)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           h.Routes(l.Middleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var locks processor.LockProvider
	if cfg.Jobs.UseLock {
		locks = registry
	}

	supervisorLog := log.With(zap.String(logging.FieldComponent, "supervisor"))
	sup := suture.New(serviceName, suture.Spec{
		EventHook: func(e suture.Event) {
			supervisorLog.Warn(e.String(), zap.Any("event", e.Map()))
		},
		Timeout: shutdownTimeout,
	})
	sup.Add(httphandler.NewServer(srv, shutdownTimeout))
	sup.Add(processor.New(moviestats.New(repo, clk), cfg.Jobs.MovieStatsInterval, cfg.Jobs.TickTimeout, locks, log, scope))
	sup.Add(processor.New(sweeper.New(repo, clk), cfg.Jobs.SweeperInterval, cfg.Jobs.TickTimeout, locks, log, scope))
	if cfg.MessengerConfig.Kafka.Address != "" {
		sup.Add(&ingestionService{cfg: cfg.MessengerConfig.Kafka, reviews: reviews, logger: log})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sigChan
		log.Info("Got signal, attempting graceful shutdown", zap.Stringer(logging.FieldSignal, s))
		cancel()
	}()

	if err := sup.Serve(ctx); err != nil && ctx.Err() == nil {
		log.Error("Supervisor stopped unexpectedly", zap.Error(err))
	}
	log.Info("Service stopped")
}

// ingestionService applies review events from Kafka. Each run opens a
// fresh consumer, so a restart by the supervisor reconnects.
type ingestionService struct {
	cfg     configs.KafkaConfig
	reviews *review.Controller
	logger  *zap.Logger
}

func (s *ingestionService) Serve(ctx context.Context) error {
	ingester, err := kafka.NewIngester(s.cfg.Address, s.cfg.GroupID, s.cfg.Topic, s.logger)
	if err != nil {
		return err
	}
	if err := s.reviews.StartIngestion(ctx, ingester); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *ingestionService) String() string {
	return "kafka-ingester"
}
