package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v6"
	"github.com/uber-go/tally/v6/prometheus"
	"go.uber.org/zap"
)

// NewMetricsReporter creates a Prometheus-backed root scope and serves
// /metrics on metricsPort.
func NewMetricsReporter(logger *zap.Logger, serviceName string, metricsPort int) (scope tally.Scope, closer io.Closer) {
	reporter := prometheus.NewReporter(prometheus.Options{})
	scope, closer = tally.NewRootScope(tally.ScopeOptions{
		Tags:            map[string]string{"service": serviceName},
		CachedReporter:  reporter,
		SanitizeOptions: &prometheus.DefaultSanitizerOpts,
	}, 10*time.Second)
	mux := http.NewServeMux()
	mux.Handle("/metrics", reporter.HTTPHandler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), mux); err != nil {
			logger.Fatal("Failed to start metrics handler", zap.Error(err))
		}
	}()

	counter := scope.Counter("service_started")
	counter.Inc(1)
	return scope, closer
}

// EndpointMetrics defines an endpoint metrics.
type EndpointMetrics struct {
	Calls                 tally.Counter
	InvalidArgumentErrors tally.Counter
	NotFoundErrors        tally.Counter
	InternalErrors        tally.Counter
	Successes             tally.Counter
}

// NewEndpointMetrics creates a new endpoint metrics.
func NewEndpointMetrics(scope tally.Scope, endpoint string) *EndpointMetrics {
	scope = scope.Tagged(map[string]string{
		"component": "handler",
		"endpoint":  endpoint,
	})
	return &EndpointMetrics{
		Calls: scope.Counter("calls"),
		InvalidArgumentErrors: scope.Tagged(map[string]string{
			"error": "invalid_argument",
		}).Counter("error"),
		NotFoundErrors: scope.Tagged(map[string]string{
			"error": "not_found",
		}).Counter("error"),
		InternalErrors: scope.Tagged(map[string]string{
			"error": "internal",
		}).Counter("error"),
		Successes: scope.Counter("success"),
	}
}

// JobMetrics defines periodic job metrics.
type JobMetrics struct {
	Ticks    tally.Counter
	Failures tally.Counter
	Skipped  tally.Counter
	Inserted tally.Counter
	Updated  tally.Counter
	Flagged  tally.Counter
	Latency  tally.Timer
}

// NewJobMetrics creates a new periodic job metrics.
func NewJobMetrics(scope tally.Scope, job string) *JobMetrics {
	scope = scope.Tagged(map[string]string{
		"component": "processor",
		"job":       job,
	})
	return &JobMetrics{
		Ticks:    scope.Counter("ticks"),
		Failures: scope.Counter("failures"),
		Skipped:  scope.Counter("skipped"),
		Inserted: scope.Counter("rows_inserted"),
		Updated:  scope.Counter("rows_updated"),
		Flagged:  scope.Counter("rows_flagged"),
		Latency:  scope.Timer("tick_latency"),
	}
}

// CacheMetrics defines cache access metrics.
type CacheMetrics struct {
	Hits          tally.Counter
	Misses        tally.Counter
	Errors        tally.Counter
	Invalidations tally.Counter
}

// NewCacheMetrics creates a new cache access metrics.
func NewCacheMetrics(scope tally.Scope, cache string) *CacheMetrics {
	scope = scope.Tagged(map[string]string{
		"component": "cache",
		"cache":     cache,
	})
	return &CacheMetrics{
		Hits:          scope.Counter("hits"),
		Misses:        scope.Counter("misses"),
		Errors:        scope.Counter("errors"),
		Invalidations: scope.Counter("invalidations"),
	}
}
