package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Collectors are created at package init so code paths that record metrics
// work before (or without) Register being called.
var (
	ReviewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kinos_reviews_total",
		Help: "Total reviews posted.",
	})

	RatingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinos_ratings_total",
		Help: "Total ratings submitted, by star value.",
	}, []string{"star"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kinos_api_request_duration_seconds",
		Help:    "HTTP request duration in seconds, by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	RequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kinos_requests_in_flight",
		Help: "Number of HTTP requests currently being served.",
	})

	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinos_cache_hits_total",
		Help: "Total Redis cache hits, by kind.",
	}, []string{"kind"})

	CacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kinos_cache_misses_total",
		Help: "Total Redis cache misses, by kind.",
	}, []string{"kind"})
)

// Register adds every collector to the default registry. Call once at startup.
// A nil pool skips the connection pool gauges.
func Register(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		ReviewsTotal,
		RatingsTotal,
		RequestDuration,
		RequestsInFlight,
		CacheHits,
		CacheMisses,
	)

	if pool == nil {
		return
	}
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "kinos_db_connection_pool_active",
			Help: "Number of active database connections.",
		}, func() float64 {
			return float64(pool.Stat().AcquiredConns())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "kinos_db_connection_pool_idle",
			Help: "Number of idle database connections.",
		}, func() float64 {
			return float64(pool.Stat().IdleConns())
		}),
	)
}

// Middleware records request duration and in-flight count, labelled by the
// matched route pattern so slugs do not blow up label cardinality.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		method := string([]byte(c.Method()))

		RequestsInFlight.Inc()
		defer RequestsInFlight.Dec()
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = string([]byte(r.Path))
		}
		status := strconv.Itoa(c.Response().StatusCode())
		RequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())

		return nil
	}
}

// Handler serves the Prometheus /metrics endpoint via Fiber.
func Handler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
