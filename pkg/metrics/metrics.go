package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_http_requests_total",
			Help: "Count of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_store_query_duration_seconds",
			Help:    "Time taken by movie store queries",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"query"},
	)
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_store_errors_total",
			Help: "Count of failed movie store queries",
		},
		[]string{"query"},
	)
)

// ObserveStoreQuery records the duration of a store query started at start.
// Use it deferred: defer metrics.ObserveStoreQuery("count_movies", time.Now()).
func ObserveStoreQuery(query string, start time.Time) {
	StoreQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// Middleware counts requests per route template, so /api/movies/:idOrSlug
// stays one series however many movies are fetched. The error handler runs
// after the middleware chain, so statusOf gives the status a returned error
// will be written with.
func Middleware(statusOf func(error) int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = statusOf(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			HTTPDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
