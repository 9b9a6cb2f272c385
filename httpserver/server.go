package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/metrics"
	"moviecatalog/pkg/sentry"
	"moviecatalog/rating"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const defaultPageSize = 10

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// RateLimit is the number of requests per second allowed per client. Zero disables it.
	RateLimit float64

	// DefaultPageSize applies when a list request has no pageSize parameter.
	DefaultPageSize int

	JWTSecret string

	MetricsEnabled bool

	// DB is pinged by the health check when set.
	DB Pinger

	MovieService movie.Service

	RatingService rating.Service
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:          echo.New(),
		Addr:            fmt.Sprintf(":%d", cfg.Port),
		AllowOrigins:    []string{"*"},
		RateLimit:       cfg.RateLimit,
		DefaultPageSize: cfg.Movies.DefaultPageSize,
		JWTSecret:       cfg.Auth.JWTSecret,
		MetricsEnabled:  cfg.MetricsEnabled,
	}
	if cfg.Port == 0 {
		s.Addr = ":8080"
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(cfg.AllowOrigins, ",")
	}
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = defaultPageSize
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = customHTTPErrorHandler
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()

	api := s.Router.Group("/api")

	// PUBLIC, identity is optional
	public := api.Group("", s.optionalAuth())
	s.RegisterPublicMovieRoutes(public)

	// PRIVATE
	private := api.Group("", s.requireAuth())
	s.RegisterPrivateMovieRoutes(private)
	s.RegisterRatingRoutes(private)

	s.RegisterHealthRoutes()
	if s.MetricsEnabled {
		s.Router.GET("/metrics", metrics.Handler())
	}
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(requestLogger())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	if s.MetricsEnabled {
		s.Router.Use(metrics.Middleware(errorStatusCode))
	}
	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			slog.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// statusClientClosedRequest is logged when the caller went away before the response.
const statusClientClosedRequest = 499

// errorStatus maps an error returned by a handler to its HTTP status and the
// message safe to show to the client.
func errorStatus(err error) (int, string) {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code, fmt.Sprint(he.Message)
	}
	if errors.Is(err, context.Canceled) {
		return statusClientClosedRequest, "Request canceled"
	}

	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTFOUND:
		return http.StatusNotFound, errs.ErrorMessage(err)
	case errs.ECONFLICT:
		return http.StatusConflict, errs.ErrorMessage(err)
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	case errs.EUNAVAILABLE:
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func errorStatusCode(err error) int {
	code, _ := errorStatus(err)
	return code
}

// customHTTPErrorHandler writes the error envelope. The request logger handles
// errors before they bubble up, so a committed response is left alone.
func customHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := errorStatus(err)
	if code >= http.StatusInternalServerError {
		sentry.WithContext(c).Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = writeError(c, code, message, "", err)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
