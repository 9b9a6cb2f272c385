package sentry

import (
	"fmt"
	"os"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

// FlushTime bounds how long the process waits for buffered events on exit.
var FlushTime = 2 * time.Second

// Sentry builds one event. Events are dropped when APP_ENV is local or
// SENTRY_DSN is empty.
type Sentry struct {
	context echo.Context
	error   error
	message string
	level   sentrygo.Level
	extras  map[string]interface{}
	tags    map[string]string
}

func WithContext(c echo.Context) *Sentry {
	return new(Sentry).WithContext(c)
}

func WithTags(tags map[string]string) *Sentry {
	return new(Sentry).WithTags(tags)
}

func (s *Sentry) WithContext(c echo.Context) *Sentry {
	s.context = c
	return s
}

func (s *Sentry) WithError(err error) *Sentry {
	s.error = err
	return s
}

func (s *Sentry) WithMessage(msg string) *Sentry {
	s.message = msg
	return s
}

func (s *Sentry) WithLevel(level sentrygo.Level) *Sentry {
	s.level = level
	return s
}

func (s *Sentry) WithExtras(extras map[string]interface{}) *Sentry {
	s.extras = extras
	return s
}

func (s *Sentry) WithTags(tags map[string]string) *Sentry {
	s.tags = tags
	return s
}

func (s *Sentry) Warning(msg string) {
	s.WithMessage(msg).WithLevel(sentrygo.LevelWarning).sendMessage()
}

func (s *Sentry) Error(err error) {
	s.WithError(err).WithLevel(sentrygo.LevelError).sendError()
}

func (s *Sentry) Errorf(format string, args ...interface{}) {
	s.Error(fmt.Errorf(format, args...))
}

func Error(err error) {
	new(Sentry).Error(err)
}

func Flush() {
	sentrygo.Flush(FlushTime)
}

func enabled() bool {
	return os.Getenv("APP_ENV") != "local" && os.Getenv("SENTRY_DSN") != ""
}

// getHub prefers the request hub installed by the sentryecho middleware.
func (s *Sentry) getHub() *sentrygo.Hub {
	if s.context != nil {
		if hub := sentryecho.GetHubFromContext(s.context); hub != nil {
			return hub
		}
	}
	return sentrygo.CurrentHub()
}

func (s *Sentry) configure(scope *sentrygo.Scope) {
	scope.SetLevel(s.level)
	if s.extras != nil {
		scope.SetExtras(s.extras)
	}
	if s.tags != nil {
		scope.SetTags(s.tags)
	}
	if s.context != nil && s.context.Request() != nil {
		scope.SetRequest(s.context.Request())
		if id := s.context.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			scope.SetTag("request_id", id)
		}
	}
}

func (s *Sentry) sendError() {
	if !enabled() || s.error == nil {
		return
	}
	s.getHub().WithScope(func(scope *sentrygo.Scope) {
		s.configure(scope)
		s.getHub().CaptureException(s.error)
	})
}

func (s *Sentry) sendMessage() {
	if !enabled() {
		return
	}
	s.getHub().WithScope(func(scope *sentrygo.Scope) {
		s.configure(scope)
		s.getHub().CaptureMessage(s.message)
	})
}
