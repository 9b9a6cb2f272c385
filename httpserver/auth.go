package httpserver

import (
	"errors"

	"moviecatalog/errs"
	pkgjwt "moviecatalog/pkg/jwt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

var ErrUnauthorized = errs.Errorf(errs.EUNAUTHORIZED, "missing or invalid access token")

func (s *Server) jwtConfig() echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(s.JWTSecret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    userContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(pkgjwt.Claims)
		},
	}
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth() echo.MiddlewareFunc {
	cfg := s.jwtConfig()
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		return ErrUnauthorized
	}
	return echojwt.WithConfig(cfg)
}

// optionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func (s *Server) optionalAuth() echo.MiddlewareFunc {
	cfg := s.jwtConfig()
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		var missing *echojwt.TokenExtractionError
		if errors.As(err, &missing) {
			return nil
		}
		return ErrUnauthorized
	}
	return echojwt.WithConfig(cfg)
}

// userID returns the authenticated user, or uuid.Nil for anonymous requests.
func userID(c echo.Context) uuid.UUID {
	token, ok := c.Get(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil
	}
	claims, ok := token.Claims.(*pkgjwt.Claims)
	if !ok {
		return uuid.Nil
	}
	id, err := pkgjwt.UserID(claims)
	if err != nil {
		return uuid.Nil
	}
	return id
}
