package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive and the database answers
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			return writeSuccess(c, http.StatusServiceUnavailable, map[string]string{
				"status":   "DEGRADED",
				"database": "unreachable",
			})
		}
	}

	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
	})
}
