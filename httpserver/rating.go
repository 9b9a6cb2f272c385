package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var ErrRatingServiceMissing = errs.Errorf(errs.ENOTIMPLEMENTED, "rating service not configured")

func (s *Server) RegisterRatingRoutes(g *echo.Group) {
	g.PUT("/movies/:id/ratings", s.handleRateMovie)
	g.DELETE("/movies/:id/ratings", s.handleDeleteRating)
	g.GET("/ratings/me", s.handleListMyRatings)
}

// handleRateMovie godoc
// @Summary Rate Movie
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path string true "Movie id"
// @Param rating body RateMovieRequest true "Rating"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id}/ratings [put]
func (s *Server) handleRateMovie(c echo.Context) error {
	if s.RatingService == nil {
		return ErrRatingServiceMissing
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return movie.ErrInvalidID
	}

	var req RateMovieRequest
	if err := c.Bind(&req); err != nil {
		return ErrInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.RatingService.Rate(c.Request().Context(), id, userID(c), req.Rating); err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]interface{}{
		"movieId": id,
		"rating":  req.Rating,
	})
}

// handleDeleteRating godoc
// @Summary Delete Rating
// @Tags ratings
// @Param id path string true "Movie id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id}/ratings [delete]
func (s *Server) handleDeleteRating(c echo.Context) error {
	if s.RatingService == nil {
		return ErrRatingServiceMissing
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return movie.ErrInvalidID
	}

	if err := s.RatingService.DeleteRating(c.Request().Context(), id, userID(c)); err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// handleListMyRatings godoc
// @Summary List My Ratings
// @Tags ratings
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /api/ratings/me [get]
func (s *Server) handleListMyRatings(c echo.Context) error {
	if s.RatingService == nil {
		return ErrRatingServiceMissing
	}

	ratings, err := s.RatingService.UserRatings(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, ratings)
}
