package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	ErrInvalidYearParam     = errs.Errorf(errs.EINVALID, "year must be an integer")
	ErrInvalidPageParam     = errs.Errorf(errs.EINVALID, "page must be an integer")
	ErrInvalidPageSizeParam = errs.Errorf(errs.EINVALID, "pageSize must be an integer")
	ErrInvalidBody          = errs.Errorf(errs.EINVALID, "invalid request body")
	ErrMovieServiceMissing  = errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
)

func (s *Server) RegisterPublicMovieRoutes(g *echo.Group) {
	g.GET("/movies", s.handleListMovies)
	g.GET("/movies/by-year/:year", s.handleListMoviesByYear)
	g.GET("/movies/:idOrSlug", s.handleGetMovie)
}

func (s *Server) RegisterPrivateMovieRoutes(g *echo.Group) {
	g.POST("/movies", s.handleCreateMovie)
	g.PUT("/movies/:id", s.handleUpdateMovie)
	g.DELETE("/movies/:id", s.handleDeleteMovie)
}

// handleListMovies godoc
// @Summary List Movies
// @Description Page through movies, optionally filtered by title substring and year
// @Tags movies
// @Produce json
// @Param title query string false "Case-insensitive title substring"
// @Param year query int false "Exact year of release"
// @Param sortBy query string false "title, -title, year or -year"
// @Param page query int false "Page number, default 1"
// @Param pageSize query int false "Page size, default 10"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	opts, err := s.parseQueryOptions(c)
	if err != nil {
		return err
	}

	page, err := s.MovieService.ListPage(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	return writePagedList(c, http.StatusOK, page.Items, page.Page, page.PageSize, page.TotalCount, page.HasNextPage())
}

func (s *Server) parseQueryOptions(c echo.Context) (movie.QueryOptions, error) {
	params := c.QueryParams()
	opts := movie.QueryOptions{
		UserID:   userID(c),
		Page:     1,
		PageSize: s.DefaultPageSize,
	}

	if params.Has("title") {
		opts.Title = movie.Some(params.Get("title"))
	}

	if params.Has("year") {
		year, err := strconv.Atoi(strings.TrimSpace(params.Get("year")))
		if err != nil {
			return movie.QueryOptions{}, ErrInvalidYearParam
		}
		opts.YearOfRelease = movie.Some(year)
	}

	field, direction, err := movie.ParseSort(params.Get("sortBy"))
	if err != nil {
		return movie.QueryOptions{}, err
	}
	opts.SortField = field
	opts.SortDirection = direction

	if params.Has("page") {
		page, err := strconv.Atoi(strings.TrimSpace(params.Get("page")))
		if err != nil {
			return movie.QueryOptions{}, ErrInvalidPageParam
		}
		opts.Page = page
	}

	if params.Has("pageSize") {
		size, err := strconv.Atoi(strings.TrimSpace(params.Get("pageSize")))
		if err != nil {
			return movie.QueryOptions{}, ErrInvalidPageSizeParam
		}
		opts.PageSize = size
	}

	return opts, nil
}

// handleGetMovie godoc
// @Summary Get Movie
// @Description Fetch a movie by id or slug
// @Tags movies
// @Produce json
// @Param idOrSlug path string true "Movie id or slug"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{idOrSlug} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	m, err := s.MovieService.Get(c.Request().Context(), c.Param("idOrSlug"), userID(c))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, m)
}

// handleListMoviesByYear godoc
// @Summary List Movie Titles By Year
// @Tags movies
// @Produce json
// @Param year path int true "Year of release"
// @Success 200 {object} APIResponse
// @Router /api/movies/by-year/{year} [get]
func (s *Server) handleListMoviesByYear(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return ErrInvalidYearParam
	}

	titles, err := s.MovieService.ListByYear(c.Request().Context(), year)
	if err != nil {
		return err
	}

	return writeList(c, http.StatusOK, titles)
}

// handleCreateMovie godoc
// @Summary Create Movie
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body MovieRequest true "Movie"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /api/movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return ErrInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.MovieService.Create(c.Request().Context(), req.ToMovie())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/movies/"+created.ID.String())
	return writeSuccess(c, http.StatusCreated, created)
}

// handleUpdateMovie godoc
// @Summary Update Movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path string true "Movie id"
// @Param movie body MovieRequest true "Movie"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [put]
func (s *Server) handleUpdateMovie(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return movie.ErrInvalidID
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return ErrInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m := req.ToMovie()
	m.ID = id
	updated, err := s.MovieService.Update(c.Request().Context(), m, userID(c))
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, updated)
}

// handleDeleteMovie godoc
// @Summary Delete Movie
// @Tags movies
// @Param id path string true "Movie id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	if s.MovieService == nil {
		return ErrMovieServiceMissing
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return movie.ErrInvalidID
	}

	if err := s.MovieService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "deleted",
	})
}
