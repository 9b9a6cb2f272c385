package httpserver_test

import (
	"net/http"
	"testing"

	"moviecatalog/httpserver"
	"moviecatalog/movie"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieCatalogIntegration(t *testing.T) {
	// Arrange
	db := MustCreateTestDatabase(t)
	MigrateTestDatabase(t, db, "../migrations")
	server := MustCreateServer(t, db)
	auth := authHeader(t)

	created := map[string]movie.Movie{}
	for _, req := range []httpserver.MovieRequest{
		{Title: "Alpha", YearOfRelease: 2000, Genres: []string{"Drama"}},
		{Title: "Beta", YearOfRelease: 2000, Genres: []string{"Comedy"}},
		{Title: "Gamma", YearOfRelease: 2010, Genres: []string{"Action"}},
	} {
		rec := makeJSONRequest(server, http.MethodPost, "/api/movies", req, auth)
		requireStatus(t, rec, http.StatusCreated)
		var m movie.Movie
		decodeAPIResult(t, rec, &m)
		created[m.Title] = m
	}

	t.Run("year filter pages through matches", func(t *testing.T) {
		var titles []string
		for _, page := range []string{"1", "2"} {
			rec := makeRequest(server, http.MethodGet, "/api/movies?year=2000&pageSize=1&page="+page, nil)
			requireStatus(t, rec, http.StatusOK)
			var body pagedBody[movie.Projection]
			decodeAPIResult(t, rec, &body)
			assert.Equal(t, int64(2), body.Total)
			require.Len(t, body.Data, 1)
			titles = append(titles, body.Data[0].Title)
		}
		assert.Equal(t, []string{"Alpha", "Beta"}, titles)
	})

	t.Run("no filter second page", func(t *testing.T) {
		rec := makeRequest(server, http.MethodGet, "/api/movies?page=2&pageSize=2", nil)
		requireStatus(t, rec, http.StatusOK)
		var body pagedBody[movie.Projection]
		decodeAPIResult(t, rec, &body)
		assert.Equal(t, int64(3), body.Total)
		assert.False(t, body.HasNextPage)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Gamma", body.Data[0].Title)
	})

	t.Run("page size above the maximum is rejected", func(t *testing.T) {
		rec := makeRequest(server, http.MethodGet, "/api/movies?pageSize=26", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rating shows up for the rater only", func(t *testing.T) {
		gamma := created["Gamma"]
		rec := makeJSONRequest(server, http.MethodPut, "/api/movies/"+gamma.ID.String()+"/ratings",
			httpserver.RateMovieRequest{Rating: 5}, auth)
		requireStatus(t, rec, http.StatusOK)

		rec = makeRequest(server, http.MethodGet, "/api/movies/"+gamma.Slug, auth)
		requireStatus(t, rec, http.StatusOK)
		var mine movie.Movie
		decodeAPIResult(t, rec, &mine)
		require.NotNil(t, mine.UserRating)
		assert.Equal(t, 5, *mine.UserRating)

		rec = makeRequest(server, http.MethodGet, "/api/movies/"+gamma.Slug, nil)
		requireStatus(t, rec, http.StatusOK)
		var anon movie.Movie
		decodeAPIResult(t, rec, &anon)
		assert.Nil(t, anon.UserRating)
		require.NotNil(t, anon.Rating)
		assert.InDelta(t, 5.0, *anon.Rating, 0.001)
	})

	t.Run("duplicate movie conflicts", func(t *testing.T) {
		rec := makeJSONRequest(server, http.MethodPost, "/api/movies",
			httpserver.MovieRequest{Title: "alpha", YearOfRelease: 2000, Genres: []string{"Drama"}}, auth)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("delete then not found", func(t *testing.T) {
		beta := created["Beta"]
		rec := makeRequest(server, http.MethodDelete, "/api/movies/"+beta.ID.String(), auth)
		requireStatus(t, rec, http.StatusOK)

		rec = makeRequest(server, http.MethodGet, "/api/movies/"+beta.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("healthcheck pings the database", func(t *testing.T) {
		rec := makeRequest(server, http.MethodGet, "/healthcheck", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
