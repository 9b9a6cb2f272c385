package httpserver

import (
	"moviecatalog/movie"
)

type MovieRequest struct {
	Title         string   `json:"title" validate:"required,notblank,max=200"`
	YearOfRelease int      `json:"yearOfRelease" validate:"required,min=1888"`
	Synopsis      string   `json:"synopsis" validate:"max=5000"`
	Genres        []string `json:"genres" validate:"required,min=1,max=10,dive,required,notblank,max=50"`
}

func (r MovieRequest) ToMovie() movie.Movie {
	return movie.Movie{
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Synopsis:      r.Synopsis,
		Genres:        r.Genres,
	}
}

type RateMovieRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}
