package rating

import (
	"moviecatalog/errs"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating  = errs.Errorf(errs.EINVALID, "rating: must be between 1 and 5")
	ErrInvalidMovieID = errs.Errorf(errs.EINVALID, "rating: invalid movie id")
	ErrUserIDRequired = errs.Errorf(errs.EUNAUTHORIZED, "rating: user is required")
	ErrRatingNotFound = errs.Errorf(errs.ENOTFOUND, "rating: not found")
	ErrMovieNotFound  = errs.Errorf(errs.ENOTFOUND, "rating: movie not found")
)

// MovieRating is one rating a user gave to a movie.
type MovieRating struct {
	MovieID uuid.UUID `json:"movieId"`
	Slug    string    `json:"slug"`
	Rating  int       `json:"rating"`
}
