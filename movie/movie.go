package movie

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"moviecatalog/errs"

	"github.com/google/uuid"
)

// EarliestYear is the year of the first known motion picture.
const EarliestYear = 1888

var (
	ErrInvalidTitle      = errs.Errorf(errs.EINVALID, "movie: invalid title")
	ErrInvalidYear       = errs.Errorf(errs.EINVALID, "movie: invalid year of release")
	ErrInvalidGenres     = errs.Errorf(errs.EINVALID, "movie: at least one genre is required")
	ErrInvalidID         = errs.Errorf(errs.EINVALID, "movie: invalid id")
	ErrMovieNotFound     = errs.Errorf(errs.ENOTFOUND, "movie: not found")
	ErrSlugAlreadyExists = errs.Errorf(errs.ECONFLICT, "movie: a movie with the same title and year already exists")
)

type Movie struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"yearOfRelease"`
	Synopsis      string    `json:"synopsis"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating,omitempty"`
	UserRating    *int      `json:"userRating,omitempty"`
}

// Projection is the list view of a movie. It leaves out the synopsis.
type Projection struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"yearOfRelease"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating,omitempty"`
	UserRating    *int      `json:"userRating,omitempty"`
}

// Title is the smallest projection: identifier and title only.
type Title struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrInvalidTitle
	}

	if m.YearOfRelease < EarliestYear || m.YearOfRelease > time.Now().UTC().Year()+5 {
		return ErrInvalidYear
	}

	if len(m.Genres) == 0 {
		return ErrInvalidGenres
	}
	for _, g := range m.Genres {
		if strings.TrimSpace(g) == "" {
			return ErrInvalidGenres
		}
	}

	return nil
}

var slugStrip = regexp.MustCompile(`[^0-9A-Za-z _-]`)

// Slug derives the URL-safe identifier of a movie, e.g. "The Matrix", 1999 -> "the-matrix-1999".
func Slug(title string, year int) string {
	s := slugStrip.ReplaceAllString(strings.TrimSpace(title), "")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	return fmt.Sprintf("%s-%d", s, year)
}

// normalizeGenres trims labels and drops duplicates, keeping first-seen order.
func normalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, g)
	}
	return out
}
