package movie

import (
	"strings"

	"moviecatalog/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidPage          = errs.Errorf(errs.EINVALID, "movie: page must be at least 1")
	ErrInvalidPageSize      = errs.Errorf(errs.EINVALID, "movie: page size out of range")
	ErrInvalidSortField     = errs.Errorf(errs.EINVALID, "movie: unknown sort field")
	ErrInvalidSortDirection = errs.Errorf(errs.EINVALID, "movie: unknown sort direction")
)

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) Present() bool {
	return o.ok
}

// Field names a movie attribute that can be filtered or sorted on.
type Field string

const (
	FieldID    Field = "id"
	FieldTitle Field = "title"
	FieldYear  Field = "year"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortKey is one ordering term of a query.
type SortKey struct {
	Field     Field
	Direction SortDirection
}

// ParseSort reads "title", "-title", "year" or "-year". A leading minus means descending.
// An empty string yields no sort field and no direction, leaving the defaults to ListPage.
func ParseSort(s string) (Optional[Field], Optional[SortDirection], error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[Field](), None[SortDirection](), nil
	}

	dir := Ascending
	if strings.HasPrefix(s, "-") {
		dir = Descending
		s = s[1:]
	}

	switch f := Field(strings.ToLower(s)); f {
	case FieldTitle, FieldYear:
		return Some(f), Some(dir), nil
	default:
		return None[Field](), None[SortDirection](), ErrInvalidSortField
	}
}

// QueryOptions is the request-scoped input of ListPage.
type QueryOptions struct {
	Title         Optional[string]
	YearOfRelease Optional[int]
	SortField     Optional[Field]
	SortDirection Optional[SortDirection]
	// UserID is uuid.Nil for anonymous callers.
	UserID   uuid.UUID
	Page     int
	PageSize int
}

func (o QueryOptions) sortKey() SortKey {
	key := SortKey{Field: FieldTitle, Direction: Ascending}
	if f, ok := o.SortField.Get(); ok {
		key.Field = f
	}
	if d, ok := o.SortDirection.Get(); ok {
		key.Direction = d
	}
	return key
}

func (o QueryOptions) validate(maxPageSize int) error {
	if o.Page < 1 {
		return ErrInvalidPage
	}
	if o.PageSize <= 0 || o.PageSize > maxPageSize {
		return ErrInvalidPageSize
	}
	if f, ok := o.SortField.Get(); ok && f != FieldTitle && f != FieldYear {
		return ErrInvalidSortField
	}
	if d, ok := o.SortDirection.Get(); ok && d != Ascending && d != Descending {
		return ErrInvalidSortDirection
	}
	return nil
}

// Operator is the comparison a Clause applies.
type Operator int

const (
	// ContainsFold is a case-insensitive substring match.
	ContainsFold Operator = iota + 1
	Equal
)

type Clause struct {
	Field    Field
	Operator Operator
	Value    any
}

func TitleContains(s string) Clause {
	return Clause{Field: FieldTitle, Operator: ContainsFold, Value: s}
}

func YearEquals(year int) Clause {
	return Clause{Field: FieldYear, Operator: Equal, Value: year}
}

// Predicate is a conjunction of clauses. The zero value matches every movie.
type Predicate struct {
	clauses []Clause
}

// And returns a new predicate with c appended. p is left untouched.
func (p Predicate) And(c Clause) Predicate {
	clauses := make([]Clause, 0, len(p.clauses)+1)
	clauses = append(clauses, p.clauses...)
	clauses = append(clauses, c)
	return Predicate{clauses: clauses}
}

func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// BuildPredicate conjuncts a clause for every filter present in o.
// Absent filters add nothing.
func BuildPredicate(o QueryOptions) Predicate {
	var p Predicate
	if title, ok := o.Title.Get(); ok {
		p = p.And(TitleContains(title))
	}
	if year, ok := o.YearOfRelease.Get(); ok {
		p = p.And(YearEquals(year))
	}
	return p
}

type ResultPage struct {
	Items      []Projection `json:"items"`
	TotalCount int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
}

// HasNextPage reports whether a page follows this one. It divides instead of
// multiplying so that huge page numbers cannot overflow.
func (r ResultPage) HasNextPage() bool {
	if r.Page < 1 || r.PageSize < 1 || r.TotalCount < 1 {
		return false
	}
	return int64(r.Page) <= (r.TotalCount-1)/int64(r.PageSize)
}
