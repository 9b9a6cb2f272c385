package movie

import (
	"context"
	"errors"
	"math"
	"strings"

	"moviecatalog/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxPageSize = 25

type Service interface {
	ListPage(ctx context.Context, opts QueryOptions) (ResultPage, error)
	Get(ctx context.Context, idOrSlug string, userID uuid.UUID) (Movie, error)
	ListByYear(ctx context.Context, year int) ([]Title, error)
	Create(ctx context.Context, m Movie) (Movie, error)
	Update(ctx context.Context, m Movie, userID uuid.UUID) (Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Query is a composed, not yet executed read over the movie collection.
// OrderBy and Paginate only add clauses; Materialize runs it.
type Query interface {
	ForUser(userID uuid.UUID) Query
	OrderBy(keys ...SortKey) Query
	Paginate(skip, take int) Query
	Materialize(ctx context.Context) ([]Projection, error)
}

// Store is the read side the list operation composes queries against.
type Store interface {
	FilterBy(p Predicate) Query
	CountMatching(ctx context.Context, p Predicate) (int64, error)
}

type Repository interface {
	Store
	Create(ctx context.Context, m Movie) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (Movie, error)
	GetBySlug(ctx context.Context, slug string, userID uuid.UUID) (Movie, error)
	TitlesByYear(ctx context.Context, year int) ([]Title, error)
	Update(ctx context.Context, m Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Usecase struct {
	r           Repository
	maxPageSize int
}

func NewUsecase(r Repository, maxPageSize int) *Usecase {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Usecase{r: r, maxPageSize: maxPageSize}
}

func (uc *Usecase) MaxPageSize() int {
	return uc.maxPageSize
}

// ListPage returns one page of the movies matching opts and the number of
// movies matching the same filter across all pages.
func (uc *Usecase) ListPage(ctx context.Context, opts QueryOptions) (ResultPage, error) {
	if err := opts.validate(uc.maxPageSize); err != nil {
		return ResultPage{}, err
	}

	p := BuildPredicate(opts)

	// A page whose offset does not fit in an int lies past any result set.
	if opts.Page-1 > math.MaxInt/opts.PageSize {
		total, err := uc.r.CountMatching(ctx, p)
		if err != nil {
			return ResultPage{}, storeError(ctx, err, "count movies")
		}
		return ResultPage{
			Items:      []Projection{},
			TotalCount: total,
			Page:       opts.Page,
			PageSize:   opts.PageSize,
		}, nil
	}

	q := uc.r.FilterBy(p).
		ForUser(opts.UserID).
		OrderBy(opts.sortKey(), SortKey{Field: FieldID, Direction: Ascending}).
		Paginate((opts.Page-1)*opts.PageSize, opts.PageSize)

	var (
		items []Projection
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = uc.r.CountMatching(gctx, p)
		return storeError(ctx, err, "count movies")
	})
	g.Go(func() error {
		var err error
		items, err = q.Materialize(gctx)
		return storeError(ctx, err, "list movies")
	})
	if err := g.Wait(); err != nil {
		return ResultPage{}, err
	}

	if items == nil {
		items = []Projection{}
	}
	return ResultPage{
		Items:      items,
		TotalCount: total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	}, nil
}

func (uc *Usecase) Get(ctx context.Context, idOrSlug string, userID uuid.UUID) (Movie, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return Movie{}, ErrMovieNotFound
	}
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return uc.r.GetByID(ctx, id, userID)
	}
	return uc.r.GetBySlug(ctx, strings.ToLower(idOrSlug), userID)
}

func (uc *Usecase) ListByYear(ctx context.Context, year int) ([]Title, error) {
	return uc.r.TitlesByYear(ctx, year)
}

func (uc *Usecase) Create(ctx context.Context, m Movie) (Movie, error) {
	m.Title = strings.TrimSpace(m.Title)
	m.Genres = normalizeGenres(m.Genres)
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}

	m.ID = uuid.New()
	m.Slug = Slug(m.Title, m.YearOfRelease)
	m.Rating = nil
	m.UserRating = nil
	if err := uc.r.Create(ctx, m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (uc *Usecase) Update(ctx context.Context, m Movie, userID uuid.UUID) (Movie, error) {
	if m.ID == uuid.Nil {
		return Movie{}, ErrInvalidID
	}

	m.Title = strings.TrimSpace(m.Title)
	m.Genres = normalizeGenres(m.Genres)
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}

	existing, err := uc.r.GetByID(ctx, m.ID, userID)
	if err != nil {
		return Movie{}, err
	}

	existing.Title = m.Title
	existing.YearOfRelease = m.YearOfRelease
	existing.Synopsis = m.Synopsis
	existing.Genres = m.Genres
	existing.Slug = Slug(existing.Title, existing.YearOfRelease)

	if err := uc.r.Update(ctx, existing); err != nil {
		return Movie{}, err
	}
	return existing, nil
}

func (uc *Usecase) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidID
	}
	return uc.r.Delete(ctx, id)
}

// storeError marks a failed store call as unavailable, keeping the cause
// and any code the store already attached. A canceled or expired caller
// context is returned as is.
func storeError(ctx context.Context, err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return errs.Wrap(err, errs.EUNAVAILABLE, "movie store unavailable: %s", op)
}
