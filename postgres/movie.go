package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviecatalog/movie"
	"moviecatalog/pkg/metrics"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title         string         `gorm:"not null"`
	Slug          string         `gorm:"not null;uniqueIndex"`
	YearOfRelease int            `gorm:"column:year_of_release;not null"`
	Synopsis      string         `gorm:"not null;default:''"`
	Genres        pq.StringArray `gorm:"type:text[];not null"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// movieRow is what the read queries scan into: the movie columns plus the
// rating aggregates computed per row.
type movieRow struct {
	ID            uuid.UUID
	Title         string
	Slug          string
	YearOfRelease int
	Synopsis      string
	Genres        pq.StringArray
	Rating        *float64
	UserRating    *int
}

const movieSelect = `m.id, m.title, m.slug, m.year_of_release, m.synopsis, m.genres,
	(SELECT round(avg(r.rating)::numeric, 1)::float8 FROM ratings r WHERE r.movie_id = m.id) AS rating,
	(SELECT r.rating FROM ratings r WHERE r.movie_id = m.id AND r.user_id = ?) AS user_rating`

// Title sorts byte-wise so ordering does not depend on the database locale.
var sortColumns = map[movie.Field]string{
	movie.FieldID:    "m.id",
	movie.FieldTitle: `m.title COLLATE "C"`,
	movie.FieldYear:  "m.year_of_release",
}

// MovieRepository implements movie.Repository on top of GORM.
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// movieQuery accumulates scopes; nothing reaches the database before Materialize.
type movieQuery struct {
	db     *gorm.DB
	scopes []func(*gorm.DB) *gorm.DB
	viewer uuid.NullUUID
}

func (r *MovieRepository) FilterBy(p movie.Predicate) movie.Query {
	return movieQuery{
		db:     r.db,
		scopes: []func(*gorm.DB) *gorm.DB{filterScope(p)},
	}
}

func (r *MovieRepository) CountMatching(ctx context.Context, p movie.Predicate) (int64, error) {
	defer metrics.ObserveStoreQuery("count_movies", time.Now())

	var total int64
	err := r.db.WithContext(ctx).
		Table("movies AS m").
		Scopes(filterScope(p)).
		Count(&total).Error
	if err != nil {
		metrics.StoreErrors.WithLabelValues("count_movies").Inc()
		return 0, err
	}
	return total, nil
}

func (q movieQuery) with(scope func(*gorm.DB) *gorm.DB) movieQuery {
	scopes := make([]func(*gorm.DB) *gorm.DB, 0, len(q.scopes)+1)
	scopes = append(scopes, q.scopes...)
	q.scopes = append(scopes, scope)
	return q
}

func (q movieQuery) ForUser(userID uuid.UUID) movie.Query {
	q.viewer = uuid.NullUUID{UUID: userID, Valid: userID != uuid.Nil}
	return q
}

func (q movieQuery) OrderBy(keys ...movie.SortKey) movie.Query {
	return q.with(orderScope(keys))
}

func (q movieQuery) Paginate(skip, take int) movie.Query {
	return q.with(func(db *gorm.DB) *gorm.DB {
		return db.Offset(skip).Limit(take)
	})
}

func (q movieQuery) Materialize(ctx context.Context) ([]movie.Projection, error) {
	defer metrics.ObserveStoreQuery("list_movies", time.Now())

	var rows []movieRow
	err := q.db.WithContext(ctx).
		Table("movies AS m").
		Select(movieSelect, q.viewer).
		Scopes(q.scopes...).
		Scan(&rows).Error
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_movies").Inc()
		return nil, err
	}

	items := make([]movie.Projection, len(rows))
	for i, row := range rows {
		items[i] = toProjection(row)
	}
	return items, nil
}

func filterScope(p movie.Predicate) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range p.Clauses() {
			switch {
			case c.Field == movie.FieldTitle && c.Operator == movie.ContainsFold:
				db = db.Where("m.title ILIKE ?", "%"+escapeLike(fmt.Sprint(c.Value))+"%")
			case c.Field == movie.FieldYear && c.Operator == movie.Equal:
				db = db.Where("m.year_of_release = ?", c.Value)
			default:
				_ = db.AddError(fmt.Errorf("postgres: unsupported clause on %q", c.Field))
			}
		}
		return db
	}
}

func orderScope(keys []movie.SortKey) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, k := range keys {
			col, ok := sortColumns[k.Field]
			if !ok {
				_ = db.AddError(fmt.Errorf("postgres: unsupported sort field %q", k.Field))
				continue
			}
			dir := "ASC"
			if k.Direction == movie.Descending {
				dir = "DESC"
			}
			db = db.Order(col + " " + dir)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Create inserts a new movie. A taken slug yields movie.ErrSlugAlreadyExists.
func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) error {
	model := toModelMovie(m)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return movie.ErrSlugAlreadyExists
		}
		return err
	}
	return nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (movie.Movie, error) {
	return r.getOne(ctx, "m.id = ?", id, userID)
}

// GetBySlug relies on the unique index on slug for returning at most one movie.
func (r *MovieRepository) GetBySlug(ctx context.Context, slug string, userID uuid.UUID) (movie.Movie, error) {
	return r.getOne(ctx, "m.slug = ?", slug, userID)
}

func (r *MovieRepository) getOne(ctx context.Context, cond string, arg interface{}, userID uuid.UUID) (movie.Movie, error) {
	var row movieRow
	err := r.db.WithContext(ctx).
		Table("movies AS m").
		Select(movieSelect, uuid.NullUUID{UUID: userID, Valid: userID != uuid.Nil}).
		Where(cond, arg).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, movie.ErrMovieNotFound
		}
		return movie.Movie{}, err
	}
	return toDomainMovie(row), nil
}

// TitlesByYear returns the id and title of every movie released in year.
func (r *MovieRepository) TitlesByYear(ctx context.Context, year int) ([]movie.Title, error) {
	titles := []movie.Title{}
	err := r.db.WithContext(ctx).
		Model(&MovieModel{}).
		Select("id, title").
		Where("year_of_release = ?", year).
		Order(`title COLLATE "C", id`).
		Scan(&titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *MovieRepository) Update(ctx context.Context, m movie.Movie) error {
	result := r.db.WithContext(ctx).Model(&MovieModel{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"title":           m.Title,
		"slug":            m.Slug,
		"year_of_release": m.YearOfRelease,
		"synopsis":        m.Synopsis,
		"genres":          pq.StringArray(m.Genres),
		"updated_at":      time.Now().UTC(),
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return movie.ErrSlugAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

func toProjection(row movieRow) movie.Projection {
	return movie.Projection{
		ID:            row.ID,
		Title:         row.Title,
		Slug:          row.Slug,
		YearOfRelease: row.YearOfRelease,
		Genres:        genresOrEmpty(row.Genres),
		Rating:        row.Rating,
		UserRating:    row.UserRating,
	}
}

func toDomainMovie(row movieRow) movie.Movie {
	return movie.Movie{
		ID:            row.ID,
		Title:         row.Title,
		Slug:          row.Slug,
		YearOfRelease: row.YearOfRelease,
		Synopsis:      row.Synopsis,
		Genres:        genresOrEmpty(row.Genres),
		Rating:        row.Rating,
		UserRating:    row.UserRating,
	}
}

func toModelMovie(m movie.Movie) MovieModel {
	return MovieModel{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug,
		YearOfRelease: m.YearOfRelease,
		Synopsis:      m.Synopsis,
		Genres:        pq.StringArray(m.Genres),
	}
}

func genresOrEmpty(g pq.StringArray) []string {
	if g == nil {
		return []string{}
	}
	return []string(g)
}
