package postgres

import (
	"context"
	"errors"
	"time"

	"moviecatalog/rating"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingModel represents the database model for ratings
type RatingModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Rating    int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RatingModel) TableName() string {
	return "ratings"
}

// RatingRepository implements rating.Repository interface
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores the user's rating for a movie, replacing an earlier one.
func (r *RatingRepository) Upsert(ctx context.Context, movieID, userID uuid.UUID, value int) error {
	model := RatingModel{UserID: userID, MovieID: movieID, Rating: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return rating.ErrMovieNotFound
		}
		return err
	}
	return nil
}

func (r *RatingRepository) Delete(ctx context.Context, movieID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Delete(&RatingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return rating.ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]rating.MovieRating, error) {
	ratings := []rating.MovieRating{}
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("r.movie_id, m.slug, r.rating").
		Joins("JOIN movies m ON m.id = r.movie_id").
		Where("r.user_id = ?", userID).
		Order("m.slug").
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
