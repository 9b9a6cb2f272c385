package rating

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Rate(ctx context.Context, movieID, userID uuid.UUID, rating int) error
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) error
	UserRatings(ctx context.Context, userID uuid.UUID) ([]MovieRating, error)
}

type Repository interface {
	Upsert(ctx context.Context, movieID, userID uuid.UUID, rating int) error
	Delete(ctx context.Context, movieID, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]MovieRating, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) Rate(ctx context.Context, movieID, userID uuid.UUID, rating int) error {
	if err := validate(movieID, userID); err != nil {
		return err
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return uc.r.Upsert(ctx, movieID, userID, rating)
}

func (uc *Usecase) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) error {
	if err := validate(movieID, userID); err != nil {
		return err
	}
	return uc.r.Delete(ctx, movieID, userID)
}

func (uc *Usecase) UserRatings(ctx context.Context, userID uuid.UUID) ([]MovieRating, error) {
	if userID == uuid.Nil {
		return nil, ErrUserIDRequired
	}
	return uc.r.ListByUser(ctx, userID)
}

func validate(movieID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUserIDRequired
	}
	if movieID == uuid.Nil {
		return ErrInvalidMovieID
	}
	return nil
}
