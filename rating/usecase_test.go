package rating_test

import (
	"context"
	"testing"

	"moviecatalog/rating"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(ctx context.Context, movieID, userID uuid.UUID, r int) error {
	args := m.Called(ctx, movieID, userID, r)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, movieID, userID uuid.UUID) error {
	args := m.Called(ctx, movieID, userID)
	return args.Error(0)
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]rating.MovieRating, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]rating.MovieRating), args.Error(1)
}

func TestRate(t *testing.T) {
	movieID, userID := uuid.New(), uuid.New()

	t.Run("should upsert a valid rating", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)
		r.On("Upsert", mock.Anything, movieID, userID, 4).Return(nil).Once()

		err := uc.Rate(context.Background(), movieID, userID, 4)

		assert.NoError(t, err)
		r.AssertExpectations(t)
	})

	t.Run("should reject out of range ratings", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)

		for _, v := range []int{0, 6, -1} {
			err := uc.Rate(context.Background(), movieID, userID, v)

			assert.Equal(t, rating.ErrInvalidRating, err, "rating %d", v)
		}
		r.AssertNotCalled(t, "Upsert")
	})

	t.Run("should require a user", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)

		err := uc.Rate(context.Background(), movieID, uuid.Nil, 3)

		assert.Equal(t, rating.ErrUserIDRequired, err)
	})

	t.Run("should pass through missing movie", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)
		r.On("Upsert", mock.Anything, movieID, userID, 5).Return(rating.ErrMovieNotFound).Once()

		err := uc.Rate(context.Background(), movieID, userID, 5)

		assert.Equal(t, rating.ErrMovieNotFound, err)
	})
}

func TestDeleteRating(t *testing.T) {
	movieID, userID := uuid.New(), uuid.New()

	t.Run("should delete", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)
		r.On("Delete", mock.Anything, movieID, userID).Return(nil).Once()

		assert.NoError(t, uc.DeleteRating(context.Background(), movieID, userID))
		r.AssertExpectations(t)
	})

	t.Run("should reject nil movie id", func(t *testing.T) {
		r := new(MockRatingRepository)
		uc := rating.NewUsecase(r)

		err := uc.DeleteRating(context.Background(), uuid.Nil, userID)

		assert.Equal(t, rating.ErrInvalidMovieID, err)
		r.AssertNotCalled(t, "Delete")
	})
}

func TestUserRatings(t *testing.T) {
	userID := uuid.New()
	r := new(MockRatingRepository)
	uc := rating.NewUsecase(r)
	expected := []rating.MovieRating{{MovieID: uuid.New(), Slug: "heat-1995", Rating: 5}}
	r.On("ListByUser", mock.Anything, userID).Return(expected, nil).Once()

	got, err := uc.UserRatings(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, expected, got)

	_, err = uc.UserRatings(context.Background(), uuid.Nil)
	assert.Equal(t, rating.ErrUserIDRequired, err)
}
