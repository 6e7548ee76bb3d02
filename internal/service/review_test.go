package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

func newReviewService(repo *mockReviewRepository) *ReviewService {
	return NewReviewService(repo, noopEvents(), newTestLogger())
}

func validReviewInput() *UpsertReviewInput {
	return &UpsertReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		UserName:  "Asha",
		Rating:    4,
		Comment:   "Solid build.",
	}
}

func TestReviewService_UpsertReview_Success(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(rv *domain.Review) bool {
		return rv.ProductID == "prod-1" &&
			rv.UserID == "user-1" &&
			rv.UserName == "Asha" &&
			rv.Rating == 4 &&
			rv.ID != ""
	})).Return(nil)

	err := svc.UpsertReview(testContext(t), validReviewInput())

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReviewService_UpsertReview_RatingBounds(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	for _, rating := range []float64{0, 0.5, 5.5, -1} {
		input := validReviewInput()
		input.Rating = rating

		err := svc.UpsertReview(testContext(t), input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "rating=%v", rating)
	}

	repo.AssertNotCalled(t, "Upsert")
}

func TestReviewService_UpsertReview_MissingIdentity(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	input := validReviewInput()
	input.ProductID = ""
	assert.ErrorIs(t, svc.UpsertReview(testContext(t), input), apperrors.ErrInvalidInput)

	input = validReviewInput()
	input.UserID = ""
	assert.ErrorIs(t, svc.UpsertReview(testContext(t), input), apperrors.ErrInvalidInput)
}

func TestReviewService_UpsertReview_ProductNotFound(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(apperrors.NotFound("product", "prod-1"))

	err := svc.UpsertReview(testContext(t), validReviewInput())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewService_ListReviews_Success(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("ListByProductID", mock.Anything, "prod-1").
		Return([]domain.Review{{ID: "review-1", Rating: 5}}, nil)

	reviews, err := svc.ListReviews(testContext(t), "prod-1")

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "review-1", reviews[0].ID)
}

func TestReviewService_ListReviews_ProductNotFound(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("ListByProductID", mock.Anything, "missing-id").
		Return(nil, apperrors.NotFound("product", "missing-id"))

	reviews, err := svc.ListReviews(testContext(t), "missing-id")

	assert.Nil(t, reviews)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewService_DeleteReview_AbsentReviewIsNoOp(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("Delete", mock.Anything, "prod-1", "ghost-review").Return(nil)

	err := svc.DeleteReview(testContext(t), "prod-1", "ghost-review")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReviewService_DeleteReview_ProductNotFound(t *testing.T) {
	repo := &mockReviewRepository{}
	svc := newReviewService(repo)

	repo.On("Delete", mock.Anything, "missing-id", "review-1").
		Return(apperrors.NotFound("product", "missing-id"))

	err := svc.DeleteReview(testContext(t), "missing-id", "review-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
