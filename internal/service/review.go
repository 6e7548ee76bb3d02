package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/event"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/repository"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// UpsertReviewInput holds the parameters for submitting a review.
type UpsertReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    float64
	Comment   string
}

// ReviewService implements the business logic for review operations.
// A user holds one review per product; resubmitting replaces it. The
// product's derived rating columns stay consistent with the review set
// after every mutation.
type ReviewService struct {
	repo   repository.ReviewRepository
	events event.Publisher
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, events event.Publisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// UpsertReview stores the user's review for a product, replacing an
// earlier one by the same user.
func (s *ReviewService) UpsertReview(ctx context.Context, input *UpsertReviewInput) error {
	if input.ProductID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if input.UserID == "" {
		return apperrors.InvalidInput("user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		UserID:    input.UserID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, review); err != nil {
		return err
	}

	if err := s.events.PublishReviewCreated(ctx, &event.ReviewCreatedData{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "review stored",
		slog.String("product_id", input.ProductID),
		slog.String("user_id", input.UserID),
		slog.Float64("rating", input.Rating),
	)

	return nil
}

// ListReviews returns all reviews for a product.
func (s *ReviewService) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	reviews, err := s.repo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes a review by id from a product. Deleting an
// absent review id still succeeds; the aggregate is recomputed either
// way.
func (s *ReviewService) DeleteReview(ctx context.Context, productID, reviewID string) error {
	if err := s.repo.Delete(ctx, productID, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("product_id", productID),
		slog.String("review_id", reviewID),
	)

	return nil
}
