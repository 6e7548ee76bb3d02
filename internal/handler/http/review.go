package http

import (
	"log/slog"
	"net/http"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httputil"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/middleware"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// UpsertReviewRequest is the JSON request body for submitting a review.
type UpsertReviewRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string  `json:"comment"`
}

// ReviewsResponse wraps a product's review list.
type ReviewsResponse struct {
	Success bool            `json:"success"`
	Reviews []domain.Review `json:"reviews"`
}

// UpsertReview handles PUT /api/v1/review. The authenticated user's
// earlier review of the product, if any, is replaced.
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	var req UpsertReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	err := h.service.UpsertReview(r.Context(), &service.UpsertReviewInput{
		ProductID: req.ProductID,
		UserID:    middleware.UserIDFromContext(r.Context()),
		UserName:  middleware.UserNameFromContext(r.Context()),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK)
}

// ListReviews handles GET /api/v1/reviews?id={productId}
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("id")
	if productID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("product id is required"), h.logger)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ReviewsResponse{Success: true, Reviews: reviews})
}

// DeleteReview handles DELETE /api/v1/reviews?productId={id}&id={reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	reviewID := r.URL.Query().Get("id")
	if productID == "" || reviewID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("productId and id are required"), h.logger)
		return
	}

	if err := h.service.DeleteReview(r.Context(), productID, reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK)
}
