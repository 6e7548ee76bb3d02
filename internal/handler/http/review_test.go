package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

func reviewRouter(repo *mockReviewRepo) http.Handler {
	svc := service.NewReviewService(repo, noopEvents(), testLogger())
	handler := NewReviewHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Get("/api/v1/reviews", handler.ListReviews)
	r.Group(func(r chi.Router) {
		r.Use(stubAuth(testIdentity))
		r.Put("/api/v1/review", handler.UpsertReview)
		r.Delete("/api/v1/reviews", handler.DeleteReview)
	})
	return r
}

const reviewProductID = "550e8400-e29b-41d4-a716-446655440001"

// =============================================================================
// PUT /api/v1/review - UpsertReview
// =============================================================================

func TestUpsertReview_Success(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(rv *domain.Review) bool {
		return rv.ProductID == reviewProductID &&
			rv.UserID == testIdentity.UserID &&
			rv.UserName == testIdentity.Name &&
			rv.Rating == 4
	})).Return(nil)

	body := UpsertReviewRequest{ProductID: reviewProductID, Rating: 4, Comment: "solid"}
	b, _ := json.Marshal(body)

	req := withBearer(httptest.NewRequest(http.MethodPut, "/api/v1/review", bytes.NewReader(b)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	repo.AssertExpectations(t)
}

func TestUpsertReview_Unauthenticated(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	body := UpsertReviewRequest{ProductID: reviewProductID, Rating: 4}
	b, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/review", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "Upsert")
}

func TestUpsertReview_RatingValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing rating", body: `{"productId":"p1"}`},
		{name: "rating below one", body: `{"productId":"p1","rating":0.5}`},
		{name: "rating above five", body: `{"productId":"p1","rating":5.5}`},
		{name: "missing product", body: `{"rating":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockReviewRepo)
			router := reviewRouter(repo)

			req := withBearer(httptest.NewRequest(http.MethodPut, "/api/v1/review", bytes.NewReader([]byte(tt.body))))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeEnvelope(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			repo.AssertNotCalled(t, "Upsert")
		})
	}
}

func TestUpsertReview_ProductNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	repo.On("Upsert", mock.Anything, mock.Anything).
		Return(apperrors.NotFound("product", reviewProductID))

	body := UpsertReviewRequest{ProductID: reviewProductID, Rating: 3}
	b, _ := json.Marshal(body)

	req := withBearer(httptest.NewRequest(http.MethodPut, "/api/v1/review", bytes.NewReader(b)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// =============================================================================
// GET /api/v1/reviews - ListReviews
// =============================================================================

func TestListReviews_Success(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	reviews := []domain.Review{
		{ID: "r1", ProductID: reviewProductID, UserID: "u1", UserName: "Alice", Rating: 5, Comment: "great"},
		{ID: "r2", ProductID: reviewProductID, UserID: "u2", UserName: "Bob", Rating: 3},
	}
	repo.On("ListByProductID", mock.Anything, reviewProductID).Return(reviews, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?id="+reviewProductID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReviewsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Reviews, 2)
	assert.Equal(t, "Alice", resp.Reviews[0].UserName)
	repo.AssertExpectations(t)
}

func TestListReviews_EmptySet(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	repo.On("ListByProductID", mock.Anything, reviewProductID).
		Return([]domain.Review{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?id="+reviewProductID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reviews":[]`)
}

func TestListReviews_MissingProductID(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertNotCalled(t, "ListByProductID")
}

func TestListReviews_ProductNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	repo.On("ListByProductID", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("product", "missing"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?id=missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// DELETE /api/v1/reviews - DeleteReview
// =============================================================================

func TestDeleteReview_Success(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	repo.On("Delete", mock.Anything, reviewProductID, "r1").Return(nil)

	req := withBearer(httptest.NewRequest(http.MethodDelete, "/api/v1/reviews?productId="+reviewProductID+"&id=r1", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	repo.AssertExpectations(t)
}

func TestDeleteReview_MissingParams(t *testing.T) {
	repo := new(mockReviewRepo)
	router := reviewRouter(repo)

	req := withBearer(httptest.NewRequest(http.MethodDelete, "/api/v1/reviews?productId="+reviewProductID, nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Delete")
}
