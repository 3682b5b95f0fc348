package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/handlers"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

type stubReviewService struct {
	createErr    error
	likeErr      error
	page         pagination.Page[*entities.Review]
	stats        *entities.ReviewStats
	lastSort     repositories.ReviewSort
	lastRatings  []int
	lastCallerID string
}

func (s *stubReviewService) Create(ctx context.Context, userID, bookingID string, rating int, comment string) (*entities.Review, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &entities.Review{ID: "rev-1", UserID: userID, BookingID: bookingID, Rating: rating, Comment: comment}, nil
}

func (s *stubReviewService) Update(ctx context.Context, reviewID, callerID string, rating int, comment string) (*entities.Review, error) {
	return &entities.Review{ID: reviewID, UserID: callerID, Rating: rating, Comment: comment}, nil
}

func (s *stubReviewService) Delete(ctx context.Context, reviewID, callerID string) error {
	return nil
}

func (s *stubReviewService) Respond(ctx context.Context, reviewID string, caller entities.Identity, response string) (*entities.Review, error) {
	return &entities.Review{ID: reviewID, Response: &response}, nil
}

func (s *stubReviewService) List(ctx context.Context, shopID, callerID string, ratings []int, sort repositories.ReviewSort, cursorToken string, limit int) (pagination.Page[*entities.Review], error) {
	s.lastCallerID = callerID
	s.lastRatings = ratings
	s.lastSort = sort
	return s.page, nil
}

func (s *stubReviewService) Like(ctx context.Context, reviewID, userID string) error {
	return s.likeErr
}

func (s *stubReviewService) Unlike(ctx context.Context, reviewID, userID string) error {
	return nil
}

func (s *stubReviewService) Stats(ctx context.Context, shopID string) (*entities.ReviewStats, error) {
	if s.stats == nil {
		return nil, apperrors.NewNotFoundError("shop not found")
	}
	return s.stats, nil
}

func TestReviewHandler_CreateReview(t *testing.T) {
	t.Run("creates a review for the caller", func(t *testing.T) {
		handler := handlers.NewReviewHandler(&stubReviewService{})

		body := `{"booking_id":"booking-1","rating":5,"comment":"great cut"}`
		req := authenticatedRequest("POST", "/api/reviews", body, customer("user-1"))
		w := httptest.NewRecorder()

		handler.CreateReview(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response entities.Review
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "rev-1", response.ID)
		assert.Equal(t, 5, response.Rating)
	})

	t.Run("maps a duplicate review to conflict", func(t *testing.T) {
		service := &stubReviewService{
			createErr: apperrors.NewConflictError("booking has already been reviewed"),
		}
		handler := handlers.NewReviewHandler(service)

		body := `{"booking_id":"booking-1","rating":5}`
		req := authenticatedRequest("POST", "/api/reviews", body, customer("user-1"))
		w := httptest.NewRecorder()

		handler.CreateReview(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		handler := handlers.NewReviewHandler(&stubReviewService{})

		req := httptest.NewRequest("POST", "/api/reviews", nil)
		w := httptest.NewRecorder()

		handler.CreateReview(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReviewHandler_ListReviews(t *testing.T) {
	t.Run("passes filters through and works anonymously", func(t *testing.T) {
		service := &stubReviewService{
			page: pagination.Page[*entities.Review]{
				Items:   []*entities.Review{{ID: "rev-1", LikeCount: 3}},
				HasMore: false,
			},
		}
		handler := handlers.NewReviewHandler(service)

		req := httptest.NewRequest("GET", "/api/shops/shop-1/reviews?rating=4&rating=5&sort=highest", nil)
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ListReviews(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", service.lastCallerID)
		assert.Equal(t, []int{4, 5}, service.lastRatings)
		assert.Equal(t, repositories.ReviewSortHighest, service.lastSort)

		var response pagination.Page[*entities.Review]
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response.Items, 1)
		assert.Equal(t, 3, response.Items[0].LikeCount)
	})

	t.Run("forwards the caller for liked-by flags", func(t *testing.T) {
		service := &stubReviewService{}
		handler := handlers.NewReviewHandler(service)

		req := authenticatedRequest("GET", "/api/shops/shop-1/reviews", "", customer("user-7"))
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ListReviews(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-7", service.lastCallerID)
	})

	t.Run("rejects a non-numeric rating filter", func(t *testing.T) {
		handler := handlers.NewReviewHandler(&stubReviewService{})

		req := httptest.NewRequest("GET", "/api/shops/shop-1/reviews?rating=five", nil)
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.ListReviews(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReviewHandler_Likes(t *testing.T) {
	t.Run("maps a double like to conflict", func(t *testing.T) {
		service := &stubReviewService{
			likeErr: apperrors.NewAlreadyLikedError("review already liked"),
		}
		handler := handlers.NewReviewHandler(service)

		req := authenticatedRequest("POST", "/api/reviews/rev-1/like", "", customer("user-1"))
		req.SetPathValue("id", "rev-1")
		w := httptest.NewRecorder()

		handler.LikeReview(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unlike is a no-content success", func(t *testing.T) {
		handler := handlers.NewReviewHandler(&stubReviewService{})

		req := authenticatedRequest("DELETE", "/api/reviews/rev-1/like", "", customer("user-1"))
		req.SetPathValue("id", "rev-1")
		w := httptest.NewRecorder()

		handler.UnlikeReview(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestReviewHandler_GetReviewStats(t *testing.T) {
	t.Run("returns the aggregate", func(t *testing.T) {
		service := &stubReviewService{
			stats: &entities.ReviewStats{
				ShopID:             "shop-1",
				TotalReviews:       5,
				AverageRating:      3.6,
				RatingDistribution: map[int]int{1: 1, 2: 0, 3: 1, 4: 1, 5: 2},
			},
		}
		handler := handlers.NewReviewHandler(service)

		req := httptest.NewRequest("GET", "/api/shops/shop-1/reviews/stats", nil)
		req.SetPathValue("id", "shop-1")
		w := httptest.NewRecorder()

		handler.GetReviewStats(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response entities.ReviewStats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 5, response.TotalReviews)
		assert.Equal(t, 3.6, response.AverageRating)
	})

	t.Run("maps an unknown shop to not found", func(t *testing.T) {
		handler := handlers.NewReviewHandler(&stubReviewService{})

		req := httptest.NewRequest("GET", "/api/shops/nope/reviews/stats", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.GetReviewStats(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
