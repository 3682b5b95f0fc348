package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/api/middleware"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
)

// ReviewService defines the review operations used by the handler
type ReviewService interface {
	Create(ctx context.Context, userID, bookingID string, rating int, comment string) (*entities.Review, error)
	Update(ctx context.Context, reviewID, callerID string, rating int, comment string) (*entities.Review, error)
	Delete(ctx context.Context, reviewID, callerID string) error
	Respond(ctx context.Context, reviewID string, caller entities.Identity, response string) (*entities.Review, error)
	List(ctx context.Context, shopID, callerID string, ratings []int, sort repositories.ReviewSort, cursorToken string, limit int) (pagination.Page[*entities.Review], error)
	Like(ctx context.Context, reviewID, userID string) error
	Unlike(ctx context.Context, reviewID, userID string) error
	Stats(ctx context.Context, shopID string) (*entities.ReviewStats, error)
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

type createReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.BookingID == "" {
		respondWithError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	review, err := h.service.Create(r.Context(), caller.UserID, req.BookingID, req.Rating, req.Comment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReview handles PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	review, err := h.service.Update(r.Context(), reviewID, caller.UserID, req.Rating, req.Comment)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), reviewID, caller.UserID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type respondReviewRequest struct {
	Response string `json:"response"`
}

// RespondToReview handles POST /api/reviews/{id}/response
func (h *ReviewHandler) RespondToReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req respondReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	review, err := h.service.Respond(r.Context(), reviewID, caller, req.Response)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// ListReviews handles GET /api/shops/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	var ratings []int
	for _, ratingStr := range r.URL.Query()["rating"] {
		rating, err := strconv.Atoi(ratingStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid rating filter")
			return
		}
		ratings = append(ratings, rating)
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	// Anonymous callers still get the listing, just without the
	// liked-by-caller flags.
	callerID := ""
	if caller, ok := middleware.IdentityFromContext(r.Context()); ok {
		callerID = caller.UserID
	}

	sort := repositories.ReviewSort(r.URL.Query().Get("sort"))

	page, err := h.service.List(r.Context(), shopID, callerID, ratings, sort, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// LikeReview handles POST /api/reviews/{id}/like
func (h *ReviewHandler) LikeReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Like(r.Context(), reviewID, caller.UserID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// UnlikeReview handles DELETE /api/reviews/{id}/like
func (h *ReviewHandler) UnlikeReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	caller, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Unlike(r.Context(), reviewID, caller.UserID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetReviewStats handles GET /api/shops/{id}/reviews/stats
func (h *ReviewHandler) GetReviewStats(w http.ResponseWriter, r *http.Request) {
	shopID := r.PathValue("id")
	if shopID == "" {
		respondWithError(w, http.StatusBadRequest, "shop ID is required")
		return
	}

	stats, err := h.service.Stats(r.Context(), shopID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
