package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/application/loaders"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// ReviewService handles review creation, listing with batched enrichment,
// likes and rating aggregation.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	bookingRepo repositories.BookingRepository
	shopRepo    repositories.ShopRepository
	now         func() time.Time
}

// ReviewServiceOption configures a ReviewService
type ReviewServiceOption func(*ReviewService)

// WithReviewClock overrides the time source, for tests
func WithReviewClock(now func() time.Time) ReviewServiceOption {
	return func(s *ReviewService) {
		s.now = now
	}
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	bookingRepo repositories.BookingRepository,
	shopRepo repositories.ShopRepository,
	opts ...ReviewServiceOption,
) *ReviewService {
	s := &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		shopRepo:    shopRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a review for a completed booking owned by the caller. The
// booking_id unique constraint guarantees at most one review per booking.
func (s *ReviewService) Create(ctx context.Context, userID, bookingID string, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, apperrors.NewForbiddenError("only the booking owner can review it")
	}
	if booking.Status != entities.BookingStatusCompleted {
		return nil, apperrors.NewValidationError("only completed bookings can be reviewed")
	}

	review := &entities.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		ShopID:    booking.ShopID,
		BookingID: bookingID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update edits the caller's own review
func (s *ReviewService) Update(ctx context.Context, reviewID, callerID string, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID {
		return nil, apperrors.NewForbiddenError("only the review owner can edit it")
	}

	review.Rating = rating
	review.Comment = comment
	review.UpdatedAt = s.now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes the caller's own review
func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != callerID {
		return apperrors.NewForbiddenError("only the review owner can delete it")
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// Respond records the shop owner's response to a review
func (s *ReviewService) Respond(ctx context.Context, reviewID string, caller entities.Identity, response string) (*entities.Review, error) {
	if response == "" {
		return nil, apperrors.NewValidationError("response must not be empty")
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if caller.Role != entities.RoleShopOwner {
		return nil, apperrors.NewForbiddenError("only the shop owner can respond to a review")
	}
	shop, err := s.shopRepo.GetByID(ctx, review.ShopID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the shop owner can respond to a review")
	}

	now := s.now()
	review.Response = &response
	review.RespondedAt = &now
	review.UpdatedAt = now

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List returns one page of a shop's reviews in the requested order, each
// enriched with its like count and, when a caller is known, whether the
// caller liked it. Enrichment is batched over the page's ids, never issued
// per row.
func (s *ReviewService) List(ctx context.Context, shopID, callerID string, ratings []int, sort repositories.ReviewSort, cursorToken string, limit int) (pagination.Page[*entities.Review], error) {
	var empty pagination.Page[*entities.Review]

	for _, r := range ratings {
		if r < 1 || r > 5 {
			return empty, apperrors.NewValidationError("rating filter must be between 1 and 5")
		}
	}
	switch sort {
	case "":
		sort = repositories.ReviewSortNewest
	case repositories.ReviewSortNewest, repositories.ReviewSortHighest, repositories.ReviewSortLowest:
	default:
		return empty, apperrors.NewValidationError("unknown sort order")
	}

	cursor, err := pagination.Decode(cursorToken)
	if err != nil {
		return empty, err
	}
	limit = pagination.ClampLimit(limit)

	rows, err := s.reviewRepo.ListByShop(ctx, shopID, repositories.ReviewPageFilter{
		Ratings: ratings,
		Sort:    sort,
		After:   cursor,
		Limit:   limit,
	})
	if err != nil {
		return empty, err
	}

	page := pagination.BuildPage(rows, limit, func(r *entities.Review) pagination.Cursor {
		if sort == repositories.ReviewSortNewest {
			return pagination.Cursor{Key: pagination.TimeKey(r.CreatedAt), ID: r.ID}
		}
		created := r.CreatedAt
		return pagination.Cursor{Key: pagination.IntKey(r.Rating), CreatedAt: &created, ID: r.ID}
	})

	if err := s.enrich(ctx, page.Items, callerID); err != nil {
		return empty, err
	}
	return page, nil
}

// Like records that the caller liked the review
func (s *ReviewService) Like(ctx context.Context, reviewID, userID string) error {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return err
	}
	return s.reviewRepo.AddLike(ctx, reviewID, userID)
}

// Unlike removes the caller's like; removing a like that does not exist is
// a no-op success.
func (s *ReviewService) Unlike(ctx context.Context, reviewID, userID string) error {
	return s.reviewRepo.RemoveLike(ctx, reviewID, userID)
}

// Stats returns a shop's review aggregate snapshot
func (s *ReviewService) Stats(ctx context.Context, shopID string) (*entities.ReviewStats, error) {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	return s.reviewRepo.StatsByShop(ctx, shopID)
}

func (s *ReviewService) enrich(ctx context.Context, reviews []*entities.Review, callerID string) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}

	counts, err := loaders.NewLoaders(s.reviewRepo).LikeCounts(ctx, ids)
	if err != nil {
		return err
	}

	liked := map[string]struct{}{}
	if callerID != "" {
		liked, err = s.reviewRepo.ListUserLikes(ctx, callerID, ids)
		if err != nil {
			return err
		}
	}

	for _, r := range reviews {
		r.LikeCount = counts[r.ID]
		_, r.LikedByCaller = liked[r.ID]
	}
	return nil
}
