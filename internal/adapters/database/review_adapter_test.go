package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/adapters/database"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/pagination"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

func sampleReview(id string, createdAt time.Time) *entities.Review {
	return &entities.Review{
		ID:        id,
		UserID:    "user-1",
		ShopID:    "shop-1",
		BookingID: "booking-" + id,
		Rating:    4,
		Comment:   "solid fade",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func reviewRows(reviews ...*entities.Review) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "shop_id", "booking_id", "rating",
		"comment", "response", "responded_at", "created_at", "updated_at",
	})
	for _, r := range reviews {
		var response, respondedAt interface{}
		if r.Response != nil {
			response = *r.Response
		}
		if r.RespondedAt != nil {
			respondedAt = *r.RespondedAt
		}
		rows.AddRow(
			r.ID, r.UserID, r.ShopID, r.BookingID, r.Rating,
			r.Comment, response, respondedAt, r.CreatedAt, r.UpdatedAt,
		)
	}
	return rows
}

func TestReviewAdapter_Create(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("translates a duplicate booking review into a conflict", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectExec(`INSERT INTO "reviews"`).
			WillReturnError(&pq.Error{Code: pq.ErrorCode("23505")})

		err := adapter.Create(context.Background(), sampleReview("rev-1", createdAt))

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}

func TestReviewAdapter_ListByShop(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("scans one page of reviews", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`SELECT (.+) FROM "reviews"`).
			WillReturnRows(reviewRows(
				sampleReview("rev-2", createdAt.Add(time.Hour)),
				sampleReview("rev-1", createdAt),
			))

		reviews, err := adapter.ListByShop(context.Background(), "shop-1", repositories.ReviewPageFilter{
			Sort:  repositories.ReviewSortNewest,
			Limit: 5,
		})

		require.NoError(t, err)
		require.Len(t, reviews, 2)
		assert.Equal(t, "rev-2", reviews[0].ID)
	})

	t.Run("rejects an unknown sort order", func(t *testing.T) {
		client, _ := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		reviews, err := adapter.ListByShop(context.Background(), "shop-1", repositories.ReviewPageFilter{
			Sort:  repositories.ReviewSort("trending"),
			Limit: 5,
		})

		require.Error(t, err)
		assert.Nil(t, reviews)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("rejects a rating cursor without the created-at secondary key", func(t *testing.T) {
		client, _ := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		reviews, err := adapter.ListByShop(context.Background(), "shop-1", repositories.ReviewPageFilter{
			Sort:  repositories.ReviewSortHighest,
			After: &pagination.Cursor{Key: "5", ID: "rev-1"},
			Limit: 5,
		})

		require.Error(t, err)
		assert.Nil(t, reviews)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})
}

func TestReviewAdapter_CountLikes(t *testing.T) {
	t.Run("maps grouped counts and defaults absent reviews to zero", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`SELECT (.+) FROM "review_likes"`).
			WillReturnRows(sqlmock.NewRows([]string{"review_id", "like_count"}).
				AddRow("rev-1", 3).
				AddRow("rev-2", 1))

		counts, err := adapter.CountLikes(context.Background(), []string{"rev-1", "rev-2", "rev-3"})

		require.NoError(t, err)
		assert.Equal(t, 3, counts["rev-1"])
		assert.Equal(t, 1, counts["rev-2"])
		assert.Equal(t, 0, counts["rev-3"])
	})

	t.Run("short-circuits on empty input without querying", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		counts, err := adapter.CountLikes(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewAdapter_Likes(t *testing.T) {
	t.Run("translates a duplicate like into already liked", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectExec(`INSERT INTO "review_likes"`).
			WillReturnError(&pq.Error{Code: pq.ErrorCode("23505")})

		err := adapter.AddLike(context.Background(), "rev-1", "user-1")

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAlreadyLiked))
	})

	t.Run("removing a missing like succeeds", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectExec(`DELETE FROM "review_likes"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.RemoveLike(context.Background(), "rev-1", "user-1")

		assert.NoError(t, err)
	})
}

func TestReviewAdapter_StatsByShop(t *testing.T) {
	statsColumns := []string{
		"total", "average", "rating_1", "rating_2", "rating_3", "rating_4", "rating_5",
	}

	t.Run("rounds the average to one decimal and fills all buckets", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`SELECT`).
			WillReturnRows(sqlmock.NewRows(statsColumns).
				AddRow(5, 3.64, 1, 0, 1, 1, 2))

		stats, err := adapter.StatsByShop(context.Background(), "shop-1")

		require.NoError(t, err)
		assert.Equal(t, 5, stats.TotalReviews)
		assert.Equal(t, 3.6, stats.AverageRating)
		assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 1, 4: 1, 5: 2}, stats.RatingDistribution)
	})

	t.Run("returns zeros for a shop with no reviews", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReviewAdapter(client)

		mock.ExpectQuery(`SELECT`).
			WillReturnRows(sqlmock.NewRows(statsColumns).
				AddRow(0, 0.0, 0, 0, 0, 0, 0))

		stats, err := adapter.StatsByShop(context.Background(), "shop-1")

		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalReviews)
		assert.Equal(t, 0.0, stats.AverageRating)
		assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, stats.RatingDistribution)
	})
}
