package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

var reviewColumns = []interface{}{
	"id", "user_id", "shop_id", "booking_id", "rating",
	"comment", "response", "responded_at", "created_at", "updated_at",
}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	sqlxDB *sqlx.DB
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB().DB),
		sqlxDB: client.DB(),
	}
}

// Create inserts a review. The unique constraint on booking_id turns a
// duplicate review for the same booking into a conflict error.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("reviews").Rows(goqu.Record{
		"id":           review.ID,
		"user_id":      review.UserID,
		"shop_id":      review.ShopID,
		"booking_id":   review.BookingID,
		"rating":       review.Rating,
		"comment":      review.Comment,
		"response":     review.Response,
		"responded_at": review.RespondedAt,
		"created_at":   review.CreatedAt,
		"updated_at":   review.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.sqlxDB.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.NewConflictError("booking has already been reviewed")
		}
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review := &entities.Review{}
	err = a.sqlxDB.GetContext(ctx, review, query, args...)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// Update persists rating, comment, response and responded_at changes
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	review.UpdatedAt = time.Now()

	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{
			"rating":       review.Rating,
			"comment":      review.Comment,
			"response":     review.Response,
			"responded_at": review.RespondedAt,
			"updated_at":   review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": review.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.sqlxDB.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", review.ID))
	}

	return nil
}

// Delete removes a review and its likes
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	tx, err := a.client.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	likesQuery, likesArgs, err := a.db.Delete("review_likes").
		Where(goqu.Ex{"review_id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}
	if _, err = tx.ExecContext(ctx, likesQuery, likesArgs...); err != nil {
		return apperrors.NewInternalError("failed to delete review likes", err)
	}

	query, args, err := a.db.Delete("reviews").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}

	if err = tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit delete", err)
	}

	return nil
}

// ListByShop retrieves one keyset page of a shop's reviews in the filter's
// sort order
func (a *ReviewAdapter) ListByShop(ctx context.Context, shopID string, filter repositories.ReviewPageFilter) ([]*entities.Review, error) {
	ds := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"shop_id": shopID})

	if len(filter.Ratings) > 0 {
		ds = ds.Where(goqu.C("rating").In(filter.Ratings))
	}

	ds, err := applyReviewSort(ds, filter)
	if err != nil {
		return nil, err
	}

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit) + 1)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	reviews := []*entities.Review{}
	if err := a.sqlxDB.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}

	return reviews, nil
}

// applyReviewSort adds the sort order and the matching keyset predicate.
// Every order ends with an id tie-break so the cursor always resumes at a
// unique position.
func applyReviewSort(ds *goqu.SelectDataset, filter repositories.ReviewPageFilter) (*goqu.SelectDataset, error) {
	switch filter.Sort {
	case repositories.ReviewSortNewest, "":
		if filter.After != nil {
			key, err := filter.After.KeyAsTime()
			if err != nil {
				return nil, err
			}
			ds = ds.Where(goqu.Or(
				goqu.C("created_at").Lt(key),
				goqu.And(
					goqu.C("created_at").Eq(key),
					goqu.C("id").Gt(filter.After.ID),
				),
			))
		}
		return ds.Order(goqu.I("created_at").Desc(), goqu.I("id").Asc()), nil

	case repositories.ReviewSortHighest:
		if filter.After != nil {
			pred, err := ratingCursorPredicate(filter, false)
			if err != nil {
				return nil, err
			}
			ds = ds.Where(pred)
		}
		return ds.Order(
			goqu.I("rating").Desc(),
			goqu.I("created_at").Desc(),
			goqu.I("id").Asc(),
		), nil

	case repositories.ReviewSortLowest:
		if filter.After != nil {
			pred, err := ratingCursorPredicate(filter, true)
			if err != nil {
				return nil, err
			}
			ds = ds.Where(pred)
		}
		return ds.Order(
			goqu.I("rating").Asc(),
			goqu.I("created_at").Desc(),
			goqu.I("id").Asc(),
		), nil

	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown sort order %q", filter.Sort))
	}
}

func ratingCursorPredicate(filter repositories.ReviewPageFilter, ascending bool) (goqu.Expression, error) {
	rating, err := filter.After.KeyAsInt()
	if err != nil {
		return nil, err
	}
	if filter.After.CreatedAt == nil {
		return nil, apperrors.NewValidationError("invalid pagination cursor")
	}
	createdAt := *filter.After.CreatedAt

	ratingCmp := goqu.C("rating").Lt(rating)
	if ascending {
		ratingCmp = goqu.C("rating").Gt(rating)
	}

	return goqu.Or(
		ratingCmp,
		goqu.And(
			goqu.C("rating").Eq(rating),
			goqu.Or(
				goqu.C("created_at").Lt(createdAt),
				goqu.And(
					goqu.C("created_at").Eq(createdAt),
					goqu.C("id").Gt(filter.After.ID),
				),
			),
		),
	), nil
}

// CountLikes returns like counts for the given reviews in one grouped query
func (a *ReviewAdapter) CountLikes(ctx context.Context, reviewIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return counts, nil
	}

	query, args, err := a.db.Select(
		goqu.C("review_id"),
		goqu.COUNT(goqu.Star()).As("like_count"),
	).
		From("review_likes").
		Where(goqu.C("review_id").In(reviewIDs)).
		GroupBy(goqu.C("review_id")).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build count query", err)
	}

	rows, err := a.sqlxDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count likes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reviewID string
		var count int
		if err := rows.Scan(&reviewID, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan like count", err)
		}
		counts[reviewID] = count
	}

	return counts, nil
}

// ListUserLikes returns which of the given reviews the user liked
func (a *ReviewAdapter) ListUserLikes(ctx context.Context, userID string, reviewIDs []string) (map[string]struct{}, error) {
	liked := make(map[string]struct{}, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return liked, nil
	}

	query, args, err := a.db.Select("review_id").
		From("review_likes").
		Where(
			goqu.Ex{"user_id": userID},
			goqu.C("review_id").In(reviewIDs),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build likes query", err)
	}

	rows, err := a.sqlxDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list user likes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reviewID string
		if err := rows.Scan(&reviewID); err != nil {
			return nil, apperrors.NewInternalError("failed to scan like", err)
		}
		liked[reviewID] = struct{}{}
	}

	return liked, nil
}

// AddLike records a like. The primary key on (review_id, user_id) turns a
// double like into an already-liked error.
func (a *ReviewAdapter) AddLike(ctx context.Context, reviewID, userID string) error {
	query, args, err := a.db.Insert("review_likes").Rows(goqu.Record{
		"review_id":  reviewID,
		"user_id":    userID,
		"created_at": time.Now(),
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err = a.sqlxDB.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return apperrors.NewAlreadyLikedError("review already liked")
		}
		return apperrors.NewInternalError("failed to add like", err)
	}

	return nil
}

// RemoveLike deletes a like if it exists. Removing a missing like succeeds.
func (a *ReviewAdapter) RemoveLike(ctx context.Context, reviewID, userID string) error {
	query, args, err := a.db.Delete("review_likes").
		Where(goqu.Ex{
			"review_id": reviewID,
			"user_id":   userID,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	if _, err = a.sqlxDB.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to remove like", err)
	}

	return nil
}

// StatsByShop aggregates total, average and the five rating buckets in a
// single pass over the shop's reviews
func (a *ReviewAdapter) StatsByShop(ctx context.Context, shopID string) (*entities.ReviewStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(AVG(rating), 0) AS average,
			COUNT(*) FILTER (WHERE rating = 1) AS rating_1,
			COUNT(*) FILTER (WHERE rating = 2) AS rating_2,
			COUNT(*) FILTER (WHERE rating = 3) AS rating_3,
			COUNT(*) FILTER (WHERE rating = 4) AS rating_4,
			COUNT(*) FILTER (WHERE rating = 5) AS rating_5
		FROM reviews
		WHERE shop_id = $1`

	var total int
	var average float64
	dist := make([]int, 5)

	err := a.sqlxDB.QueryRowContext(ctx, query, shopID).Scan(
		&total, &average,
		&dist[0], &dist[1], &dist[2], &dist[3], &dist[4],
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate review stats", err)
	}

	stats := &entities.ReviewStats{
		ShopID:             shopID,
		TotalReviews:       total,
		AverageRating:      math.Round(average*10) / 10,
		RatingDistribution: make(map[int]int, 5),
	}
	for i, count := range dist {
		stats.RatingDistribution[i+1] = count
	}

	return stats, nil
}
