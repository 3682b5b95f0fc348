package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/providers"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
)

// reviewStatsTTL bounds how stale a shop's aggregate can get when an
// invalidation is lost.
const reviewStatsTTL = 5 * time.Minute

// CachedReviewAdapter wraps a ReviewRepository with cached stats. Only the
// aggregate is cached; listings stay keyset-paginated against the database.
type CachedReviewAdapter struct {
	adapter repositories.ReviewRepository
	cache   providers.CacheProvider
}

// NewCachedReviewAdapter creates a new cached review adapter
func NewCachedReviewAdapter(adapter repositories.ReviewRepository, cache providers.CacheProvider) repositories.ReviewRepository {
	return &CachedReviewAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func reviewStatsCacheKey(shopID string) string {
	return fmt.Sprintf("reviews:stats:%s", shopID)
}

// StatsByShop returns the cached aggregate when fresh, falling back to a
// single-pass database aggregation on a miss
func (a *CachedReviewAdapter) StatsByShop(ctx context.Context, shopID string) (*entities.ReviewStats, error) {
	cacheKey := reviewStatsCacheKey(shopID)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var stats entities.ReviewStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		log.Warn().Str("shop_id", shopID).Err(err).Msg("failed to unmarshal cached review stats")
	}

	stats, err := a.adapter.StatsByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(stats); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, reviewStatsTTL); err != nil {
				log.Warn().Str("shop_id", shopID).Err(err).Msg("failed to cache review stats")
			}
		}
	}()

	return stats, nil
}

// Create inserts a review and invalidates the shop's cached stats
func (a *CachedReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if err := a.adapter.Create(ctx, review); err != nil {
		return err
	}
	a.invalidateStats(review.ShopID)
	return nil
}

// Update persists review changes and invalidates the shop's cached stats
func (a *CachedReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	if err := a.adapter.Update(ctx, review); err != nil {
		return err
	}
	a.invalidateStats(review.ShopID)
	return nil
}

// Delete removes a review and invalidates the shop's cached stats. The
// review is loaded first so the shop id is known after the row is gone.
func (a *CachedReviewAdapter) Delete(ctx context.Context, id string) error {
	review, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidateStats(review.ShopID)
	return nil
}

func (a *CachedReviewAdapter) invalidateStats(shopID string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, reviewStatsCacheKey(shopID)); err != nil {
			log.Warn().Str("shop_id", shopID).Err(err).Msg("failed to invalidate review stats cache")
		}
	}()
}

// GetByID delegates to the underlying adapter
func (a *CachedReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return a.adapter.GetByID(ctx, id)
}

// ListByShop delegates to the underlying adapter
func (a *CachedReviewAdapter) ListByShop(ctx context.Context, shopID string, filter repositories.ReviewPageFilter) ([]*entities.Review, error) {
	return a.adapter.ListByShop(ctx, shopID, filter)
}

// CountLikes delegates to the underlying adapter
func (a *CachedReviewAdapter) CountLikes(ctx context.Context, reviewIDs []string) (map[string]int, error) {
	return a.adapter.CountLikes(ctx, reviewIDs)
}

// ListUserLikes delegates to the underlying adapter
func (a *CachedReviewAdapter) ListUserLikes(ctx context.Context, userID string, reviewIDs []string) (map[string]struct{}, error) {
	return a.adapter.ListUserLikes(ctx, userID, reviewIDs)
}

// AddLike delegates to the underlying adapter
func (a *CachedReviewAdapter) AddLike(ctx context.Context, reviewID, userID string) error {
	return a.adapter.AddLike(ctx, reviewID, userID)
}

// RemoveLike delegates to the underlying adapter
func (a *CachedReviewAdapter) RemoveLike(ctx context.Context, reviewID, userID string) error {
	return a.adapter.RemoveLike(ctx, reviewID, userID)
}
