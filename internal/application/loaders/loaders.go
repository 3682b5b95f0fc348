package loaders

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/repositories"
)

// Loaders batches per-review enrichment lookups so a listing page issues one
// grouped query instead of a query per row. Instances are request-scoped;
// like counts must not be cached across requests.
type Loaders struct {
	LikeCountLoader *dataloader.Loader[string, int]
}

// NewLoaders creates request-scoped loaders backed by the review repository
func NewLoaders(reviewRepo repositories.ReviewRepository) *Loaders {
	return &Loaders{
		LikeCountLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[int] {
			results := make([]*dataloader.Result[int], len(keys))
			counts, err := reviewRepo.CountLikes(ctx, keys)

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[int]{Error: err}
					continue
				}
				// Reviews with no likes are absent from the grouped count.
				results[i] = &dataloader.Result[int]{Data: counts[key]}
			}
			return results
		}),
	}
}

// LikeCounts loads like counts for all given reviews in a single batch
func (l *Loaders) LikeCounts(ctx context.Context, reviewIDs []string) (map[string]int, error) {
	if len(reviewIDs) == 0 {
		return map[string]int{}, nil
	}

	thunks := l.LikeCountLoader.LoadMany(ctx, reviewIDs)
	values, errs := thunks()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	counts := make(map[string]int, len(reviewIDs))
	for i, id := range reviewIDs {
		counts[id] = values[i]
	}
	return counts, nil
}
