package trend

import "context"

// Repository persists the trending cache. Upsert replaces the whole row
// for the (player, season) key.
type Repository interface {
	Get(ctx context.Context, playerID string, season int) (Trending, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Trending, error)
	Upsert(ctx context.Context, item Trending) error
}
