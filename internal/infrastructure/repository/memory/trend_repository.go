package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/trend"
)

type TrendRepository struct {
	mu    sync.RWMutex
	items map[string]trend.Trending
}

func NewTrendRepository() *TrendRepository {
	return &TrendRepository{items: make(map[string]trend.Trending)}
}

func (r *TrendRepository) Get(_ context.Context, playerID string, season int) (trend.Trending, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[trendKey(playerID, season)]
	return item, ok, nil
}

func (r *TrendRepository) ListBySeason(_ context.Context, season int) ([]trend.Trending, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []trend.Trending
	for _, item := range r.items {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *TrendRepository) Upsert(_ context.Context, item trend.Trending) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[trendKey(item.PlayerID, item.Season)] = item
	return nil
}

func trendKey(playerID string, season int) string {
	return fmt.Sprintf("%s::%d", playerID, season)
}
