package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/week"
)

type WeekRepository struct {
	mu    sync.RWMutex
	items map[string]week.Week
}

func NewWeekRepository(weeks []week.Week) *WeekRepository {
	items := make(map[string]week.Week, len(weeks))
	for _, w := range weeks {
		items[w.ID] = w
	}
	return &WeekRepository{items: items}
}

func (r *WeekRepository) GetByID(_ context.Context, weekID string) (week.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[weekID]
	return item, ok, nil
}

func (r *WeekRepository) ListBySeason(_ context.Context, season int) ([]week.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []week.Week
	for _, item := range r.items {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
