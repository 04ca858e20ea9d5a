package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
)

type LineupRepository struct {
	mu    sync.RWMutex
	items map[string]lineup.Lineup
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{items: make(map[string]lineup.Lineup)}
}

func (r *LineupRepository) GetByTeamAndWeek(_ context.Context, teamID, weekID string) (lineup.Lineup, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.TeamID == teamID && item.WeekID == weekID {
			return cloneLineup(item), true, nil
		}
	}
	return lineup.Lineup{}, false, nil
}

func (r *LineupRepository) ListByWeekAndStatus(_ context.Context, weekID string, status lineup.Status) ([]lineup.Lineup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []lineup.Lineup
	for _, item := range r.items {
		if item.WeekID == weekID && item.Status == status {
			out = append(out, cloneLineup(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LineupRepository) Upsert(_ context.Context, item lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneLineup(item)
	return nil
}

func (r *LineupRepository) MarkScored(_ context.Context, lineupID string, item lineup.Lineup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[lineupID]
	if !ok {
		return fmt.Errorf("lineup %s not found", lineupID)
	}
	if current.Status == lineup.StatusScored {
		return fmt.Errorf("lineup %s is already scored", lineupID)
	}
	item.ID = lineupID
	item.Status = lineup.StatusScored
	r.items[lineupID] = cloneLineup(item)
	return nil
}

func (r *LineupRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]lineup.Lineup, len(r.items))
	for id, item := range r.items {
		copied[id] = cloneLineup(item)
	}
	return copied
}

func (r *LineupRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = snapshot.(map[string]lineup.Lineup)
}

func cloneLineup(item lineup.Lineup) lineup.Lineup {
	copied := item
	copied.Slots = append([]lineup.Slot(nil), item.Slots...)
	if item.ScoredAt != nil {
		scoredAt := *item.ScoredAt
		copied.ScoredAt = &scoredAt
	}
	return copied
}
