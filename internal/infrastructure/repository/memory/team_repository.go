package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-cards/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = t
	}
	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByUserAndName(_ context.Context, userID, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.Name == name {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByUser(_ context.Context, userID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *TeamRepository) AdjustCoins(_ context.Context, teamID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[teamID]
	if !ok {
		return 0, fmt.Errorf("team %s not found", teamID)
	}
	next := item.Coins + delta
	if next < 0 {
		return 0, fmt.Errorf("balance would go negative: %d%+d", item.Coins, delta)
	}
	item.Coins = next
	r.items[teamID] = item
	return next, nil
}

func (r *TeamRepository) SetActive(_ context.Context, teamID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	item.Active = active
	r.items[teamID] = item
	return nil
}

func (r *TeamRepository) Snapshot() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]team.Team, len(r.items))
	for id, item := range r.items {
		copied[id] = item
	}
	return copied
}

func (r *TeamRepository) Restore(snapshot any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = snapshot.(map[string]team.Team)
}
